// Package fileserver serves a directory tree over the plain HTTP file
// protocol the panel talks to:
//
//	GET    /dir/       newline-separated entry names
//	GET    /dir/file   file content
//	PUT    /dir/file   create or overwrite with the request body
//	DELETE /dir/file   remove a file or an empty directory
//	MKCOL  /dir/sub    create a directory
//
// Storage goes through an afero.Fs, so the same handler runs against the
// real disk (afero.NewBasePathFs over afero.NewOsFs) or against memory in
// tests (afero.NewMemMapFs).
package fileserver
