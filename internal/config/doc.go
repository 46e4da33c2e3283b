// Package config loads the filepanel configuration from HCL files.
//
// A configuration is made of optional top-level blocks:
//
//	remote {
//	  base_url       = "http://localhost:8000"
//	  home_directory = "/"
//	}
//
//	server {
//	  listen = ":8080"
//	}
//
//	fileserver {
//	  enabled = true
//	  listen  = ":8000"
//	  root    = "./data"
//	}
//
//	log {
//	  level  = "info"
//	  format = "text"
//	}
//
// Expressions may read environment variables through the env object, e.g.
// env.FILEPANEL_REMOTE, and use a small set of string functions. When
// several files are loaded, attributes set in later files win.
package config
