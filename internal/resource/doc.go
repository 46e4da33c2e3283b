// Package resource issues single asynchronous operations against the remote
// file-serving API.
//
// A Client turns one (method, location, body) triple into exactly one HTTP
// exchange and returns an async.Future resolved with the response body as
// text. Any status below 400 is a success. Other statuses reject with a
// *RemoteError; connection-level failures, including a request that cannot
// even be built, reject with a *TransportError. Call never panics and never
// returns an error directly: every failure travels through the future.
//
// The client deliberately has no retry, timeout or cancellation policy of its
// own. Callers that need one wrap the transport with a Middleware or pass a
// context with a deadline.
package resource
