// Package host serves panels to browsers.
//
// The page shell at "/" connects back over socket.io. Every connection gets
// its own session. Browser events arrive as "dispatch" messages and are
// handled one at a time per connection; once the panel's loop has settled,
// the new rendering is pushed as a "render" message.
//
// Messages from the browser:
//
//	dispatch       {node, type, value?, selectionStart?, selectionEnd?}
//	prompt-answer  {value, ok}
//
// Messages to the browser:
//
//	render  <html of the panel>
//	prompt  <message>
//	report  <error text>
package host
