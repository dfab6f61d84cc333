// Package handler adapts typed request handlers to net/http.
//
// Wrap binds the request into a value of type R with the configured binders,
// calls the HandlerFunc and renders the returned Response. Binding and render
// failures go to an ErrorHandler; NewErrorHandler maps domain errors to
// HTTPError values, logs them and answers with a JSON envelope:
//
//	{"error": {"code": "not_found", "message": "...", "details": {...}}}
//
// Successful JSON responses use the same envelope with a "data" member.
package handler
