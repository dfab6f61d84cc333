// Package binder turns HTTP requests into typed request structs.
//
// Each binder has the signature func(*http.Request, any) error and handles one
// source: JSON bodies (`json` tags), query strings (`query` tags) and router
// path parameters (`path` tags). Binders are combined with handler.WithBinders.
//
// Uploads are not bound into structs: StreamFile hands the file part of a
// multipart request to a callback as an io.Reader so large files never sit in memory.
package binder
