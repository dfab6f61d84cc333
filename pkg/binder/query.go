package binder

import "net/http"

// Query creates a binder for fields tagged `query:"name"`.
// Slices accept repeated and comma-separated values; pointers mark optional fields.
//
//	type ListRequest struct {
//		Store string `query:"store"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values := r.URL.Query()
		return bindToStruct(v, "query", func(name string) []string { return values[name] }, ErrFailedToParseQuery)
	}
}
