package binder

import "net/http"

// Path creates a binder for fields tagged `path:"name"`, reading values through
// the router-specific extractor, e.g. chi.URLParam:
//
//	type EntryRequest struct {
//		Store string `path:"store"`
//		Name  string `path:"name"`
//	}
//
//	r.Get("/files/{store}/{name}", handler.Wrap(h,
//		handler.WithBinders[handler.Context, EntryRequest](binder.Path(chi.URLParam)),
//	))
func Path(extractor func(r *http.Request, key string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return ErrBinderNotApplicable
		}
		return bindToStruct(v, "path", func(name string) []string {
			if value := extractor(r, name); value != "" {
				return []string{value}
			}
			return nil
		}, ErrFailedToParsePath)
	}
}
