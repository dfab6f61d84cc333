package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxJSONSize is the default maximum size for JSON request bodies (1MB).
const DefaultMaxJSONSize = 1 << 20

// JSON creates a binder that decodes an application/json body into the target.
// Unknown fields, trailing data and bodies over DefaultMaxJSONSize are rejected.
//
// Example:
//
//	type SummaryRequest struct {
//		Email string `json:"email"`
//	}
//
//	r.Post("/summary", handler.Wrap(h, handler.WithBinders[handler.Context, SummaryRequest](binder.JSON())))
func JSON() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if err := requireMediaType(r, "application/json"); err != nil {
			return err
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
		if err != nil {
			return fmt.Errorf("%w: read body: %v", ErrFailedToParseJSON, err)
		}
		if len(body) > DefaultMaxJSONSize {
			return fmt.Errorf("%w: %w (max %d bytes)", ErrFailedToParseJSON, ErrBodyTooLarge, DefaultMaxJSONSize)
		}
		if len(body) == 0 {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}

		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
		}
		if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
		}
		return nil
	}
}

// requireMediaType checks the request Content-Type against want, ignoring parameters.
func requireMediaType(r *http.Request, want string) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return fmt.Errorf("%w: expected %s", ErrMissingContentType, want)
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || mediaType != want {
		return fmt.Errorf("%w: got %s, expected %s", ErrUnsupportedMediaType, ct, want)
	}
	return nil
}
