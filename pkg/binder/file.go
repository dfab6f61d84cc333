package binder

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// FileHeader describes a streamed multipart file part.
type FileHeader struct {
	Filename    string
	ContentType string
}

// StreamFile reads a multipart/form-data request part by part and calls fn with
// the first file part named field. The part is streamed, never buffered on disk.
// Parts before it are skipped; parts after it are not read.
//
// Example:
//
//	err := binder.StreamFile(r, "file", func(rd io.Reader, h binder.FileHeader) error {
//		_, _, err := manager.Upload(r.Context(), h.Filename, rd)
//		return err
//	})
func StreamFile(r *http.Request, field string, fn func(io.Reader, FileHeader) error) error {
	if err := requireMediaType(r, "multipart/form-data"); err != nil {
		return err
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseForm, err)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %q", ErrMissingFile, field)
		}
		if err != nil {
			return maxBytesError(fmt.Errorf("%w: %w", ErrFailedToParseForm, err))
		}

		if part.FormName() != field || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		err = fn(part, FileHeader{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
		})
		_ = part.Close()
		return maxBytesError(err)
	}
}

// maxBytesError tags http.MaxBytesReader failures with ErrBodyTooLarge.
func maxBytesError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return errors.Join(ErrBodyTooLarge, err)
	}
	return err
}
