package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
)

type streamResponse struct {
	rc   io.ReadCloser
	name string
}

// Stream copies rc to the client as an attachment named name and closes rc.
// The Content-Type is derived from the name's extension.
func Stream(rc io.ReadCloser, name string) Response {
	return &streamResponse{rc: rc, name: name}
}

func (s *streamResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	defer s.rc.Close()

	ct := mime.TypeByExtension(filepath.Ext(s.name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.name}))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	_, err := io.Copy(w, s.rc)
	return err
}
