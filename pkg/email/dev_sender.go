package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DevSender implements EmailSender for local runs.
// Each message is written to dir as an HTML body plus a JSON envelope
// sharing the same base name.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a sender that writes messages to dir, creating it on first send.
func NewDevSender(dir string) *DevSender {
	return &DevSender{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (d *DevSender) Dir() string { return d.dir }

type envelope struct {
	Timestamp string `json:"timestamp"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
	BodyFile  string `json:"body_file"`
}

// SendEmail writes the message to disk.
func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	identifier := params.Tag
	if identifier == "" {
		identifier = params.Subject
	}
	base := fmt.Sprintf("%s_%s", now.Format("20060102T150405.000000"), sanitizeFilename(identifier))

	htmlName := base + ".html"
	if err := os.WriteFile(filepath.Join(d.dir, htmlName), []byte(params.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrFailedToSendEmail, err)
	}

	data, err := json.MarshalIndent(envelope{
		Timestamp: now.Format(time.RFC3339),
		SendTo:    params.SendTo,
		Subject:   params.Subject,
		Tag:       params.Tag,
		BodyFile:  htmlName,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode envelope: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: write envelope: %v", ErrFailedToSendEmail, err)
	}

	return nil
}

// unsafeChars matches characters that are not alphanumeric, dash, underscore, or dot.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename lowercases s, turns spaces into underscores, drops other
// unsafe characters and caps the length at 64 bytes.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
	s = unsafeChars.ReplaceAllString(s, "")

	const maxLength = 64
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
