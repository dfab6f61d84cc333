package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrymomot/recyclebin/pkg/validator"
)

// EmailSender represents an interface for sending emails.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`       // Email address of the recipient
	Subject  string `json:"subject"`       // Subject of the email
	BodyHTML string `json:"body_html"`     // HTML body of the email
	Tag      string `json:"tag,omitempty"` // Optional
}

// ValidAddress reports whether s is a bare email address. It shares the rule
// callers apply through validator.ValidEmail, so an address accepted upstream
// is never rejected here.
func ValidAddress(s string) bool {
	return validator.IsEmail(s)
}

// Validate checks that all required fields are present and SendTo is an address.
func (p SendEmailParams) Validate() error {
	switch {
	case strings.TrimSpace(p.SendTo) == "":
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	case !ValidAddress(p.SendTo):
		return fmt.Errorf("%w: SendTo must be a valid email address", ErrInvalidParams)
	case strings.TrimSpace(p.Subject) == "":
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	case strings.TrimSpace(p.BodyHTML) == "":
		return fmt.Errorf("%w: BodyHTML is required", ErrInvalidParams)
	}
	return nil
}

// New returns a Postmark sender when both tokens are configured and a
// DevSender writing to cfg.DevDir otherwise.
func New(cfg Config) (EmailSender, error) {
	if cfg.UsePostmark() {
		return NewPostmarkClient(cfg)
	}
	if cfg.DevDir == "" {
		return nil, fmt.Errorf("%w: DevDir is required without Postmark tokens", ErrInvalidConfig)
	}
	return NewDevSender(cfg.DevDir), nil
}
