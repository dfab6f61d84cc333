// Package email delivers HTML notifications through a provider-agnostic EmailSender.
//
// Two implementations are provided:
//   - the Postmark client (NewPostmarkClient) for real delivery
//   - DevSender, which writes each message to a directory as an .html body and a .json envelope
//
// New picks Postmark when both tokens are configured and falls back to DevSender otherwise:
//
//	sender, err := email.New(cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "ops@example.com",
//		Subject:  "Stored files summary",
//		BodyHTML: html,
//		Tag:      "files-summary",
//	})
//
// All senders validate parameters first and fail with ErrInvalidParams before any
// I/O. Delivery failures wrap ErrFailedToSendEmail.
package email
