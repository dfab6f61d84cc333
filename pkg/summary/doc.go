// Package summary reports the contents and byte usage of the active and recycle stores.
//
// BuildSummary lists and measures both stores under a caller-supplied lock and
// returns a Summary. Notify validates the recipient, renders the summary as HTML
// and hands it to an email.EmailSender:
//
//	rep, _ := summary.New(active, recycle, sender, summary.WithLocker(manager.RLocker()))
//	if _, err := rep.Notify(ctx, "ops@example.com"); errors.Is(err, summary.ErrNotificationFailed) {
//		// summary was computed but not delivered
//	}
//
// A bad recipient fails with validator.ValidationErrors before any store is read.
package summary
