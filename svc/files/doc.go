// Package files exposes the recycle-bin operations as one service: upload,
// list, download, soft delete, restore, purge, sizes and summary notification.
//
// The service owns a lifecycle.Manager for moves and purges, a sizer.Aggregator
// for store sizes and a summary.Reporter for notifications. Sizes and summaries
// hold the manager's read lock, so they never observe a half-finished mutation.
//
//	active, recycle, err := files.OpenStores(ctx, cfg, log)
//	svc, err := files.New(active, recycle, sender, cfg, log)
//	name, err := svc.SoftDelete(ctx, "report.pdf")
package files
