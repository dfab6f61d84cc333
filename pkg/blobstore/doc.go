// Package blobstore provides the storage namespaces used by the recycle bin service.
//
// A Store is a flat namespace of named entries. Each entry is either a single file or a
// directory whose size is the total of all regular files below it. Two stores are used
// by the service: Active for live entries and Recycle for soft-deleted ones.
//
// Backends:
//   - Local stores entries as children of a directory. Writes go through a staging
//     directory on the same volume and are renamed into place; moves between Local
//     stores on one filesystem are a single rename.
//   - S3 stores entries below a key prefix of a bucket. Moves are copy then delete with
//     rollback on failure; objects they would overwrite are kept aside until the move commits.
//
// Stage reads content without publishing it, so callers can hold locks only for Commit.
//
// Example:
//
//	active, err := blobstore.NewLocal(blobstore.Active, "./data/active")
//	if err != nil {
//	    return err
//	}
//	recycle, err := blobstore.NewLocal(blobstore.Recycle, "./data/recycle")
//	if err != nil {
//	    return err
//	}
//
//	if _, err := active.Put(ctx, "report.pdf", body); err != nil {
//	    return err
//	}
//	if err := active.Move(ctx, "report.pdf", recycle, "report.pdf"); err != nil {
//	    return err
//	}
//
// Errors are wrapped sentinels: ErrNotFound for missing entries, ErrIO for failed
// storage operations, ErrInvalidName for names that would escape the namespace.
package blobstore
