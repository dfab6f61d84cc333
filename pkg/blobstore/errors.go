package blobstore

import "errors"

var (
	// ErrNotFound is returned when an entry does not exist in the store.
	ErrNotFound = errors.New("entry not found")

	// ErrIO is returned when the underlying storage operation fails.
	ErrIO = errors.New("storage i/o failure")

	// ErrInvalidName is returned for names that are empty, reserved or contain path separators.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrIsDirectory is returned when file content is requested for a directory entry.
	ErrIsDirectory = errors.New("entry is a directory")

	// ErrTooLarge is returned when content exceeds the configured size limit.
	ErrTooLarge = errors.New("entry exceeds maximum allowed size")

	// ErrCrossStoreMove is returned by Move when the destination is not a compatible store.
	ErrCrossStoreMove = errors.New("stores do not support direct move")

	// ErrInvalidConfig is returned when a store is constructed with missing settings.
	ErrInvalidConfig = errors.New("invalid store configuration")

	// ErrStagedClosed is returned when staged content is committed twice or after Discard.
	ErrStagedClosed = errors.New("staged content already committed or discarded")

	// ErrUnknownNamespace is returned for store ids other than active and recycle.
	ErrUnknownNamespace = errors.New("unknown store")

	// S3-specific classification
	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")
)
