package files

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
)

// OpenStores builds the active and recycle stores for cfg.Driver.
// Local directories are created if absent.
func OpenStores(ctx context.Context, cfg Config, log *slog.Logger, s3opts ...blobstore.S3Option) (blobstore.Store, blobstore.Store, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	switch cfg.Driver {
	case DriverLocal, "":
		if cfg.ActiveDir == "" || cfg.RecycleDir == "" || cfg.dirsOverlap() {
			return nil, nil, fmt.Errorf("%w: active and recycle directories must be disjoint", ErrInvalidConfig)
		}
		opts := []blobstore.LocalOption{
			blobstore.WithLocalLogger(log),
			blobstore.WithMaxSize(cfg.MaxUploadSize),
			blobstore.WithMaxDepth(cfg.MaxDepth),
		}
		active, err := blobstore.NewLocal(blobstore.Active, filepath.Join(cfg.Root, cfg.ActiveDir), opts...)
		if err != nil {
			return nil, nil, err
		}
		recycle, err := blobstore.NewLocal(blobstore.Recycle, filepath.Join(cfg.Root, cfg.RecycleDir), opts...)
		if err != nil {
			return nil, nil, err
		}
		return active, recycle, nil

	case DriverS3:
		if cfg.prefixesOverlap() {
			return nil, nil, fmt.Errorf("%w: active and recycle prefixes must be disjoint", ErrInvalidConfig)
		}
		client, err := blobstore.NewS3Client(ctx, blobstore.S3Config{
			Bucket:         cfg.S3.Bucket,
			Region:         cfg.S3.Region,
			AccessKeyID:    cfg.S3.AccessKeyID,
			SecretKey:      cfg.S3.SecretKey,
			Endpoint:       cfg.S3.Endpoint,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		}, s3opts...)
		if err != nil {
			return nil, nil, err
		}
		opts := append([]blobstore.S3Option{blobstore.WithS3MaxSize(cfg.MaxUploadSize)}, s3opts...)
		active, err := blobstore.NewS3(blobstore.Active, client, cfg.S3.Bucket, cfg.S3.ActivePrefix, opts...)
		if err != nil {
			return nil, nil, err
		}
		recycle, err := blobstore.NewS3(blobstore.Recycle, client, cfg.S3.Bucket, cfg.S3.RecyclePrefix, opts...)
		if err != nil {
			return nil, nil, err
		}
		return active, recycle, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
