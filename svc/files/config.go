package files

import (
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/recyclebin/pkg/blobstore"
	"github.com/dmitrymomot/recyclebin/pkg/lifecycle"
	"github.com/dmitrymomot/recyclebin/pkg/validator"
)

// Storage drivers.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config holds storage and lifecycle settings.
type Config struct {
	Driver           string   `env:"STORAGE_DRIVER" envDefault:"local"`
	Root             string   `env:"STORAGE_ROOT" envDefault:"./data"`
	ActiveDir        string   `env:"STORAGE_ACTIVE_DIR" envDefault:"active"`
	RecycleDir       string   `env:"STORAGE_RECYCLE_DIR" envDefault:"recycle"`
	MaxUploadSize    int64    `env:"STORAGE_MAX_UPLOAD_SIZE" envDefault:"33554432"`
	CollisionPolicy  string   `env:"RECYCLE_COLLISION_POLICY" envDefault:"overwrite"`
	PurgeConcurrency int      `env:"PURGE_CONCURRENCY" envDefault:"4"`
	MaxDepth         int      `env:"SIZER_MAX_DEPTH" envDefault:"64"`
	S3               S3Config `envPrefix:"S3_"`
}

// S3Config holds bucket settings used when Driver is "s3".
type S3Config struct {
	Bucket         string `env:"BUCKET"`
	Region         string `env:"REGION"`
	AccessKeyID    string `env:"ACCESS_KEY_ID"`
	SecretKey      string `env:"SECRET_KEY"`
	Endpoint       string `env:"ENDPOINT"`
	ForcePathStyle bool   `env:"FORCE_PATH_STYLE"`
	ActivePrefix   string `env:"ACTIVE_PREFIX" envDefault:"active/"`
	RecyclePrefix  string `env:"RECYCLE_PREFIX" envDefault:"recycle/"`
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	rules := []validator.Rule{
		validator.InListString("STORAGE_DRIVER", c.Driver, []string{"", DriverLocal, DriverS3}),
		{
			Check: func() bool {
				_, err := lifecycle.ParsePolicy(c.CollisionPolicy)
				return err == nil
			},
			Error: validator.ValidationError{
				Field:   "RECYCLE_COLLISION_POLICY",
				Message: "must be one of: overwrite, rename, reject",
				Code:    "validation.in_list",
			},
		},
		validator.MinNum("STORAGE_MAX_UPLOAD_SIZE", c.MaxUploadSize, 0),
		validator.MinNum("PURGE_CONCURRENCY", c.PurgeConcurrency, 0),
		validator.MinNum("SIZER_MAX_DEPTH", c.MaxDepth, 0),
	}
	switch c.Driver {
	case DriverS3:
		rules = append(rules,
			validator.RequiredString("S3_BUCKET", c.S3.Bucket),
			validator.RequiredString("S3_REGION", c.S3.Region),
			disjoint("S3_RECYCLE_PREFIX", !c.prefixesOverlap(), "must not overlap S3_ACTIVE_PREFIX"),
		)
	case DriverLocal, "":
		if c.ActiveDir != "" && c.RecycleDir != "" {
			rules = append(rules,
				disjoint("STORAGE_RECYCLE_DIR", !c.dirsOverlap(), "must not contain or be inside STORAGE_ACTIVE_DIR"),
			)
		}
	}
	return validator.Apply(rules...)
}

func disjoint(field string, ok bool, msg string) validator.Rule {
	return validator.Rule{
		Check: func() bool { return ok },
		Error: validator.ValidationError{
			Field:   field,
			Message: msg,
			Code:    "validation.overlap",
		},
	}
}

// dirsOverlap reports whether one store directory equals or contains the other.
// Either case would list the other store, and its staging directory, as entries.
func (c Config) dirsOverlap() bool {
	a := filepath.Join(c.Root, c.ActiveDir)
	b := filepath.Join(c.Root, c.RecycleDir)
	return within(a, b) || within(b, a)
}

// within reports whether path equals dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// prefixesOverlap compares the prefixes the S3 stores will actually use.
func (c Config) prefixesOverlap() bool {
	a := blobstore.NormalizePrefix(blobstore.Active, c.S3.ActivePrefix)
	b := blobstore.NormalizePrefix(blobstore.Recycle, c.S3.RecyclePrefix)
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}
