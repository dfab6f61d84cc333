package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// DefaultS3MaxSize caps buffered uploads when no explicit limit is configured.
const DefaultS3MaxSize = 32 << 20

// S3Client defines the subset of the S3 API used by S3.
// It is satisfied by *s3.Client and by test doubles.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Config contains connection settings for S3 and S3-compatible services.
type S3Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string // Optional: for S3-compatible services
	ForcePathStyle bool   // For S3-compatible services like MinIO
}

// S3 implements Store as a key prefix inside a bucket. Top-level entries are the
// first path segment below the prefix; deeper keys form directory entries.
type S3 struct {
	ns      Namespace
	client  S3Client
	bucket  string
	prefix  string
	maxSize int64
}

// S3Option configures S3 stores.
type S3Option func(*s3Options)

type s3Options struct {
	client        S3Client
	httpClient    *http.Client
	configOptions []func(*config.LoadOptions) error
	clientOptions []func(*s3.Options)
	maxSize       int64
}

// WithS3Client sets a pre-configured client. Useful for sharing one client
// between stores and for tests.
func WithS3Client(c S3Client) S3Option {
	return func(o *s3Options) { o.client = c }
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(c *http.Client) S3Option {
	return func(o *s3Options) { o.httpClient = c }
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(opt func(*config.LoadOptions) error) S3Option {
	return func(o *s3Options) { o.configOptions = append(o.configOptions, opt) }
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(opt func(*s3.Options)) S3Option {
	return func(o *s3Options) { o.clientOptions = append(o.clientOptions, opt) }
}

// WithS3MaxSize limits the bytes a single Put may upload.
func WithS3MaxSize(n int64) S3Option {
	return func(o *s3Options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// NewS3Client builds an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg S3Config, opts ...S3Option) (S3Client, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	options := &s3Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.client != nil {
		return options.client, nil
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}
	if options.httpClient != nil {
		awsOptions = append(awsOptions, config.WithHTTPClient(options.httpClient))
	}
	awsOptions = append(awsOptions, options.configOptions...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
		for _, opt := range options.clientOptions {
			opt(o)
		}
	}), nil
}

// NewS3 creates a store for ns under prefix in bucket.
func NewS3(ns Namespace, client S3Client, bucket, prefix string, opts ...S3Option) (*S3, error) {
	if !ns.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	if client == nil || bucket == "" {
		return nil, fmt.Errorf("%w: client and bucket are required", ErrInvalidConfig)
	}
	prefix = NormalizePrefix(ns, prefix)

	options := &s3Options{maxSize: DefaultS3MaxSize}
	for _, opt := range opts {
		opt(options)
	}

	return &S3{
		ns:      ns,
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		maxSize: options.maxSize,
	}, nil
}

// NormalizePrefix returns the key prefix NewS3 uses for ns: no leading slash,
// one trailing slash, and the namespace name when prefix is empty.
func NormalizePrefix(ns Namespace, prefix string) string {
	prefix = strings.TrimPrefix(prefix, "/")
	if prefix == "" {
		prefix = string(ns) + "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// Namespace implements Store.
func (s *S3) Namespace() Namespace { return s.ns }

// classifyS3Error converts S3 errors to store errors.
func classifyS3Error(err error, operation string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return fmt.Errorf("%w: %s", ErrNotFound, operation)
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%w: %w", ErrIO, ErrBucketNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s", ErrNotFound, operation)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %w", ErrIO, ErrBucketNotFound)
		case "AccessDenied":
			return fmt.Errorf("%w: %w: %s", ErrIO, ErrAccessDenied, operation)
		case "SlowDown", "ServiceUnavailable":
			return fmt.Errorf("%w: %w: %s", ErrIO, ErrServiceUnavailable, operation)
		default:
			return fmt.Errorf("%w: %s (code: %s): %v", ErrIO, operation, apiErr.ErrorCode(), err)
		}
	}

	return fmt.Errorf("%w: %s: %v", ErrIO, operation, err)
}

// Put buffers up to maxSize bytes and uploads them as one object. A directory
// entry with the same name is removed afterwards so the last write wins.
func (s *S3) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	staged, err := s.Stage(ctx, name, r)
	if err != nil {
		return 0, err
	}
	defer func() { _ = staged.Discard() }()

	if err := staged.Commit(ctx); err != nil {
		return 0, err
	}
	return staged.Size(), nil
}

// Stage buffers up to maxSize bytes of r in memory. Nothing is sent to the
// bucket until Commit.
func (s *S3) Stage(ctx context.Context, name string, r io.Reader) (Staged, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrIO)
	}
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrIO, err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxSize)
	}
	return &s3Staged{store: s, name: name, key: key, data: data}, nil
}

// s3Staged holds a buffered object body.
type s3Staged struct {
	store *S3
	name  string
	key   string
	data  []byte
	done  bool
}

func (st *s3Staged) Size() int64 { return int64(len(st.data)) }

// Commit uploads the object and drops any directory entry with the same name.
func (st *s3Staged) Commit(ctx context.Context) error {
	if st.done {
		return ErrStagedClosed
	}
	st.done = true
	s := st.store

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(st.key),
		Body:          bytes.NewReader(st.data),
		ContentLength: aws.Int64(int64(len(st.data))),
	})
	if err != nil {
		return classifyS3Error(err, "put "+st.name)
	}

	nested, err := s.collect(ctx, st.key+"/")
	if err != nil {
		return err
	}
	return s.deleteKeys(ctx, keysOf(nested))
}

// Discard drops the buffer.
func (st *s3Staged) Discard() error {
	st.done = true
	st.data = nil
	return nil
}

// Get opens a file entry.
func (s *S3) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return out.Body, nil
	}

	cerr := classifyS3Error(err, "get "+name)
	if errors.Is(cerr, ErrNotFound) {
		nested, lerr := s.collect(ctx, key+"/")
		if lerr != nil {
			return nil, lerr
		}
		if len(nested) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
		}
	}
	return nil, cerr
}

// Exists reports whether a file object or a directory prefix exists for name.
func (s *S3) Exists(ctx context.Context, name string) (bool, error) {
	key, err := s.key(name)
	if err != nil {
		return false, nil
	}
	objs, err := s.objects(ctx, key)
	if err != nil {
		return false, err
	}
	return len(objs) > 0, nil
}

// List returns the top-level entries below the store prefix.
func (s *S3) List(ctx context.Context) ([]Entry, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(s.prefix),
		Delimiter: aws.String("/"),
	})

	var entries []Entry
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classifyS3Error(err, "list "+string(s.ns))
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), s.prefix), "/")
			if name != "" {
				entries = append(entries, Entry{Name: name, IsDir: true})
			}
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if name != "" && !strings.Contains(name, "/") {
				entries = append(entries, Entry{Name: name})
			}
		}
	}
	return entries, nil
}

// Remove deletes the file object and every object below the directory prefix.
func (s *S3) Remove(ctx context.Context, name string) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	objs, err := s.objects(ctx, key)
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.ns)
	}
	return s.deleteKeys(ctx, keysOf(objs))
}

// SizeOf sums object sizes for the entry.
func (s *S3) SizeOf(ctx context.Context, name string) (int64, error) {
	key, err := s.key(name)
	if err != nil {
		return 0, err
	}
	objs, err := s.objects(ctx, key)
	if err != nil {
		return 0, err
	}
	if len(objs) == 0 {
		return 0, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.ns)
	}

	var total int64
	for _, o := range objs {
		total += aws.ToInt64(o.Size)
	}
	return total, nil
}

// Move copies every object of the entry to dst and then deletes the originals.
// S3 has no rename, so objects already at the destination are first copied
// aside under asidePrefix. A failure at any step removes the copies and puts
// those objects back: the caller sees either a completed move or both stores
// as they were.
func (s *S3) Move(ctx context.Context, name string, dst Store, dstName string) error {
	target, ok := dst.(*S3)
	if !ok || target.bucket != s.bucket {
		return ErrCrossStoreMove
	}
	srcKey, err := s.key(name)
	if err != nil {
		return err
	}
	dstKey, err := target.key(dstName)
	if err != nil {
		return err
	}

	objs, err := s.objects(ctx, srcKey)
	if err != nil {
		return err
	}
	if len(objs) == 0 {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.ns)
	}
	existing, err := target.objects(ctx, dstKey)
	if err != nil {
		return err
	}

	aside, err := target.setAside(ctx, keysOf(existing))
	if err != nil {
		return err
	}
	rollback := func(cause error, copied []string) error {
		rctx := context.WithoutCancel(ctx)
		return errors.Join(cause,
			target.deleteKeys(rctx, copied),
			target.putBack(rctx, aside),
		)
	}

	copied := make([]string, 0, len(objs))
	for _, o := range objs {
		from := aws.ToString(o.Key)
		to := dstKey + strings.TrimPrefix(from, srcKey)
		if err := s.copyKey(ctx, from, to); err != nil {
			return rollback(classifyS3Error(err, "copy "+name), copied)
		}
		copied = append(copied, to)
	}

	written := make(map[string]struct{}, len(copied))
	for _, k := range copied {
		written[k] = struct{}{}
	}
	var stale []string
	for _, o := range existing {
		if _, ok := written[aws.ToString(o.Key)]; !ok {
			stale = append(stale, aws.ToString(o.Key))
		}
	}
	if err := target.deleteKeys(ctx, stale); err != nil {
		return rollback(err, copied)
	}

	if err := s.deleteKeys(ctx, keysOf(objs)); err != nil {
		return rollback(err, copied)
	}

	// the move is complete; leftover aside copies are outside every store prefix
	_ = target.deleteKeys(context.WithoutCancel(ctx), asideKeys(aside))
	return nil
}

// asidePrefix holds objects displaced by an in-flight move. It sits at the
// bucket root, outside the store prefixes, so listings never show it.
const asidePrefix = ".recyclebin-aside/"

// asideCopy pairs an object key with its temporary copy.
type asideCopy struct {
	key  string
	copy string
}

// setAside copies keys under a fresh asidePrefix directory.
func (s *S3) setAside(ctx context.Context, keys []string) ([]asideCopy, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	dir := asidePrefix + uuid.NewString() + "/"
	saved := make([]asideCopy, 0, len(keys))
	for _, k := range keys {
		c := asideCopy{key: k, copy: dir + k}
		if err := s.copyKey(ctx, c.key, c.copy); err != nil {
			_ = s.deleteKeys(context.WithoutCancel(ctx), asideKeys(saved))
			return nil, classifyS3Error(err, "set aside "+k)
		}
		saved = append(saved, c)
	}
	return saved, nil
}

// putBack restores set-aside objects to their keys and drops the copies.
func (s *S3) putBack(ctx context.Context, saved []asideCopy) error {
	for _, c := range saved {
		if err := s.copyKey(ctx, c.copy, c.key); err != nil {
			return classifyS3Error(err, "restore "+c.key)
		}
	}
	return s.deleteKeys(ctx, asideKeys(saved))
}

func (s *S3) copyKey(ctx context.Context, from, to string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(to),
		CopySource: aws.String(copySource(s.bucket, from)),
	})
	return err
}

func asideKeys(saved []asideCopy) []string {
	keys := make([]string, 0, len(saved))
	for _, c := range saved {
		keys = append(keys, c.copy)
	}
	return keys
}

// objects returns the file object for key plus every object below key+"/".
func (s *S3) objects(ctx context.Context, key string) ([]types.Object, error) {
	objs, err := s.collect(ctx, key+"/")
	if err != nil {
		return nil, err
	}

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if cerr := classifyS3Error(err, "head "+key); !errors.Is(cerr, ErrNotFound) {
			return nil, cerr
		}
		return objs, nil
	}

	return append(objs, types.Object{Key: aws.String(key), Size: head.ContentLength}), nil
}

func (s *S3) collect(ctx context.Context, prefix string) ([]types.Object, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var objs []types.Object
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, classifyS3Error(err, "list "+prefix)
		}
		objs = append(objs, page.Contents...)
	}
	return objs, nil
}

func (s *S3) deleteKeys(ctx context.Context, keys []string) error {
	for i := 0; i < len(keys); i += 1000 {
		end := min(i+1000, len(keys))
		ids := make([]types.ObjectIdentifier, 0, end-i)
		for _, k := range keys[i:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return classifyS3Error(err, "delete objects")
		}
		if out != nil && len(out.Errors) > 0 {
			e := out.Errors[0]
			return fmt.Errorf("%w: delete %s: %s", ErrIO, aws.ToString(e.Key), aws.ToString(e.Message))
		}
	}
	return nil
}

func (s *S3) key(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return s.prefix + name, nil
}

func keysOf(objs []types.Object) []string {
	keys := make([]string, 0, len(objs))
	for _, o := range objs {
		keys = append(keys, aws.ToString(o.Key))
	}
	return keys
}

func copySource(bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return bucket + "/" + strings.Join(parts, "/")
}
