// Package s3store implements the object store interfaces on any
// S3-compatible backend. AWS S3, Cloudflare R2 and MinIO are all reached
// through the same API surface; only the endpoint and addressing style
// differ.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/metrics"
)

// Config holds the connection settings for an S3-compatible bucket.
type Config struct {
	// Endpoint overrides the AWS endpoint for R2 and MinIO deployments.
	// Leave empty for AWS S3 proper.
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`

	// AccessKey and SecretKey select static credentials. When either is
	// empty the SDK's default chain applies (environment, shared config,
	// instance role).
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`

	// UsePathStyle addresses the bucket as a path segment instead of a
	// subdomain. MinIO and most self-hosted gateways need this.
	UsePathStyle bool `mapstructure:"use_path_style"`
}

// API is the slice of the S3 client the store issues calls through.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements gradlemirror.WriteStore over an S3-compatible bucket.
type S3Store struct {
	client API
	bucket string
}

var _ gradlemirror.WriteStore = (*S3Store)(nil)

// New builds an S3Store from connection settings.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClient(client, cfg.Bucket), nil
}

// NewWithClient wraps an existing client. Tests use it to substitute a fake.
func NewWithClient(client API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// Get retrieves an object and opens its body for reading.
func (s *S3Store) Get(ctx context.Context, key string) (*gradlemirror.Object, error) {
	start := time.Now()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordStoreOperation("get", "error", time.Since(start))
		if isNotFound(err) {
			return nil, fmt.Errorf("get object %s: %w", key, gradlemirror.ErrNotFound)
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	metrics.RecordStoreOperation("get", "success", time.Since(start))

	return &gradlemirror.Object{
		ObjectInfo: gradlemirror.ObjectInfo{
			Key:          key,
			Size:         aws.ToInt64(out.ContentLength),
			ETag:         cleanETag(out.ETag),
			ContentType:  aws.ToString(out.ContentType),
			LastModified: aws.ToTime(out.LastModified),
		},
		Body: out.Body,
	}, nil
}

// Head retrieves an object's metadata without transferring its body.
func (s *S3Store) Head(ctx context.Context, key string) (gradlemirror.ObjectInfo, error) {
	start := time.Now()

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordStoreOperation("head", "error", time.Since(start))
		if isNotFound(err) {
			return gradlemirror.ObjectInfo{}, fmt.Errorf("head object %s: %w", key, gradlemirror.ErrNotFound)
		}
		return gradlemirror.ObjectInfo{}, fmt.Errorf("head object %s: %w", key, err)
	}
	metrics.RecordStoreOperation("head", "success", time.Since(start))

	return gradlemirror.ObjectInfo{
		Key:          key,
		Size:         aws.ToInt64(out.ContentLength),
		ETag:         cleanETag(out.ETag),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// List returns one level of the keyspace below q.Prefix. Pages are
// accumulated so a directory with more than one page of children renders
// completely.
func (s *S3Store) List(ctx context.Context, q gradlemirror.ListQuery) (gradlemirror.ListResult, error) {
	start := time.Now()

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if q.Prefix != "" {
		input.Prefix = aws.String(q.Prefix)
	}
	if q.Delimiter != "" {
		input.Delimiter = aws.String(q.Delimiter)
	}

	var res gradlemirror.ListResult
	p := s3.NewListObjectsV2Paginator(s.client, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			metrics.RecordStoreOperation("list", "error", time.Since(start))
			return gradlemirror.ListResult{}, fmt.Errorf("list prefix %q: %w", q.Prefix, err)
		}

		for _, cp := range page.CommonPrefixes {
			res.CommonPrefixes = append(res.CommonPrefixes, aws.ToString(cp.Prefix))
		}
		for _, obj := range page.Contents {
			res.Objects = append(res.Objects, gradlemirror.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				ETag:         cleanETag(obj.ETag),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	metrics.RecordStoreOperation("list", "success", time.Since(start))

	return res, nil
}

// Put stores an object under key, overwriting any existing object.
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, opts gradlemirror.PutOptions) (gradlemirror.ObjectInfo, error) {
	start := time.Now()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentLength > 0 {
		input.ContentLength = aws.Int64(opts.ContentLength)
	}
	if opts.CacheControl != "" {
		input.CacheControl = aws.String(opts.CacheControl)
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		metrics.RecordStoreOperation("put", "error", time.Since(start))
		return gradlemirror.ObjectInfo{}, fmt.Errorf("put object %s: %w", key, err)
	}
	metrics.RecordStoreOperation("put", "success", time.Since(start))

	return gradlemirror.ObjectInfo{
		Key:         key,
		Size:        opts.ContentLength,
		ETag:        cleanETag(out.ETag),
		ContentType: opts.ContentType,
	}, nil
}

// Delete removes an object. S3 deletes are silent about absent keys, so
// existence is checked first to keep the ErrNotFound contract the cleanup
// reporting depends on.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if _, err := s.Head(ctx, key); err != nil {
		return err
	}

	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordStoreOperation("delete", "error", time.Since(start))
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	metrics.RecordStoreOperation("delete", "success", time.Since(start))

	return nil
}

// ListAll returns every object whose key begins with prefix.
func (s *S3Store) ListAll(ctx context.Context, prefix string) ([]gradlemirror.ObjectInfo, error) {
	res, err := s.List(ctx, gradlemirror.ListQuery{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	return res.Objects, nil
}

// cleanETag strips the quotes S3 wraps around ETag values; the HTTP layer
// adds its own pair when writing the header.
func cleanETag(etag *string) string {
	return strings.Trim(aws.ToString(etag), `"`)
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}
