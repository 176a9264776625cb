package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and fall back to the standard AWS config chain.
type S3Config struct {
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile.
	Profile string
	// UsePathStyle forces path-style addressing (useful for some S3-compatible providers).
	UsePathStyle bool
}

// S3 wraps the AWS SDK for Go v2 S3 client with the narrow surface the
// render pipeline needs: upload finished videos, check and clean them up.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 creates an S3 wrapper targeting one bucket, using the default AWS
// configuration chain with optional overrides.
func NewS3(ctx context.Context, cfg S3Config, bucket, prefix string) (*S3, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: c, bucket: bucket, prefix: prefix}, nil
}

// Put uploads an object under the store's prefix.
func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string, acl s3types.ObjectCannedACL) error {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if acl != "" {
		in.ACL = acl
	}

	_, err := s.client.PutObject(ctx, in)
	return err
}

// UploadFile streams a local file to the given key, inferring the content
// type from the extension. Returns the full object key.
func (s *S3) UploadFile(ctx context.Context, key, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if err := s.Put(ctx, key, f, contentType, ""); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.prefix + key, nil
}

// Get fetches an object and returns its streaming body. Caller must Close it.
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// Delete removes the object at key.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	return err
}

// Exists returns true if the object exists; false on 404/NotFound.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err == nil {
		return true, nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 404 {
		return false, nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound" {
		return false, nil
	}

	return false, err
}

// List lists object keys under the store's prefix plus the given suffix.
func (s *S3) List(ctx context.Context, suffix string, maxKeys int32, continuationToken *string) (*s3.ListObjectsV2Output, error) {
	return s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:            aws.String(s.bucket),
		Prefix:            aws.String(s.prefix + suffix),
		MaxKeys:           aws.Int32(maxKeys),
		ContinuationToken: continuationToken,
	})
}

// S3FromEnv returns an S3 store if configured via env, nil otherwise.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX,
// S3_USE_PATH_STYLE=true.
func S3FromEnv(ctx context.Context) *S3 {
	bucket := strings.TrimSpace(os.Getenv("S3_BUCKET"))
	if bucket == "" {
		return nil
	}

	cfg := S3Config{
		Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}

	prefix := strings.TrimSpace(os.Getenv("S3_PREFIX"))
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}

	store, err := NewS3(ctx, cfg, bucket, prefix)
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (uploads disabled)", err)
		return nil
	}
	return store
}
