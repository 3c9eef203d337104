// Package blob hands out presigned S3 URLs so clients upload and download
// chat attachments directly against the bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var ErrDisabled = errors.New("attachment storage is not configured")

type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type Upload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Store presigns object requests. A Store built without a bucket is
// disabled and every call returns ErrDisabled.
type Store struct {
	bucket  string
	presign *s3.PresignClient
	now     func() time.Time
}

func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return &Store{now: time.Now}, nil
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Store{bucket: opts.Bucket, presign: s3.NewPresignClient(client), now: time.Now}, nil
}

func (s *Store) Enabled() bool {
	return s != nil && s.presign != nil
}

// PresignUpload reserves a new object key under prefix and returns a PUT URL
// for it. The file name is kept as the last path element.
func (s *Store) PresignUpload(ctx context.Context, prefix, fileName, contentType string) (Upload, error) {
	if !s.Enabled() {
		return Upload{}, ErrDisabled
	}
	key := ObjectKey(prefix, uuid.NewString(), fileName)
	input := &s3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := s.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return Upload{}, fmt.Errorf("presign put: %w", err)
	}
	return Upload{Key: key, URL: req.URL, Method: req.Method, ExpiresAt: s.now().Add(presignExpiry)}, nil
}

func (s *Store) PresignDownload(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

// ObjectKey joins the parts into a slash separated key, reducing the file
// name to its base so it cannot climb out of the prefix.
func ObjectKey(prefix, id, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "file"
	}
	return path.Join(prefix, id, name)
}
