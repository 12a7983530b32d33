// Package s3 stores uploaded campground images in an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
)

const DefaultTimeout = 30 * time.Second

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// objectAPI is the subset of *s3.Client used by Store.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store implements interfaces.MediaStore. Object keys are the image filenames.
type Store struct {
	client        objectAPI
	bucket        string
	folder        string
	publicBaseURL string
	timeout       time.Duration
	logger        interfaces.Logger
}

// NewStore builds an S3 client from cfg. Static credentials are used when an
// access key is configured, otherwise the default AWS credential chain applies.
func NewStore(ctx context.Context, cfg *config.MediaConfig, logger interfaces.Logger) (interfaces.MediaStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("media store: config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("media store: logger cannot be nil")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media store: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newStore(client, cfg, logger), nil
}

func newStore(client objectAPI, cfg *config.MediaConfig, logger interfaces.Logger) *Store {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		folder:        strings.Trim(cfg.Folder, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		timeout:       timeout,
		logger:        logger,
	}
}

// Upload stores body under a fresh key in the configured folder and returns
// the public URL and key of the new object.
func (s *Store) Upload(ctx context.Context, originalName, contentType string, body io.Reader) (models.Image, error) {
	ext := strings.ToLower(path.Ext(originalName))
	if !allowedExtensions[ext] {
		return models.Image{}, fmt.Errorf("media store: unsupported file type %q", ext)
	}

	content, size, err := seekableBody(body)
	if err != nil {
		return models.Image{}, fmt.Errorf("media store: failed to read upload: %w", err)
	}

	key := uuid.New().String() + ext
	if s.folder != "" {
		key = s.folder + "/" + key
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          content,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return models.Image{}, fmt.Errorf("media store: failed to upload %s: %w", originalName, err)
	}

	s.logger.Debug("Uploaded image", "key", key, "size", size)
	return models.Image{
		URL:      s.publicBaseURL + "/" + key,
		Filename: key,
	}, nil
}

// seekableBody returns body positioned at its start together with its length.
// Multipart files are streamed as they are; the SDK needs a seekable body to
// sign plain-HTTP requests, so anything else is buffered.
func seekableBody(body io.Reader) (io.ReadSeeker, int64, error) {
	if rs, ok := body.(io.ReadSeeker); ok {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, 0, err
		}
		end, err := rs.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, err
		}
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, 0, err
		}
		return rs, end - start, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

// Destroy deletes the object named filename. Deleting a missing object succeeds.
func (s *Store) Destroy(ctx context.Context, filename string) error {
	if filename == "" {
		return fmt.Errorf("media store: filename cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		return fmt.Errorf("media store: failed to destroy %s: %w", filename, err)
	}

	s.logger.Debug("Destroyed image", "key", filename)
	return nil
}
