package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobboard-service/pkg/config"
	"jobboard-service/pkg/logger"
	"jobboard-service/prometheus"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type streamUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Options configures where objects land and how their public URL is built
type S3Options struct {
	Bucket        string
	Region        string
	PublicBaseURL string
}

// S3Service stores blobs in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   objectAPI
	uploader streamUploader
	opts     S3Options
	newKey   func(folder, filename string) string
}

func NewS3Service(client *s3.Client, opts S3Options) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
		newKey:   objectKey,
	}
}

// NewFromConfig builds an S3Service from the storage and AWS settings
func NewFromConfig(ctx context.Context, cfg config.StorageConfig, awsConfig config.AWSConfig) (*S3Service, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if awsConfig.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(awsConfig.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3Service(client, S3Options{
		Bucket:        cfg.Bucket,
		Region:        cfg.Region,
		PublicBaseURL: cfg.PublicBaseURL,
	}), nil
}

// Store uploads the blob under a key chosen once per call, so a fallback
// attempt overwrites rather than duplicates. The local file is sent directly
// first; if that fails the content is buffered in memory and streamed
// through the multipart uploader.
func (s *S3Service) Store(ctx context.Context, blob Blob) (Object, error) {
	if s.opts.Bucket == "" {
		return Object{}, fmt.Errorf("storage bucket is required")
	}

	log := logger.FromContext(ctx)
	key := s.newKey(blob.Folder, blob.Filename)

	var errs []error
	if blob.Path != "" {
		err := s.putFromPath(ctx, key, blob)
		if err == nil {
			prometheus.RecordUpload("path", "success")
			return s.object(key), nil
		}
		prometheus.RecordUpload("path", "failure")
		log.Warn("Direct upload failed, falling back to buffered upload", zap.String("key", key), zap.Error(err))
		errs = append(errs, fmt.Errorf("direct upload: %w", err))
	}

	data := blob.Data
	if len(data) == 0 && blob.Path != "" {
		var err error
		data, err = os.ReadFile(blob.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", blob.Path, err))
			return Object{}, errors.Join(errs...)
		}
	}
	if len(data) == 0 {
		errs = append(errs, errors.New("no file data available for buffered upload"))
		return Object{}, errors.Join(errs...)
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: contentType(blob),
	})
	if err != nil {
		prometheus.RecordUpload("buffered", "failure")
		errs = append(errs, fmt.Errorf("buffered upload: %w", err))
		return Object{}, errors.Join(errs...)
	}

	prometheus.RecordUpload("buffered", "success")
	return s.object(key), nil
}

func (s *S3Service) putFromPath(ctx context.Context, key string, blob Blob) error {
	f, err := os.Open(blob.Path)
	if err != nil {
		return fmt.Errorf("open file %s: %w", blob.Path, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: contentType(blob),
	}
	if blob.Size > 0 {
		input.ContentLength = aws.Int64(blob.Size)
	}

	_, err = s.client.PutObject(ctx, input)
	return err
}

// Delete removes the object stored under key
func (s *S3Service) Delete(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Service) object(key string) Object {
	return Object{Key: key, URL: s.publicURL(key)}
}

func (s *S3Service) publicURL(key string) string {
	if s.opts.PublicBaseURL != "" {
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}

func contentType(blob Blob) *string {
	if blob.ContentType == "" {
		return nil
	}
	return aws.String(blob.ContentType)
}

func objectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	key := uuid.NewString() + ext
	if folder = strings.Trim(folder, "/"); folder != "" {
		key = folder + "/" + key
	}
	return key
}

var _ Service = (*S3Service)(nil)
