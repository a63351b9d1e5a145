// Package publish uploads finished reports to S3-compatible object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/lvillar/casereport"
	"github.com/lvillar/casereport/config"
)

// ContentType is the media type reports are uploaded with.
const ContentType = "application/pdf"

// PutObjectAPI is the part of the S3 client the publisher calls.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ PutObjectAPI = (*s3.Client)(nil)

// Location is where a report was stored.
type Location struct {
	Bucket string
	Key    string
	ETag   string
}

// URI returns the s3:// form of the location.
func (l Location) URI() string { return "s3://" + l.Bucket + "/" + l.Key }

// Publisher uploads files to one bucket under a key prefix.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
	logger *zap.Logger
}

// Option is a functional option for configuring a Publisher
type Option func(*Publisher)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClient replaces the S3 client, e.g. with a test double.
func WithClient(c PutObjectAPI) Option {
	return func(p *Publisher) {
		p.client = c
	}
}

// New creates a Publisher from configuration. Without static keys the AWS
// default credential chain is used.
func New(ctx context.Context, cfg config.PublishConfig, opts ...Option) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, casereport.NewError("publish.New", casereport.ErrValidation, errors.New("bucket is required"))
	}
	p := &Publisher{
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client != nil {
		return p, nil
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("publish: loading AWS config: %w", err)
	}
	p.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return p, nil
}

// Key returns the object key for the file at filePath.
func (p *Publisher) Key(filePath string) string {
	base := filepath.Base(filePath)
	if p.prefix == "" {
		return base
	}
	return path.Join(p.prefix, base)
}

// Publish uploads the file at filePath. metadata becomes user-defined object
// metadata.
func (p *Publisher) Publish(ctx context.Context, filePath string, metadata map[string]string) (Location, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Location{}, casereport.NewError("publish.Publish", casereport.ErrIO, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Location{}, casereport.NewError("publish.Publish", casereport.ErrIO, err)
	}

	loc := Location{Bucket: p.bucket, Key: p.Key(filePath)}
	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(ContentType),
		Metadata:      metadata,
	})
	if err != nil {
		return Location{}, casereport.NewError("publish.Publish", casereport.ErrIO, fmt.Errorf("uploading %s: %w", loc.URI(), err))
	}
	loc.ETag = aws.ToString(out.ETag)
	p.logger.Info("report published",
		zap.String("uri", loc.URI()),
		zap.Int64("bytes", info.Size()),
	)
	return loc, nil
}
