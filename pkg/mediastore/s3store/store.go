// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package s3store implements media.Store on an S3-compatible bucket. Each
// asset is stored under <category>/<public id>; descriptor fields live in
// object user metadata, so an asset is only visible under the category it
// was uploaded with.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
	"github.com/LeeDigitalWorks/zapmedia/pkg/s3client"
	"github.com/LeeDigitalWorks/zapmedia/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	metaPublicID  = "public-id"
	metaFormat    = "format"
	metaTags      = "tags"
	metaWidth     = "width"
	metaHeight    = "height"
	metaCreatedAt = "created-at"
	metaVersion   = "version"
	metaETag      = "etag"
	metaContext   = "ctx-"

	defaultConcurrency = 8
)

// API is the subset of *s3.Client the store uses.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config configures the bucket and how secure URLs are built.
type Config struct {
	Bucket string `mapstructure:"bucket"`
	// PublicURL prefixes secure URLs. Defaults to the endpoint plus bucket.
	PublicURL string `mapstructure:"public_base"`
	// Concurrency bounds parallel HEAD requests in batch calls.
	Concurrency int    `mapstructure:"concurrency"`
	TempDir     string `mapstructure:"temp_dir"`

	Client s3client.Config `mapstructure:",squash"`
}

// Store is a media.Store backed by S3.
type Store struct {
	api         API
	bucket      string
	publicURL   string
	concurrency int
	tempDir     string
	now         func() time.Time
}

var _ media.Store = (*Store)(nil)

// New returns a store using a client from pool.
func New(ctx context.Context, pool *s3client.Pool, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if cfg.TempDir != "" {
		if err := utils.CheckWritableDir(cfg.TempDir); err != nil {
			return nil, fmt.Errorf("s3 temp dir %s: %w", cfg.TempDir, err)
		}
	}
	client, err := pool.Client(ctx, &cfg.Client)
	if err != nil {
		return nil, err
	}
	return NewWithAPI(client, cfg), nil
}

// NewWithAPI returns a store over an existing client.
func NewWithAPI(api API, cfg Config) *Store {
	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		if cfg.Client.Endpoint != "" {
			public = strings.TrimRight(cfg.Client.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			public = "https://" + cfg.Bucket + ".s3.amazonaws.com"
		}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Store{
		api:         api,
		bucket:      cfg.Bucket,
		publicURL:   public,
		concurrency: cfg.Concurrency,
		tempDir:     cfg.TempDir,
		now:         time.Now,
	}
}

func objectKey(c media.Category, id string) string {
	return string(c) + "/" + id
}

func (s *Store) secureURL(c media.Category, id string) string {
	return s.publicURL + "/" + objectKey(c, id)
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	return errors.As(err, &nf) || errors.As(err, &nsk)
}

// remoteError passes context errors through and wraps everything else.
func remoteError(ctx context.Context, op string, err error, ids ...string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return media.NewError(media.ErrCodeRemote, op, "s3 request failed", err, ids...)
}

func (s *Store) head(ctx context.Context, op, id string, c media.Category) (*media.ResourceInfo, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(c, id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, media.NotFound(op, id, c)
		}
		return nil, remoteError(ctx, op, err, id)
	}
	return s.infoFromHead(id, c, out), nil
}

func (s *Store) infoFromHead(id string, c media.Category, out *s3.HeadObjectOutput) *media.ResourceInfo {
	md := out.Metadata
	info := &media.ResourceInfo{
		AssetDescriptor: media.AssetDescriptor{
			PublicID:  id,
			SecureURL: s.secureURL(c, id),
			Category:  c,
			Bytes:     aws.ToInt64(out.ContentLength),
			Format:    md[metaFormat],
			ETag:      md[metaETag],
		},
	}
	if tags := md[metaTags]; tags != "" {
		info.Tags = strings.Split(tags, ",")
	}
	if w, err := strconv.Atoi(md[metaWidth]); err == nil && w > 0 {
		info.Width = &w
	}
	if h, err := strconv.Atoi(md[metaHeight]); err == nil && h > 0 {
		info.Height = &h
	}
	if t, err := time.Parse(time.RFC3339, md[metaCreatedAt]); err == nil {
		info.CreatedAt = t
	} else if out.LastModified != nil {
		info.CreatedAt = *out.LastModified
	}
	if v, err := strconv.ParseInt(md[metaVersion], 10, 64); err == nil {
		info.Version = v
	}
	for k, v := range md {
		if name, ok := strings.CutPrefix(k, metaContext); ok {
			if info.Context == nil {
				info.Context = make(map[string]string)
			}
			info.Context[name] = v
		}
	}
	return info
}
