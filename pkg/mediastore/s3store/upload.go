// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3store

import (
	"context"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	sha256 "github.com/minio/sha256-simd"
)

// Upload spools the body to a temporary file while hashing it, because
// PutObject needs a seekable body of known length.
func (s *Store) Upload(ctx context.Context, req *media.UploadRequest) (*media.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(s.tempDir, "zapmedia-upload-*")
	if err != nil {
		return nil, fmt.Errorf("create spool file: %w", err)
	}
	defer func() {
		f.Close()
		if err := os.Remove(f.Name()); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("file", f.Name()).Msg("failed to remove spool file")
		}
	}()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), req.Body)
	if err != nil {
		return nil, fmt.Errorf("spool upload body: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}

	c := req.Category
	if !c.Resolved() {
		c = categoryFor(req.Filename, mt)
	}

	var width, height int
	if c == media.CategoryImage {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			width, height = cfg.Width, cfg.Height
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	name := req.PublicID
	if name == "" {
		name = strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
	}
	id := name
	if req.Folder != "" {
		id = strings.Trim(req.Folder, "/") + "/" + name
	}

	_, format := media.EncodeTransformation(req.Transformations)
	if format == "" {
		format = strings.TrimPrefix(path.Ext(req.Filename), ".")
	}
	if format == "" {
		format = strings.TrimPrefix(mt.Extension(), ".")
	}

	created := s.now().UTC()
	etag := hex.EncodeToString(h.Sum(nil))
	md := map[string]string{
		metaPublicID:  id,
		metaFormat:    format,
		metaCreatedAt: created.Format(time.RFC3339),
		metaVersion:   strconv.FormatInt(created.Unix(), 10),
		metaETag:      etag,
	}
	if len(req.Tags) > 0 {
		md[metaTags] = strings.Join(req.Tags, ",")
	}
	if width > 0 {
		md[metaWidth] = strconv.Itoa(width)
		md[metaHeight] = strconv.Itoa(height)
	}
	for k, v := range req.Extra {
		md[metaContext+strings.ToLower(k)] = v
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectKey(c, id)),
		Body:          f,
		ContentLength: aws.Int64(n),
		ContentType:   aws.String(mt.String()),
		Metadata:      md,
	})
	if err != nil {
		return nil, remoteError(ctx, "upload", err, id)
	}

	return &media.UploadResult{
		PublicID:     id,
		SecureURL:    s.secureURL(c, id),
		ResourceType: string(c),
		Bytes:        n,
		Width:        width,
		Height:       height,
		Format:       format,
		CreatedAt:    created.Format(time.RFC3339),
		Version:      created.Unix(),
		ETag:         etag,
		Tags:         req.Tags,
	}, nil
}

// categoryFor resolves an auto upload from the filename, then from the
// sniffed content type.
func categoryFor(filename string, mt *mimetype.MIME) media.Category {
	if c := media.ResolveForUpload("", path.Ext(filename)); c.Resolved() {
		return c
	}
	switch {
	case strings.HasPrefix(mt.String(), "image/"):
		return media.CategoryImage
	case strings.HasPrefix(mt.String(), "video/"):
		return media.CategoryVideo
	default:
		return media.CategoryRaw
	}
}
