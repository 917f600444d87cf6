// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"errors"
	"io"
	"path"
	"slices"

	"github.com/LeeDigitalWorks/zapmedia/pkg/catalog"
	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// Uploader streams payloads to the store with a composed optimization
// pipeline and returns canonical descriptors.
type Uploader struct {
	store         media.Store
	index         catalog.Index
	root          string
	imageMaxWidth int
	policy        Policy
}

// NewUploader creates an uploader.
func NewUploader(cfg Config) (*Uploader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Uploader{
		store:         cfg.Store,
		index:         cfg.Index,
		root:          cfg.RootFolder,
		imageMaxWidth: cfg.ImageMaxWidth,
		policy:        cfg.Policy,
	}, nil
}

// Upload performs one streamed upload. The category is resolved from the
// hint, then the declared format (or the filename extension), and is left
// to the store as auto otherwise. Raw assets carry no transformations;
// everything else gets the default pipeline composed with the caller's
// overrides.
func (u *Uploader) Upload(ctx context.Context, body io.Reader, opts media.UploadOptions) (*media.AssetDescriptor, error) {
	ctx, op := begin(ctx, "upload")
	defer observe(op)

	if body == nil {
		return nil, media.ValidationError("upload", "payload is required")
	}

	format := opts.Format
	if format == "" {
		format = path.Ext(opts.Filename)
	}
	category := media.ResolveForUpload(opts.Category, format)

	guarded, err := u.policy.guard(body)
	if err != nil {
		uploadsTotal.WithLabelValues(string(category), "rejected").Inc()
		return nil, err
	}

	var seq []media.Directive
	if category != media.CategoryRaw {
		seq = media.Compose(media.DefaultPipeline(), opts.Transformations)
	}
	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}

	req := &media.UploadRequest{
		Body:            guarded,
		Category:        category,
		Folder:          qualify(u.root, opts.Folder),
		PublicID:        opts.PublicID,
		Filename:        opts.Filename,
		Tags:            slices.Clone(tags),
		Transformations: seq,
		Extra:           opts.Extra,
	}

	log := logger.Ctx(ctx)
	log.Debug().
		Str("category", string(category)).
		Str("folder", req.Folder).
		Str("content_type", guarded.mime).
		Int("directives", len(seq)).
		Msg("uploading asset")

	res, err := u.store.Upload(ctx, req)
	if err != nil {
		uploadsTotal.WithLabelValues(string(category), "error").Inc()
		if guarded.exceeded || errors.Is(err, errPayloadTooLarge) {
			return nil, u.policy.tooLarge()
		}
		log.Error().Err(err).Str("folder", req.Folder).Msg("upload failed")
		return nil, media.NewError(media.ErrCodeUploadFailure, "upload", "remote upload failed", err)
	}
	if res == nil || res.PublicID == "" {
		uploadsTotal.WithLabelValues(string(category), "error").Inc()
		return nil, media.NewError(media.ErrCodeUploadFailure, "upload", "store returned no usable result", nil)
	}

	d := res.Descriptor()
	if !d.Category.Resolved() {
		if category.Resolved() {
			d.Category = category
		} else {
			d.Category = media.ResolveForIdentifier(d.PublicID)
		}
	}

	if err := u.index.Record(ctx, d.PublicID, d.Category); err != nil {
		log.Warn().Err(err).Str("id", d.PublicID).Msg("failed to record asset category")
	}

	uploadsTotal.WithLabelValues(string(d.Category), "ok").Inc()
	uploadBytes.WithLabelValues(string(d.Category)).Add(float64(d.Bytes))
	log.Info().
		Str("id", d.PublicID).
		Str("category", string(d.Category)).
		Int64("bytes", d.Bytes).
		Dur("elapsed", op.Elapsed()).
		Msg("asset uploaded")

	return &d, nil
}

// UploadImage uploads under the image category with a max-width resize the
// caller can override through opts.Transformations.
func (u *Uploader) UploadImage(ctx context.Context, body io.Reader, opts media.UploadOptions) (*media.AssetDescriptor, error) {
	preset := media.Directives(map[string]any{
		"width": u.imageMaxWidth,
		"crop":  "limit",
	})
	opts.Category = media.CategoryImage
	opts.Transformations = media.Compose(preset, opts.Transformations)
	return u.Upload(ctx, body, opts)
}

// UploadDocument uploads under the raw category. Any transformations in
// opts are dropped.
func (u *Uploader) UploadDocument(ctx context.Context, body io.Reader, opts media.UploadOptions) (*media.AssetDescriptor, error) {
	opts.Category = media.CategoryRaw
	opts.Transformations = nil
	return u.Upload(ctx, body, opts)
}
