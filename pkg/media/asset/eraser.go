// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"sync"

	"github.com/LeeDigitalWorks/zapmedia/pkg/catalog"
	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"golang.org/x/sync/errgroup"
)

// Eraser deletes assets, probing other categories when a guess misses.
type Eraser struct {
	store       media.Store
	index       catalog.Index
	router      router
	concurrency int
}

// NewEraser creates an eraser.
func NewEraser(cfg Config) (*Eraser, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Eraser{
		store:       cfg.Store,
		index:       cfg.Index,
		router:      router{index: cfg.Index, batchSize: cfg.BatchSize},
		concurrency: cfg.GroupConcurrency,
	}, nil
}

// DeleteOne deletes id. Without a hint, a not-found answer moves on to the
// next category; a cancelled or failed call never does. When every
// candidate reports not-found the outcome is not_found and the error names
// the identifier.
func (e *Eraser) DeleteOne(ctx context.Context, id string, hint media.Category) (*media.DeleteOutcome, error) {
	ctx, op := begin(ctx, "delete")
	defer observe(op)

	if id == "" {
		return nil, media.ValidationError("delete", "identifier is required")
	}

	log := logger.Ctx(ctx)
	order, probe := e.router.candidates(ctx, id, hint)

	var lastErr error
	for i, c := range order {
		err := e.store.Destroy(ctx, id, c)
		if err == nil {
			categoryProbes.WithLabelValues("delete", "hit").Inc()
			deletesTotal.WithLabelValues("one", "ok").Inc()
			if err := e.index.Forget(ctx, id); err != nil {
				log.Warn().Err(err).Str("id", id).Msg("failed to forget asset category")
			}
			if i > 0 {
				log.Info().Str("id", id).Str("category", string(c)).Int("probes", i+1).Msg("asset deleted after category fallback")
			}
			return &media.DeleteOutcome{Result: media.DeleteResultOK}, nil
		}

		if !media.IsNotFound(err) || ctx.Err() != nil {
			deletesTotal.WithLabelValues("one", "error").Inc()
			log.Error().Err(err).Str("id", id).Str("category", string(c)).Msg("delete failed")
			return nil, media.NewError(media.ErrCodeDeleteFailure, "delete", "remote delete failed", err, id)
		}

		categoryProbes.WithLabelValues("delete", "miss").Inc()
		lastErr = err
		if !probe {
			break
		}
		log.Debug().Str("id", id).Str("category", string(c)).Msg("category probe missed")
	}

	deletesTotal.WithLabelValues("one", "not_found").Inc()
	return &media.DeleteOutcome{Result: media.DeleteResultNotFound},
		media.NewError(media.ErrCodeNotFound, "delete", "resource not found under any tried category", lastErr, id)
}

// DeleteMany deletes ids with one batch call per category group. A failed
// group is recorded in Failed and marks the outcome partial; the other
// groups still complete. Only a cancelled context or invalid input returns
// an error.
func (e *Eraser) DeleteMany(ctx context.Context, ids []string, hint media.Category) (*media.BatchDeleteOutcome, error) {
	ctx, op := begin(ctx, "delete_many")
	defer observe(op)

	out := media.NewBatchDeleteOutcome()
	groups := e.router.partition(ctx, ids, hint)
	if len(groups) == 0 {
		return out, nil
	}

	log := logger.Ctx(ctx)
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for _, grp := range groups {
		g.Go(func() error {
			res, err := e.store.DeleteResources(ctx, grp.ids, grp.category)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				groupFailures.WithLabelValues("delete_many", string(grp.category)).Inc()
				log.Warn().Err(err).
					Str("category", string(grp.category)).
					Int("ids", len(grp.ids)).
					Msg("batch delete group failed")
				out.Fail(grp.category, grp.ids, err)
				return nil
			}
			out.Merge(grp.category, res)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		deletesTotal.WithLabelValues("many", "error").Inc()
		return nil, media.NewError(media.ErrCodeDeleteFailure, "delete_many", "cancelled", err)
	}

	if deleted := deletedIDs(out); len(deleted) > 0 {
		if err := e.index.Forget(ctx, deleted...); err != nil {
			log.Warn().Err(err).Int("ids", len(deleted)).Msg("failed to forget asset categories")
		}
	}

	deletesTotal.WithLabelValues("many", partialStatus(out.Partial)).Inc()
	log.Info().
		Int("groups", len(groups)).
		Int("deleted", out.Total()).
		Bool("partial", out.Partial).
		Msg("batch delete finished")
	return out, nil
}

// DeleteByPrefix deletes every asset of one category under prefix. The
// category defaults to image; prefix deletes never probe.
func (e *Eraser) DeleteByPrefix(ctx context.Context, prefix string, c media.Category) (*media.BatchDeleteOutcome, error) {
	ctx, op := begin(ctx, "delete_prefix")
	defer observe(op)

	if prefix == "" {
		return nil, media.ValidationError("delete_prefix", "prefix is required")
	}
	if c == "" {
		c = media.CategoryImage
	}
	if !c.Resolved() {
		return nil, media.ValidationError("delete_prefix", "category must be image, video or raw")
	}

	res, err := e.store.DeleteByPrefix(ctx, prefix, c)
	if err != nil {
		deletesTotal.WithLabelValues("prefix", "error").Inc()
		logger.Ctx(ctx).Error().Err(err).Str("prefix", prefix).Str("category", string(c)).Msg("prefix delete failed")
		return nil, media.NewError(media.ErrCodeDeleteFailure, "delete_prefix", "remote delete failed", err, prefix)
	}

	out := media.NewBatchDeleteOutcome()
	out.Merge(c, res)

	if ids := deletedIDs(out); len(ids) > 0 {
		if err := e.index.Forget(ctx, ids...); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("failed to forget asset categories")
		}
	}
	deletesTotal.WithLabelValues("prefix", partialStatus(out.Partial)).Inc()
	return out, nil
}

func deletedIDs(o *media.BatchDeleteOutcome) []string {
	var ids []string
	for id, s := range o.Deleted {
		if s == media.StatusDeleted {
			ids = append(ids, id)
		}
	}
	return ids
}

func partialStatus(partial bool) string {
	if partial {
		return "partial"
	}
	return "ok"
}
