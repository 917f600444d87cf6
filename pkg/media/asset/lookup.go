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

// Lookup resolves asset metadata with the same guess-then-probe routing as
// Eraser. Single lookups always request the extended analysis fields.
type Lookup struct {
	store       media.Store
	index       catalog.Index
	router      router
	concurrency int
}

// NewLookup creates a lookup.
func NewLookup(cfg Config) (*Lookup, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Lookup{
		store:       cfg.Store,
		index:       cfg.Index,
		router:      router{index: cfg.Index, batchSize: cfg.BatchSize},
		concurrency: cfg.GroupConcurrency,
	}, nil
}

// GetOne fetches metadata for id. A successful fallback probe corrects the
// category index so the next call lands first time.
func (l *Lookup) GetOne(ctx context.Context, id string, hint media.Category) (*media.ResourceInfo, error) {
	ctx, op := begin(ctx, "lookup")
	defer observe(op)

	if id == "" {
		return nil, media.ValidationError("lookup", "identifier is required")
	}

	log := logger.Ctx(ctx)
	order, probe := l.router.candidates(ctx, id, hint)

	var lastErr error
	for i, c := range order {
		info, err := l.store.Resource(ctx, id, c, media.ExtendedInfo)
		if err == nil {
			categoryProbes.WithLabelValues("lookup", "hit").Inc()
			lookupsTotal.WithLabelValues("one", "ok").Inc()
			if i > 0 {
				if err := l.index.Record(ctx, id, c); err != nil {
					log.Warn().Err(err).Str("id", id).Msg("failed to correct asset category")
				}
				log.Info().Str("id", id).Str("category", string(c)).Int("probes", i+1).Msg("asset found after category fallback")
			}
			if !info.Category.Resolved() {
				info.Category = c
			}
			return info, nil
		}

		if !media.IsNotFound(err) || ctx.Err() != nil {
			lookupsTotal.WithLabelValues("one", "error").Inc()
			log.Error().Err(err).Str("id", id).Str("category", string(c)).Msg("lookup failed")
			return nil, media.NewError(media.ErrCodeLookupFailure, "lookup", "remote lookup failed", err, id)
		}

		categoryProbes.WithLabelValues("lookup", "miss").Inc()
		lastErr = err
		if !probe {
			break
		}
		log.Debug().Str("id", id).Str("category", string(c)).Msg("category probe missed")
	}

	lookupsTotal.WithLabelValues("one", "not_found").Inc()
	return nil, media.NewError(media.ErrCodeNotFound, "lookup", "resource not found under any tried category", lastErr, id)
}

// GetMany fetches metadata for ids with one call per category group.
// Identifiers the store does not know under their guessed category are
// omitted. Failed groups are reported in Failed.
func (l *Lookup) GetMany(ctx context.Context, ids []string, hint media.Category) (*media.LookupResult, error) {
	ctx, op := begin(ctx, "lookup_many")
	defer observe(op)

	out := &media.LookupResult{Resources: []media.ResourceInfo{}}
	groups := l.router.partition(ctx, ids, hint)
	if len(groups) == 0 {
		return out, nil
	}

	log := logger.Ctx(ctx)
	results := make([][]media.ResourceInfo, len(groups))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, grp := range groups {
		g.Go(func() error {
			infos, err := l.store.ResourcesByIDs(ctx, grp.ids, grp.category)
			if err != nil {
				groupFailures.WithLabelValues("lookup_many", string(grp.category)).Inc()
				log.Warn().Err(err).
					Str("category", string(grp.category)).
					Int("ids", len(grp.ids)).
					Msg("batch lookup group failed")

				mu.Lock()
				out.Fail(grp.category, grp.ids, err)
				mu.Unlock()
				return nil
			}
			for j := range infos {
				if !infos[j].Category.Resolved() {
					infos[j].Category = grp.category
				}
			}
			results[i] = infos
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		lookupsTotal.WithLabelValues("many", "error").Inc()
		return nil, media.NewError(media.ErrCodeLookupFailure, "lookup_many", "cancelled", err)
	}

	// Group order keeps the result deterministic.
	for _, infos := range results {
		out.Resources = append(out.Resources, infos...)
	}
	lookupsTotal.WithLabelValues("many", partialStatus(out.Partial)).Inc()
	return out, nil
}
