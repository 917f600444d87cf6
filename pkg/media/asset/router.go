// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"
	"slices"

	"github.com/LeeDigitalWorks/zapmedia/pkg/catalog"
	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// router decides which categories an identifier is tried under.
//
// With a hint the hint is authoritative and nothing else is tried. Without
// one the first guess comes from the category index, then the identifier
// heuristic, and the remaining categories follow in fixed order. Only a
// definitive not-found moves on to the next candidate.
type router struct {
	index     catalog.Index
	batchSize int
}

// group is one batch call worth of identifiers sharing a category.
type group struct {
	category media.Category
	ids      []string
}

// candidates returns the probe order for id and whether probing past the
// first entry is allowed.
func (r *router) candidates(ctx context.Context, id string, hint media.Category) ([]media.Category, bool) {
	if hint.Resolved() {
		return []media.Category{hint}, false
	}

	first := media.ResolveForIdentifier(id)
	if c, ok, err := r.index.Lookup(ctx, id); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("id", id).Msg("category index lookup failed")
	} else if ok {
		first = c
	}

	order := []media.Category{first}
	for _, c := range media.ResolvedCategories() {
		if c != first {
			order = append(order, c)
		}
	}
	return order, true
}

// partition splits ids into per-category groups of at most batchSize ids,
// ordered image, video, raw. Duplicate ids are dropped.
func (r *router) partition(ctx context.Context, ids []string, hint media.Category) []group {
	ids = dedupe(ids)

	guess := make(map[string]media.Category, len(ids))
	if hint.Resolved() {
		for _, id := range ids {
			guess[id] = hint
		}
	} else {
		known, err := r.index.LookupMany(ctx, ids)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Int("ids", len(ids)).Msg("category index lookup failed")
		}
		for _, id := range ids {
			if c, ok := known[id]; ok {
				guess[id] = c
				continue
			}
			guess[id] = media.ResolveForIdentifier(id)
		}
	}

	var groups []group
	for _, c := range media.ResolvedCategories() {
		var members []string
		for _, id := range ids {
			if guess[id] == c {
				members = append(members, id)
			}
		}
		for chunk := range slices.Chunk(members, r.batchSize) {
			groups = append(groups, group{category: c, ids: chunk})
		}
	}
	return groups
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
