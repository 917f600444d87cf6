// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"context"

	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

const (
	DefaultSearchResults = 50
	MaxSearchResults     = 500
)

// searchFields are always requested alongside search results.
var searchFields = []string{"tags", "context", "metadata"}

// Searcher runs store-native search expressions. There is no category
// ambiguity here, so nothing is retried.
type Searcher struct {
	store media.Store
}

// NewSearcher creates a searcher.
func NewSearcher(cfg Config) (*Searcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Searcher{store: cfg.Store}, nil
}

// Search returns one page of results for expr.
func (s *Searcher) Search(ctx context.Context, expr string, opts media.SearchOptions) (*media.SearchResult, error) {
	ctx, op := begin(ctx, "search")
	defer observe(op)

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultSearchResults
	}
	maxResults = min(maxResults, MaxSearchResults)

	dir := opts.Direction
	if dir != "" && dir != media.SortAsc && dir != media.SortDesc {
		return nil, media.ValidationError("search", "sort direction must be asc or desc")
	}

	res, err := s.store.Search(ctx, &media.SearchRequest{
		Expression: expr,
		SortBy:     opts.SortBy,
		Direction:  dir,
		MaxResults: maxResults,
		NextCursor: opts.NextCursor,
		WithFields: append([]string(nil), searchFields...),
	})
	searchesTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("expression", expr).Msg("search failed")
		return nil, media.NewError(media.ErrCodeSearchFailure, "search", "remote search failed", err)
	}
	if res == nil {
		logger.Ctx(ctx).Error().Str("expression", expr).Msg("search returned no result")
		return nil, media.NewError(media.ErrCodeSearchFailure, "search", "store returned no result", nil)
	}
	if res.Resources == nil {
		res.Resources = []media.ResourceInfo{}
	}
	return res, nil
}
