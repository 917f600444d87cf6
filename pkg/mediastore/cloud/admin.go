// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/tidwall/gjson"
)

// Destroy uses the signed upload API, which answers "not found" in the body
// rather than with a status code.
func (c *Client) Destroy(ctx context.Context, id string, cat media.Category) error {
	params := c.signedParams(url.Values{
		"public_id":  {id},
		"invalidate": {"true"},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+string(cat)+"/destroy", strings.NewReader(params.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, status, err := c.do(c.admin, req)
	if err != nil {
		return err
	}
	if !ok(status) {
		return statusError("destroy", id, cat, status, body)
	}

	switch result := gjson.GetBytes(body, "result").String(); result {
	case "ok":
		return nil
	case "not found":
		return media.NotFound("destroy", id, cat)
	default:
		return media.NewError(media.ErrCodeRemote, "destroy", fmt.Sprintf("unexpected result %q", result), nil, id)
	}
}

func (c *Client) DeleteResources(ctx context.Context, ids []string, cat media.Category) (*media.DeleteResourcesResult, error) {
	if len(ids) > media.DefaultMaxBatchSize {
		return nil, media.ValidationError("delete_resources", fmt.Sprintf("at most %d identifiers per call", media.DefaultMaxBatchSize))
	}
	return c.deleteResources(ctx, cat, url.Values{"public_ids[]": ids})
}

func (c *Client) DeleteByPrefix(ctx context.Context, prefix string, cat media.Category) (*media.DeleteResourcesResult, error) {
	if prefix == "" {
		return nil, media.ValidationError("delete_by_prefix", "prefix is required")
	}
	return c.deleteResources(ctx, cat, url.Values{"prefix": {prefix}})
}

func (c *Client) deleteResources(ctx context.Context, cat media.Category, query url.Values) (*media.DeleteResourcesResult, error) {
	body, status, err := c.adminRequest(ctx, http.MethodDelete, "/resources/"+string(cat)+"/upload", query, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, statusError("delete_resources", "", cat, status, body)
	}

	var resp deleteJSON
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode delete response: %w", err)
	}
	return resp.result(), nil
}

func (c *Client) Resource(ctx context.Context, id string, cat media.Category, fields media.InfoFields) (*media.ResourceInfo, error) {
	query := url.Values{}
	if fields.Colors {
		query.Set("colors", "true")
	}
	if fields.Faces {
		query.Set("faces", "true")
	}
	if fields.QualityAnalysis {
		query.Set("quality_analysis", "true")
	}
	if fields.AccessibilityAnalysis {
		query.Set("accessibility_analysis", "true")
	}

	body, status, err := c.adminRequest(ctx, http.MethodGet, "/resources/"+string(cat)+"/upload/"+media.EscapeID(id), query, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, statusError("resource", id, cat, status, body)
	}

	var resp resourceJSON
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode resource response: %w", err)
	}
	info := resp.info()
	return &info, nil
}

func (c *Client) ResourcesByIDs(ctx context.Context, ids []string, cat media.Category) ([]media.ResourceInfo, error) {
	if len(ids) > media.DefaultMaxBatchSize {
		return nil, media.ValidationError("resources_by_ids", fmt.Sprintf("at most %d identifiers per call", media.DefaultMaxBatchSize))
	}
	query := url.Values{
		"public_ids[]": ids,
		"max_results":  {strconv.Itoa(len(ids))},
	}

	body, status, err := c.adminRequest(ctx, http.MethodGet, "/resources/"+string(cat)+"/upload", query, nil)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, statusError("resources_by_ids", "", cat, status, body)
	}

	var resp resourcesJSON
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode resources response: %w", err)
	}
	return resp.infos(), nil
}

func (c *Client) Search(ctx context.Context, req *media.SearchRequest) (*media.SearchResult, error) {
	sb := searchBody{
		Expression: req.Expression,
		MaxResults: req.MaxResults,
		NextCursor: req.NextCursor,
		WithField:  req.WithFields,
	}
	if req.SortBy != "" {
		dir := req.Direction
		if dir == "" {
			dir = media.SortDesc
		}
		sb.SortBy = []map[string]string{{req.SortBy: string(dir)}}
	}
	payload, err := json.Marshal(sb)
	if err != nil {
		return nil, err
	}

	body, status, err := c.adminRequest(ctx, http.MethodPost, "/resources/search", nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, statusError("search", "", "", status, body)
	}

	var resp resourcesJSON
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &media.SearchResult{
		Resources:  resp.infos(),
		TotalCount: resp.TotalCount,
		NextCursor: resp.NextCursor,
	}, nil
}
