// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package s3store

import (
	"context"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"
)

// maxDeleteKeys is the DeleteObjects limit.
const maxDeleteKeys = 1000

// Destroy checks existence first since DeleteObject succeeds for missing keys.
func (s *Store) Destroy(ctx context.Context, id string, c media.Category) error {
	if _, err := s.head(ctx, "destroy", id, c); err != nil {
		return err
	}
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(c, id)),
	})
	if err != nil {
		return remoteError(ctx, "destroy", err, id)
	}
	return nil
}

func (s *Store) DeleteResources(ctx context.Context, ids []string, c media.Category) (*media.DeleteResourcesResult, error) {
	found, err := s.headMany(ctx, "delete_resources", ids, c)
	if err != nil {
		return nil, err
	}

	res := &media.DeleteResourcesResult{Deleted: make(map[string]string, len(ids))}
	var existing []string
	for i, id := range ids {
		if found[i] == nil {
			res.Deleted[id] = media.StatusNotFound
			continue
		}
		existing = append(existing, id)
	}
	if err := s.deleteKeys(ctx, c, existing, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) DeleteByPrefix(ctx context.Context, prefix string, c media.Category) (*media.DeleteResourcesResult, error) {
	if prefix == "" {
		return nil, media.ValidationError("delete_by_prefix", "prefix is required")
	}
	res := &media.DeleteResourcesResult{Deleted: make(map[string]string)}

	var ids []string
	p := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(objectKey(c, prefix)),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, remoteError(ctx, "delete_by_prefix", err)
		}
		for _, obj := range page.Contents {
			ids = append(ids, strings.TrimPrefix(aws.ToString(obj.Key), string(c)+"/"))
		}
	}

	for start := 0; start < len(ids); start += maxDeleteKeys {
		end := min(start+maxDeleteKeys, len(ids))
		if err := s.deleteKeys(ctx, c, ids[start:end], res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// deleteKeys removes ids in one DeleteObjects call and records the outcome
// in res. Keys the bucket refused mark the result partial.
func (s *Store) deleteKeys(ctx context.Context, c media.Category, ids []string, res *media.DeleteResourcesResult) error {
	if len(ids) == 0 {
		return nil
	}
	objs := make([]types.ObjectIdentifier, len(ids))
	for i, id := range ids {
		objs[i] = types.ObjectIdentifier{Key: aws.String(objectKey(c, id))}
	}

	out, err := s.api.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objs, Quiet: aws.Bool(false)},
	})
	if err != nil {
		return remoteError(ctx, "delete_resources", err, ids...)
	}

	refused := make(map[string]bool, len(out.Errors))
	for _, e := range out.Errors {
		refused[aws.ToString(e.Key)] = true
	}
	for _, id := range ids {
		if refused[objectKey(c, id)] {
			res.Partial = true
			continue
		}
		res.Deleted[id] = media.StatusDeleted
		res.Count++
	}
	return nil
}

func (s *Store) Resource(ctx context.Context, id string, c media.Category, _ media.InfoFields) (*media.ResourceInfo, error) {
	return s.head(ctx, "resource", id, c)
}

func (s *Store) ResourcesByIDs(ctx context.Context, ids []string, c media.Category) ([]media.ResourceInfo, error) {
	found, err := s.headMany(ctx, "resources_by_ids", ids, c)
	if err != nil {
		return nil, err
	}
	out := make([]media.ResourceInfo, 0, len(ids))
	for _, info := range found {
		if info != nil {
			out = append(out, *info)
		}
	}
	return out, nil
}

// headMany fetches metadata for ids in parallel. Missing ids leave a nil
// slot; any other failure fails the whole call.
func (s *Store) headMany(ctx context.Context, op string, ids []string, c media.Category) ([]*media.ResourceInfo, error) {
	found := make([]*media.ResourceInfo, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			info, err := s.head(gctx, op, id, c)
			if err != nil {
				if media.IsNotFound(err) {
					return nil
				}
				return err
			}
			found[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return found, nil
}
