// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// resourceJSON is the admin API representation of one asset.
type resourceJSON struct {
	media.UploadResult

	Context struct {
		Custom map[string]string `json:"custom"`
	} `json:"context"`
	Metadata              map[string]any `json:"metadata"`
	Colors                [][]any        `json:"colors"`
	Faces                 [][]int        `json:"faces"`
	QualityAnalysis       map[string]any `json:"quality_analysis"`
	AccessibilityAnalysis map[string]any `json:"accessibility_analysis"`
}

func (r *resourceJSON) info() media.ResourceInfo {
	info := media.ResourceInfo{
		AssetDescriptor:       r.Descriptor(),
		Context:               r.Context.Custom,
		Metadata:              r.Metadata,
		QualityAnalysis:       r.QualityAnalysis,
		AccessibilityAnalysis: r.AccessibilityAnalysis,
	}
	for _, pair := range r.Colors {
		if len(pair) != 2 {
			continue
		}
		hex, _ := pair[0].(string)
		pct, _ := pair[1].(float64)
		info.Colors = append(info.Colors, media.ColorShare{Hex: hex, Percent: pct})
	}
	for _, f := range r.Faces {
		if len(f) != 4 {
			continue
		}
		info.Faces = append(info.Faces, media.FaceRegion{X: f[0], Y: f[1], Width: f[2], Height: f[3]})
	}
	return info
}

type resourcesJSON struct {
	Resources  []resourceJSON `json:"resources"`
	TotalCount int            `json:"total_count"`
	NextCursor string         `json:"next_cursor"`
}

func (r *resourcesJSON) infos() []media.ResourceInfo {
	out := make([]media.ResourceInfo, 0, len(r.Resources))
	for i := range r.Resources {
		out = append(out, r.Resources[i].info())
	}
	return out
}

type deleteJSON struct {
	Deleted map[string]string `json:"deleted"`
	Partial bool              `json:"partial"`
}

func (d *deleteJSON) result() *media.DeleteResourcesResult {
	res := &media.DeleteResourcesResult{
		Deleted: make(map[string]string, len(d.Deleted)),
		Partial: d.Partial,
	}
	for id, status := range d.Deleted {
		res.Deleted[id] = status
		if status == media.StatusDeleted {
			res.Count++
		}
	}
	return res
}

type searchBody struct {
	Expression string              `json:"expression,omitempty"`
	SortBy     []map[string]string `json:"sort_by,omitempty"`
	MaxResults int                 `json:"max_results,omitempty"`
	NextCursor string              `json:"next_cursor,omitempty"`
	WithField  []string            `json:"with_field,omitempty"`
}
