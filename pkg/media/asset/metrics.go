// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	zctx "github.com/LeeDigitalWorks/zapmedia/pkg/context"
	"github.com/LeeDigitalWorks/zapmedia/pkg/debug"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_uploads_total",
		Help: "Uploads by resolved category and status",
	}, []string{"category", "status"})

	uploadBytes = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_upload_bytes_total",
		Help: "Bytes stored by successful uploads",
	}, []string{"category"})

	deletesTotal = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_deletes_total",
		Help: "Delete operations by mode and status",
	}, []string{"mode", "status"})

	lookupsTotal = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_lookups_total",
		Help: "Info lookups by mode and status",
	}, []string{"mode", "status"})

	categoryProbes = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_category_probes_total",
		Help: "Category probes by operation and outcome (hit or miss)",
	}, []string{"op", "outcome"})

	groupFailures = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_batch_group_failures_total",
		Help: "Category groups whose batch call failed",
	}, []string{"op", "category"})

	searchesTotal = promauto.With(debug.Registry()).NewCounterVec(prometheus.CounterOpts{
		Name: "zapmedia_searches_total",
		Help: "Searches by status",
	}, []string{"status"})

	operationDuration = promauto.With(debug.Registry()).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zapmedia_operation_duration_seconds",
		Help:    "Duration of asset operations including probes and group calls",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
	}, []string{"op"})
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// observe records the duration of op when it ends.
func observe(op *zctx.Operation) {
	operationDuration.WithLabelValues(op.Name).Observe(op.Elapsed().Seconds())
}
