// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package context carries the identity of the media operation a request
// belongs to, so log lines from fallback probes and batch group sub-calls
// of one operation correlate.
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type operationKey struct{}

// Operation identifies one top-level media operation.
type Operation struct {
	RequestID string
	Name      string
	Started   time.Time
}

// Elapsed returns the time since the operation started.
func (o *Operation) Elapsed() time.Duration {
	return time.Since(o.Started)
}

// WithOperation starts an operation named name. A nested operation keeps
// the request id of the enclosing one.
func WithOperation(c context.Context, name string) (context.Context, *Operation) {
	op := &Operation{Name: name, Started: time.Now()}
	if parent, ok := FromContext(c); ok {
		op.RequestID = parent.RequestID
	} else {
		op.RequestID = uuid.New().String()
	}
	return context.WithValue(c, operationKey{}, op), op
}

// FromContext returns the operation carried by c.
func FromContext(c context.Context) (*Operation, bool) {
	op, ok := c.Value(operationKey{}).(*Operation)
	return op, ok && op != nil
}

// RequestID returns the request id carried by c, or "".
func RequestID(c context.Context) string {
	if op, ok := FromContext(c); ok {
		return op.RequestID
	}
	return ""
}
