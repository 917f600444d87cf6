// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package media

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies media errors.
type ErrorCode int

const (
	ErrCodeNone ErrorCode = iota
	ErrCodeValidation
	// ErrCodeNotFound means the store reported the identifier absent under
	// the attempted category. It is the only code that triggers category
	// probing.
	ErrCodeNotFound
	ErrCodeUploadFailure
	ErrCodeDeleteFailure
	ErrCodeLookupFailure
	ErrCodeSearchFailure
	// ErrCodeRemote is any other failure reported by the store.
	ErrCodeRemote
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeValidation:
		return "validation"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeUploadFailure:
		return "upload_failure"
	case ErrCodeDeleteFailure:
		return "delete_failure"
	case ErrCodeLookupFailure:
		return "lookup_failure"
	case ErrCodeSearchFailure:
		return "search_failure"
	case ErrCodeRemote:
		return "remote"
	default:
		return "none"
	}
}

// Error is a typed media error naming the operation and identifiers.
type Error struct {
	Code    ErrorCode
	Op      string
	IDs     []string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if len(e.IDs) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(e.IDs, ","))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds an Error. ids may be empty.
func NewError(code ErrorCode, op, msg string, err error, ids ...string) *Error {
	return &Error{Code: code, Op: op, IDs: ids, Message: msg, Err: err}
}

// NotFound reports id absent under category c.
func NotFound(op, id string, c Category) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Op:      op,
		IDs:     []string{id},
		Message: fmt.Sprintf("resource not found under %s", c),
	}
}

// ValidationError reports bad caller input.
func ValidationError(op, msg string) *Error {
	return &Error{Code: ErrCodeValidation, Op: op, Message: msg}
}

// IsCode reports whether err wraps a media Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsNotFound reports whether err is a definitive not-found response.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound)
}
