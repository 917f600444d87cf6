// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package asset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of the payload is buffered to detect its type.
const sniffLen = 3072

// Policy is the upload allowlist. The zero value allows everything.
type Policy struct {
	// MaxBytes rejects payloads larger than this. Zero means unlimited.
	MaxBytes int64
	// AllowedTypes lists MIME types or type/* wildcards. Empty allows all.
	AllowedTypes []string
}

// guardedBody is a payload that passed the MIME check and is still
// subject to the size limit while streaming.
type guardedBody struct {
	r         io.Reader
	remaining int64
	limited   bool
	exceeded  bool
	mime      string
}

// guard sniffs body and wraps it with the size limit. Only the sniffing
// window is buffered.
func (p Policy) guard(body io.Reader) (*guardedBody, error) {
	g := &guardedBody{r: body, remaining: p.MaxBytes, limited: p.MaxBytes > 0}
	if len(p.AllowedTypes) == 0 {
		return g, nil
	}

	br := bufio.NewReaderSize(body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read payload head: %w", err)
	}
	mt := mimetype.Detect(head)
	g.r = br
	g.mime = mt.String()

	if !p.allows(mt) {
		return nil, media.ValidationError("upload", fmt.Sprintf("content type %s is not allowed", mt.String()))
	}
	return g, nil
}

func (p Policy) allows(mt *mimetype.MIME) bool {
	for _, allowed := range p.AllowedTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		for m := mt; m != nil; m = m.Parent() {
			if prefix, ok := strings.CutSuffix(allowed, "/*"); ok {
				if strings.HasPrefix(m.String(), prefix+"/") {
					return true
				}
				continue
			}
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

func (g *guardedBody) Read(p []byte) (int, error) {
	if !g.limited {
		return g.r.Read(p)
	}
	if g.remaining <= 0 {
		// Anything beyond the limit fails the upload.
		var probe [1]byte
		n, err := io.ReadFull(g.r, probe[:])
		if n > 0 {
			g.exceeded = true
			return 0, errPayloadTooLarge
		}
		if errors.Is(err, io.ErrUnexpectedEOF) || err == nil {
			err = io.EOF
		}
		return 0, err
	}
	if int64(len(p)) > g.remaining {
		p = p[:g.remaining]
	}
	n, err := g.r.Read(p)
	g.remaining -= int64(n)
	return n, err
}

var errPayloadTooLarge = errors.New("payload too large")

func (p Policy) tooLarge() error {
	return media.ValidationError("upload", "payload exceeds "+humanize.IBytes(uint64(p.MaxBytes)))
}
