// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"
)

// Upload streams req.Body to the upload endpoint as multipart form data
// without buffering it.
func (c *Client) Upload(ctx context.Context, req *media.UploadRequest) (*media.UploadResult, error) {
	cat := req.Category
	if cat == "" {
		cat = media.CategoryAuto
	}

	params := c.signedParams(uploadParams(req))

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, params, req))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+string(cat)+"/upload", pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	body, status, err := c.do(c.upload, httpReq)
	// Unblocks the writer goroutine if the transport stopped reading early.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	if !ok(status) {
		return nil, statusError("upload", req.PublicID, cat, status, body)
	}

	var res media.UploadResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &res, nil
}

func uploadParams(req *media.UploadRequest) url.Values {
	params := url.Values{}
	for k, v := range req.Extra {
		params.Set(k, v)
	}
	if req.Folder != "" {
		params.Set("folder", req.Folder)
	}
	if req.PublicID != "" {
		params.Set("public_id", req.PublicID)
	}
	if len(req.Tags) > 0 {
		params.Set("tags", strings.Join(req.Tags, ","))
	}
	transformation, format := media.EncodeTransformation(req.Transformations)
	if transformation != "" {
		params.Set("transformation", transformation)
	}
	if format != "" {
		params.Set("format", format)
	}
	return params
}

func writeMultipart(mw *multipart.Writer, params url.Values, req *media.UploadRequest) error {
	for k, vs := range params {
		for _, v := range vs {
			if err := mw.WriteField(k, v); err != nil {
				return err
			}
		}
	}

	filename := req.Filename
	if filename == "" {
		filename = "file"
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Body); err != nil {
		return fmt.Errorf("stream upload body: %w", err)
	}
	return mw.Close()
}
