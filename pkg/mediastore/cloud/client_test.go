// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cloud

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		APIBase:    srv.URL,
		AdminRPS:   1000,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	_, err := New(Config{APIKey: "k", APISecret: "s"})
	assert.Error(t, err)

	_, err = New(Config{CloudName: "demo"})
	assert.Error(t, err)
}

func TestSign(t *testing.T) {
	t.Parallel()
	c, err := New(Config{CloudName: "demo", APIKey: "k", APISecret: "abcd"})
	require.NoError(t, err)

	// sha1("public_id=sample&timestamp=1315060510abcd")
	got := c.sign(url.Values{
		"public_id": {"sample"},
		"timestamp": {"1315060510"},
		"empty":     {""},
	})
	assert.Equal(t, "c3470533147774275dd37996cc4d0e68fd03cd4f", got)
}

func TestUpload_StreamsSignedMultipart(t *testing.T) {
	t.Parallel()
	var c *Client
	c = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		data, _ := io.ReadAll(f)
		assert.Equal(t, "pixels", string(data))
		assert.Equal(t, "photo.png", hdr.Filename)

		form := url.Values{}
		for k, v := range r.MultipartForm.Value {
			if k != "signature" && k != "api_key" {
				form[k] = v
			}
		}
		assert.Equal(t, c.sign(form), r.FormValue("signature"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "minhloc/images", r.FormValue("folder"))
		assert.Equal(t, "q_auto:good/c_limit,w_640", r.FormValue("transformation"))
		assert.Equal(t, "a,b", r.FormValue("tags"))

		_, _ = w.Write([]byte(`{"public_id":"minhloc/images/x1","secure_url":"https://cdn/x1.png","resource_type":"image",
			"bytes":6,"width":640,"height":480,"format":"png","created_at":"2025-01-02T03:04:05Z","version":7,"etag":"abc","tags":["a","b"]}`))
	}))

	res, err := c.Upload(context.Background(), &media.UploadRequest{
		Body:     strings.NewReader("pixels"),
		Category: media.CategoryImage,
		Folder:   "minhloc/images",
		Filename: "photo.png",
		Tags:     []string{"a", "b"},
		Transformations: media.Directives(
			map[string]any{"quality": "auto:good"},
			map[string]any{"width": 640, "crop": "limit"},
		),
	})
	require.NoError(t, err)

	d := res.Descriptor()
	assert.Equal(t, "minhloc/images/x1", d.PublicID)
	assert.Equal(t, media.CategoryImage, d.Category)
	require.NotNil(t, d.Width)
	assert.Equal(t, 640, *d.Width)
	assert.Equal(t, 2025, d.CreatedAt.Year())
}

func TestUpload_RemoteError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid image file"}}`))
	}))

	_, err := c.Upload(context.Background(), &media.UploadRequest{Body: strings.NewReader("x"), Category: media.CategoryImage})
	require.Error(t, err)
	assert.True(t, media.IsCode(err, media.ErrCodeRemote))
	assert.Contains(t, err.Error(), "Invalid image file")
}

func TestDestroy(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		switch {
		case r.URL.Path == "/v1_1/demo/image/destroy" && r.FormValue("public_id") == "a":
			_, _ = w.Write([]byte(`{"result":"ok"}`))
		default:
			_, _ = w.Write([]byte(`{"result":"not found"}`))
		}
	}))

	require.NoError(t, c.Destroy(context.Background(), "a", media.CategoryImage))

	err := c.Destroy(context.Background(), "a", media.CategoryVideo)
	assert.True(t, media.IsNotFound(err))
}

func TestResource(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		switch r.URL.Path {
		case "/v1_1/demo/resources/image/upload/minhloc/images/cat":
			assert.Equal(t, "true", r.URL.Query().Get("colors"))
			assert.Equal(t, "true", r.URL.Query().Get("faces"))
			_, _ = w.Write([]byte(`{"public_id":"minhloc/images/cat","resource_type":"image","bytes":10,
				"context":{"custom":{"alt":"a cat"}},
				"colors":[["#FFFFFF",61.2],["#000000",2.1]],
				"faces":[[10,20,30,40]],
				"quality_analysis":{"focus":0.9}}`))
		case "/v1_1/demo/resources/video/upload/minhloc/images/cat":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"message":"Resource not found"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
		}
	}))
	ctx := context.Background()

	info, err := c.Resource(ctx, "minhloc/images/cat", media.CategoryImage, media.ExtendedInfo)
	require.NoError(t, err)
	assert.Equal(t, "a cat", info.Context["alt"])
	assert.Equal(t, []media.ColorShare{{Hex: "#FFFFFF", Percent: 61.2}, {Hex: "#000000", Percent: 2.1}}, info.Colors)
	assert.Equal(t, []media.FaceRegion{{X: 10, Y: 20, Width: 30, Height: 40}}, info.Faces)
	assert.Nil(t, info.Width)

	_, err = c.Resource(ctx, "minhloc/images/cat", media.CategoryVideo, media.InfoFields{})
	assert.True(t, media.IsNotFound(err))

	_, err = c.Resource(ctx, "minhloc/images/cat", media.CategoryRaw, media.InfoFields{})
	require.Error(t, err)
	assert.False(t, media.IsNotFound(err))
	assert.Contains(t, err.Error(), "boom")
}

func TestDeleteResources(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v1_1/demo/resources/raw/upload", r.URL.Path)
		assert.Equal(t, []string{"a", "b"}, r.URL.Query()["public_ids[]"])
		_, _ = w.Write([]byte(`{"deleted":{"a":"deleted","b":"not_found"},"partial":false}`))
	}))

	res, err := c.DeleteResources(context.Background(), []string{"a", "b"}, media.CategoryRaw)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, media.StatusNotFound, res.Deleted["b"])

	_, err = c.DeleteResources(context.Background(), make([]string, media.DefaultMaxBatchSize+1), media.CategoryRaw)
	assert.True(t, media.IsCode(err, media.ErrCodeValidation))
}

func TestDeleteByPrefix(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "minhloc/old/", r.URL.Query().Get("prefix"))
		_, _ = w.Write([]byte(`{"deleted":{"minhloc/old/a":"deleted"},"partial":true}`))
	}))

	res, err := c.DeleteByPrefix(context.Background(), "minhloc/old/", media.CategoryImage)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.True(t, res.Partial)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/resources/search", r.URL.Path)
		var body searchBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "folder:minhloc/images", body.Expression)
		assert.Equal(t, []map[string]string{{"created_at": "desc"}}, body.SortBy)
		assert.Equal(t, 10, body.MaxResults)
		assert.Equal(t, []string{"tags"}, body.WithField)
		_, _ = w.Write([]byte(`{"total_count":12,"next_cursor":"abc","resources":[{"public_id":"minhloc/images/a","resource_type":"image"}]}`))
	}))

	res, err := c.Search(context.Background(), &media.SearchRequest{
		Expression: "folder:minhloc/images",
		SortBy:     "created_at",
		MaxResults: 10,
		WithFields: []string{"tags"},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, res.TotalCount)
	assert.Equal(t, "abc", res.NextCursor)
	require.Len(t, res.Resources, 1)
	assert.Equal(t, media.CategoryImage, res.Resources[0].Category)
}

func TestAdminCall_ContextCanceled(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not be sent")
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Resource(ctx, "x", media.CategoryImage, media.InfoFields{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, media.IsNotFound(err))
}
