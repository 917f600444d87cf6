// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

// Package cloud implements media.Store against a Cloudinary-compatible
// REST API: signed upload endpoints for writes and the basic-auth admin API
// for batch deletes, info lookups and search.
package cloud

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/LeeDigitalWorks/zapmedia/pkg/logger"
	"github.com/LeeDigitalWorks/zapmedia/pkg/media"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIBase = "https://api.cloudinary.com"

	// DefaultTimeout bounds non-upload calls. Uploads are bounded only by
	// the caller's context since large payloads stream for a long time.
	DefaultTimeout = 60 * time.Second

	// DefaultAdminRPS keeps admin API usage well inside the hourly quota.
	DefaultAdminRPS = 5

	maxErrorBody = 64 << 10
)

// Config holds account credentials and transport settings.
type Config struct {
	CloudName string `mapstructure:"name"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	APIBase   string `mapstructure:"api_base"`

	Timeout    time.Duration `mapstructure:"timeout"`
	AdminRPS   float64       `mapstructure:"admin_rps"`
	AdminBurst int           `mapstructure:"admin_burst"`

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client `mapstructure:"-"`
}

// Client is a media.Store talking to the remote API.
type Client struct {
	cfg     Config
	base    string
	upload  *http.Client
	admin   *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

var _ media.Store = (*Client)(nil)

// New validates cfg and returns a client.
func New(cfg Config) (*Client, error) {
	if cfg.CloudName == "" {
		return nil, fmt.Errorf("cloud name is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("api key and api secret are required")
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.AdminRPS == 0 {
		cfg.AdminRPS = DefaultAdminRPS
	}
	if cfg.AdminBurst < 1 {
		cfg.AdminBurst = max(1, int(cfg.AdminRPS))
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	admin := *base
	admin.Timeout = cfg.Timeout

	return &Client{
		cfg:     cfg,
		base:    strings.TrimRight(cfg.APIBase, "/") + "/v1_1/" + url.PathEscape(cfg.CloudName),
		upload:  base,
		admin:   &admin,
		limiter: rate.NewLimiter(rate.Limit(cfg.AdminRPS), cfg.AdminBurst),
		now:     time.Now,
	}, nil
}

// sign computes the request signature over every non-empty parameter.
func (c *Client) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params.Get(k))
	}
	b.WriteString(c.cfg.APISecret)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// signedParams stamps params with a timestamp and signature. The api_key
// is added after signing; it is not part of the signed string.
func (c *Client) signedParams(params url.Values) url.Values {
	params.Set("timestamp", strconv.FormatInt(c.now().Unix(), 10))
	params.Set("signature", c.sign(params))
	params.Set("api_key", c.cfg.APIKey)
	return params
}

// adminRequest performs a throttled basic-auth admin API call and returns
// the response body of a 2xx response.
func (c *Client) adminRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, err
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, err
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(c.admin, req)
}

func (c *Client) do(hc *http.Client, req *http.Request) ([]byte, int, error) {
	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, 0, ctxErr
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	logger.Ctx(req.Context()).Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("media api call")

	return data, resp.StatusCode, nil
}

// statusError converts a non-2xx response into a media error. 404 is the
// only status mapped to not-found.
func statusError(op, id string, cat media.Category, status int, body []byte) error {
	if status == http.StatusNotFound && id != "" {
		return media.NotFound(op, id, cat)
	}
	msg := gjson.GetBytes(truncate(body), "error.message").String()
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status == http.StatusTooManyRequests || status == 420 {
		msg = "rate limited: " + msg
	}
	var ids []string
	if id != "" {
		ids = []string{id}
	}
	return media.NewError(media.ErrCodeRemote, op, fmt.Sprintf("status %d: %s", status, msg), nil, ids...)
}

func truncate(b []byte) []byte {
	if len(b) > maxErrorBody {
		return b[:maxErrorBody]
	}
	return b
}

func ok(status int) bool {
	return status >= 200 && status < 300
}
