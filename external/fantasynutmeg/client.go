package fantasynutmeg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
	"github.com/riskibarqy/fpl-season-ingest/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultSeasonURL    = "https://www.fantasynutmeg.com/api/history/season/2022-23"
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 32 << 20
)

type ClientConfig struct {
	HTTPClient   *http.Client
	Timeout      time.Duration
	MaxBodyBytes int64
	Logger       *logging.Logger
}

// Client fetches season history documents. It makes exactly one request per
// call; failures are returned, never retried.
type Client struct {
	httpClient   *http.Client
	maxBodyBytes int64
	logger       *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		withTimeout := *httpClient
		withTimeout.Timeout = defaultTimeout
		httpClient = &withTimeout
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Client{
		httpClient:   httpClient,
		maxBodyBytes: maxBody,
		logger:       logger,
	}
}

var _ usecase.PayloadFetcher = (*Client)(nil)

func (c *Client) FetchSeason(ctx context.Context, url string) (usecase.SeasonPayload, error) {
	startedAt := time.Now()
	raw, status, err := c.executeRequest(ctx, url)
	if err != nil {
		return usecase.SeasonPayload{}, err
	}

	var document map[string]any
	if err := sonic.Unmarshal(raw, &document); err != nil {
		return usecase.SeasonPayload{}, crerr.Mark(
			crerr.Wrapf(err, "decode season payload url=%s body=%s", url, abbreviateBody(raw)),
			usecase.ErrDecodeFailed,
		)
	}
	if document == nil {
		return usecase.SeasonPayload{}, crerr.Wrapf(usecase.ErrDecodeFailed, "season payload url=%s is not a JSON object", url)
	}

	c.logger.InfoContext(ctx, "season payload fetched",
		"url", url,
		"status", status,
		"bytes", len(raw),
		"duration", time.Since(startedAt),
	)

	return usecase.SeasonPayload{
		URL:      url,
		Document: document,
		Raw:      raw,
	}, nil
}

func (c *Client) executeRequest(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, &usecase.FetchError{URL: url, Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &usecase.FetchError{URL: url, Cause: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	// One byte over the limit tells a truncated body apart from one that fits.
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, c.maxBodyBytes+1)); err != nil {
		return nil, resp.StatusCode, &usecase.FetchError{URL: url, Cause: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &usecase.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       abbreviateBody(buf.B),
		}
	}
	if int64(buf.Len()) > c.maxBodyBytes {
		return nil, resp.StatusCode, &usecase.FetchError{
			URL:   url,
			Cause: fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes),
		}
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, resp.StatusCode, nil
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
