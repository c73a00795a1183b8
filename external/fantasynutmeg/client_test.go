package fantasynutmeg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/fpl-season-ingest/internal/usecase"
)

func TestClientFetchSeason_DecodesDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/api/history/season/2022-23" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = jsoniter.NewEncoder(w).Encode(map[string]any{
			"matrix": []any{
				map[string]any{"web_name": "Saka", "gw_points": map[string]any{"1": 6}},
			},
			"history": []any{},
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client()})
	url := server.URL + "/api/history/season/2022-23"

	payload, err := client.FetchSeason(context.Background(), url)
	if err != nil {
		t.Fatalf("fetch season: %v", err)
	}
	if payload.URL != url {
		t.Fatalf("unexpected url: %s", payload.URL)
	}
	matrix, ok := payload.Document["matrix"].([]any)
	if !ok || len(matrix) != 1 {
		t.Fatalf("unexpected matrix: %#v", payload.Document["matrix"])
	}
	if len(payload.Raw) == 0 {
		t.Fatalf("expected raw body to be kept")
	}
}

func TestClientFetchSeason_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client()})
	_, err := client.FetchSeason(context.Background(), server.URL+"/season/2022-23")
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}

	var fetchErr *usecase.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got=%d want=%d", fetchErr.StatusCode, http.StatusInternalServerError)
	}
	if !strings.Contains(fetchErr.Body, "upstream exploded") {
		t.Fatalf("expected body excerpt, got %q", fetchErr.Body)
	}
}

func TestClientFetchSeason_InvalidJSON(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"garbage":   "<html>maintenance</html>",
		"array":     `[1, 2, 3]`,
		"json null": `null`,
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewClient(ClientConfig{HTTPClient: server.Client()})
			_, err := client.FetchSeason(context.Background(), server.URL+"/season/2022-23")
			if !crerr.Is(err, usecase.ErrDecodeFailed) {
				t.Fatalf("expected ErrDecodeFailed, got %v", err)
			}
			if crerr.Is(err, usecase.ErrFetchFailed) {
				t.Fatalf("decode failure must not be reported as fetch failure")
			}
		})
	}
}

func TestClientFetchSeason_BodyLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"matrix": [], "padding": "` + strings.Repeat("x", 256) + `"}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{HTTPClient: server.Client(), MaxBodyBytes: 64})
	_, err := client.FetchSeason(context.Background(), server.URL+"/season/2022-23")
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed for oversized body, got %v", err)
	}
}

func TestClientFetchSeason_TransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL + "/season/2022-23"
	server.Close()

	client := NewClient(ClientConfig{HTTPClient: &http.Client{}})
	_, err := client.FetchSeason(context.Background(), url)

	var fetchErr *usecase.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fetchErr.StatusCode != 0 || fetchErr.Cause == nil {
		t.Fatalf("transport failure should carry a cause and no status: %+v", fetchErr)
	}
}

func TestAbbreviateBody(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 300)
	got := abbreviateBody([]byte(long))
	if len(got) != 243 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected abbreviation length=%d", len(got))
	}
}

func TestClientFetchSeason_TimeoutKeepsCause(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(ClientConfig{HTTPClient: server.Client()})
	_, err := client.FetchSeason(ctx, server.URL+"/api/history/season/2022-23")
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded in chain, got %v", err)
	}
}

func TestNewClient_DoesNotMutateCallerClient(t *testing.T) {
	t.Parallel()

	caller := &http.Client{}
	client := NewClient(ClientConfig{HTTPClient: caller})

	if caller.Timeout != 0 {
		t.Fatalf("caller client timeout changed to %s", caller.Timeout)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("unexpected client timeout: %s", client.httpClient.Timeout)
	}
}
