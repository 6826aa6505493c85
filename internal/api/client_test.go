package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "nbl_testkey")
	return srv, client
}

func jsonResponse(data any) []byte {
	b, _ := json.Marshal(map[string]any{"data": data})
	return b
}

func TestLogin(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/keys/login", r.URL.Path)

		var body LoginInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "testuser", body.Username)

		w.Write(jsonResponse(map[string]any{
			"api_key":   "nbl_newkey",
			"entity_id": "ent-1",
			"username":  "testuser",
		}))
	})

	resp, err := client.Login(context.Background(), "testuser")
	require.NoError(t, err)
	assert.Equal(t, "nbl_newkey", resp.APIKey)
	assert.Equal(t, "testuser", resp.Username)
}

func TestHTTPError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		b, _ := json.Marshal(map[string]any{
			"error": map[string]any{
				"code":    "NOT_FOUND",
				"message": "entity not found",
			},
		})
		w.Write(b)
	})

	_, err := client.GetEntity(context.Background(), "nope")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NOT_FOUND: entity not found")
}

func TestHTTPErrorDetailString(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"bad search"}`))
	})

	_, err := client.ListTaxonomy(context.Background(), "tags", TaxonomyQuery{Search: "x"})
	require.Error(t, err)
	assert.Equal(t, "bad search", err.Error())
}

func TestHTTPErrorPlainBody(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	_, err := client.GetEntity(context.Background(), "ent-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 502")
}

func TestBuildQuery(t *testing.T) {
	result := buildQuery("/api/taxonomy/tags", QueryParams{"search": "go", "limit": "10"})
	assert.Contains(t, result, "/api/taxonomy/tags?")
	assert.Contains(t, result, "search=go")
	assert.Contains(t, result, "limit=10")
}

func TestBuildQueryEmpty(t *testing.T) {
	result := buildQuery("/api/taxonomy/tags", nil)
	assert.Equal(t, "/api/taxonomy/tags", result)
}

func TestNewClientCustomTimeout(t *testing.T) {
	client := NewClient("http://example.com", "nbl_testkey", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://example.com", client.baseURL)
}

func TestNewClientTargetsDefaultBaseURL(t *testing.T) {
	var gotURL string
	client := NewClient(DefaultBaseURL, "nbl_testkey")
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		gotURL = r.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"data":{"id":"ent-1","name":"Alpha","tags":[]}}`)),
			Header:     make(http.Header),
		}, nil
	})

	_, err := client.GetEntity(context.Background(), "ent-1")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL+"/api/entities/ent-1", gotURL)
}

func TestClientOmitsAuthorizationWithoutKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(jsonResponse([]map[string]any{}))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "")
	_, err := client.ListTaxonomy(context.Background(), "tags", TaxonomyQuery{})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	client = NewClient(srv.URL, "nbl_later")
	_, err = client.ListTaxonomy(context.Background(), "tags", TaxonomyQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer nbl_later", gotAuth)
}

func TestClientCancelledContextAbortsRequest(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client := NewClient(srv.URL, "nbl_testkey")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.ListTaxonomy(ctx, "tags", TaxonomyQuery{Search: "slow"})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("request was not cancelled")
	}
}

func TestClientConcurrentRequests(t *testing.T) {
	var count atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		w.Write(jsonResponse([]map[string]any{
			{"id": "tag-1", "name": r.URL.Query().Get("search")},
		}))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "nbl_testkey")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			query := fmt.Sprintf("q%d", i)
			items, err := client.ListTaxonomy(context.Background(), "tags", TaxonomyQuery{Search: query})
			if err != nil {
				errs <- err
				return
			}
			if len(items) != 1 || items[0].Name != query {
				errs <- fmt.Errorf("unexpected items for %s: %+v", query, items)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(workers), count.Load())
}
