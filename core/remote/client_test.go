package remote_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"delivery-admin/core/apperr"
	"delivery-admin/core/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recorded struct {
	Method    string
	Path      string
	Query     string
	Body      string
	RequestID string
}

func setupServer(t *testing.T, handler http.HandlerFunc) (*remote.Client, *[]recorded) {
	var (
		mu    sync.Mutex
		calls []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, recorded{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.RawQuery,
			Body:      string(body),
			RequestID: r.Header.Get(remote.HeaderRequestID),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := remote.NewClient(remote.Config{BaseURL: srv.URL, TimeoutSeconds: 5}, zap.NewNop())
	require.NoError(t, err)
	return client, &calls
}

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := remote.NewClient(remote.Config{BaseURL: "http://localhost:8080/"}, nil)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("WithRateLimit", func(t *testing.T) {
		client, err := remote.NewClient(remote.Config{BaseURL: "https://catalog.example.com", RateLimit: 5}, nil)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MissingScheme", func(t *testing.T) {
		_, err := remote.NewClient(remote.Config{BaseURL: "localhost:8080"}, nil)
		assert.Error(t, err)
	})

	t.Run("MissingHost", func(t *testing.T) {
		_, err := remote.NewClient(remote.Config{BaseURL: "http://"}, nil)
		assert.Error(t, err)
	})
}

func TestResource_List(t *testing.T) {
	client, calls := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":1,"name":"Soups"},{"id":2,"name":"Salads"}]`)
	})

	items, err := remote.NewResource[item](client, "/category").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []item{{1, "Soups"}, {2, "Salads"}}, items)
	require.Len(t, *calls, 1)
	assert.Equal(t, http.MethodGet, (*calls)[0].Method)
	assert.Equal(t, "/category", (*calls)[0].Path)
}

func TestResource_ListNull(t *testing.T) {
	client, _ := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `null`)
	})

	items, err := remote.NewResource[item](client, "/ingredient").List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestResource_ListMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NotJSON", `<html>oops</html>`},
		{"WrongShape", `{"id":1}`},
		{"Empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := remote.NewResource[item](client, "/food").List(context.Background())
			var decode *apperr.DecodeError
			assert.ErrorAs(t, err, &decode)
		})
	}
}

func TestResource_ErrorMapping(t *testing.T) {
	t.Run("RemoteWithBody", func(t *testing.T) {
		client, _ := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = io.WriteString(w, "Food with name 'Soup' already exists\n")
		})

		_, err := remote.NewResource[item](client, "/food").Create(context.Background(), map[string]string{"name": "Soup"})
		var rerr *apperr.RemoteError
		require.ErrorAs(t, err, &rerr)
		assert.Equal(t, http.StatusConflict, rerr.Status)
		assert.Equal(t, "Food with name 'Soup' already exists", rerr.Body)
	})

	t.Run("StatusWithoutBody", func(t *testing.T) {
		client, _ := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := remote.NewResource[item](client, "/food").List(context.Background())
		var ferr *apperr.FetchError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, http.StatusServiceUnavailable, ferr.Status)
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		client, err := remote.NewClient(remote.Config{BaseURL: addr, TimeoutSeconds: 1}, nil)
		require.NoError(t, err)

		_, err = remote.NewResource[item](client, "/food").List(context.Background())
		var ferr *apperr.FetchError
		require.ErrorAs(t, err, &ferr)
		assert.Zero(t, ferr.Status)
	})
}

func TestResource_Writes(t *testing.T) {
	client, calls := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			_, _ = io.WriteString(w, `{"id":7,"name":"Tomato"}`)
		case http.MethodPut:
			_, _ = io.WriteString(w, `{"id":7,"name":"Cherry tomato"}`)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	res := remote.NewResource[item](client, "/ingredient")
	ctx := context.Background()

	created, err := res.Create(ctx, map[string]string{"name": "Tomato"})
	require.NoError(t, err)
	assert.Equal(t, item{7, "Tomato"}, created)

	updated, err := res.Update(ctx, 7, map[string]string{"name": "Cherry tomato"})
	require.NoError(t, err)
	assert.Equal(t, "Cherry tomato", updated.Name)

	require.NoError(t, res.Delete(ctx, 7))

	require.Len(t, *calls, 3)
	assert.Equal(t, "/ingredient", (*calls)[0].Path)
	assert.JSONEq(t, `{"name":"Tomato"}`, (*calls)[0].Body)
	assert.Equal(t, "/ingredient/7", (*calls)[1].Path)
	assert.Equal(t, http.MethodDelete, (*calls)[2].Method)
	assert.Equal(t, "/ingredient/7", (*calls)[2].Path)
}

func TestResource_CreateWithoutBody(t *testing.T) {
	client, _ := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	created, err := remote.NewResource[item](client, "/category").Create(context.Background(), map[string]string{"name": "x"})
	require.NoError(t, err)
	assert.Zero(t, created.ID)
}

func TestResource_Search(t *testing.T) {
	client, calls := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":3,"name":"Borscht"}]`)
	})

	q := url.Values{}
	q.Set("category", "Hot Soups")
	items, err := remote.NewResource[item](client, "/food").Search(context.Background(), "search-by-category", q)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "/food/search-by-category", (*calls)[0].Path)
	assert.Equal(t, "category=Hot+Soups", (*calls)[0].Query)
}

func TestClient_LinkUnlink(t *testing.T) {
	client, calls := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":1}`)
	})
	ctx := remote.WithRequestID(context.Background(), "req-42")

	require.NoError(t, client.Link(ctx, 1, 4))
	require.NoError(t, client.Unlink(ctx, 1, 2))

	require.Len(t, *calls, 2)
	assert.Equal(t, recorded{Method: http.MethodPost, Path: "/food/1/ingredient/4", RequestID: "req-42"}, (*calls)[0])
	assert.Equal(t, recorded{Method: http.MethodDelete, Path: "/food/1/ingredient/2", RequestID: "req-42"}, (*calls)[1])
}

func TestClient_LinkNotFound(t *testing.T) {
	client, _ := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Ingredient with id 99 not found")
	})

	err := client.Link(context.Background(), 1, 99)
	assert.True(t, apperr.IsNotFound(err))
	assert.Contains(t, err.Error(), "link food 1 ingredient 99")
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, remote.RequestID(context.Background()))
	assert.Equal(t, "abc", remote.RequestID(remote.WithRequestID(context.Background(), "abc")))
}

func TestClient_RateLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	client, err := remote.NewClient(remote.Config{BaseURL: srv.URL, RateLimit: 0.1, Burst: 1}, nil)
	require.NoError(t, err)
	foods := remote.NewResource[item](client, "/food")

	_, err = foods.List(context.Background())
	require.NoError(t, err)

	// the bucket is empty and the next token is ten seconds away
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = foods.List(ctx)

	var fetch *apperr.FetchError
	assert.ErrorAs(t, err, &fetch)
	assert.Equal(t, 1, hits)
}
