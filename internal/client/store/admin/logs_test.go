package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
)

func TestLogs_FetchSendsSkipAndLimit(t *testing.T) {
	var gotSkip, gotLimit string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/logs/", func(w http.ResponseWriter, r *http.Request) {
		gotSkip = r.URL.Query().Get("skip")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("x-total-count", "42")
		_, _ = w.Write([]byte(`[{"id":1,"action":"login_ok"}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLogs(api.New(srv.URL, nil, nil), zap.NewNop())
	require.NoError(t, l.Fetch(context.Background(), 3, 20))
	assert.Equal(t, "40", gotSkip)
	assert.Equal(t, "20", gotLimit)
	assert.Equal(t, 42, l.Total())
	assert.Len(t, l.All(), 1)
}

func TestLogs_TotalEstimatedWithoutHeader(t *testing.T) {
	full := true
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/logs/", func(w http.ResponseWriter, r *http.Request) {
		if full {
			_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":5}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLogs(api.New(srv.URL, nil, nil), zap.NewNop())

	// A full page means at least one more entry exists.
	require.NoError(t, l.Fetch(context.Background(), 2, 2))
	assert.Equal(t, 5, l.Total())

	// A short page pins the total exactly.
	full = false
	require.NoError(t, l.Fetch(context.Background(), 3, 2))
	assert.Equal(t, 5, l.Total())
}

func TestLogs_FetchFailureClears(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/logs/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-total-count", "7")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	srv := httptest.NewServer(mux)

	l := NewLogs(api.New(srv.URL, nil, nil), zap.NewNop())
	require.NoError(t, l.Fetch(context.Background(), 1, 10))
	require.NotEmpty(t, l.All())

	srv.Close()
	require.Error(t, l.Fetch(context.Background(), 1, 10))
	assert.Empty(t, l.All())
	assert.Zero(t, l.Total())
}
