package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_ReturnsHeadersAndDecodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v", r.Header.Get("X-Extra"))
		w.Header().Set("ETag", `"2"`)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 0)
	require.NoError(t, err)

	var out struct {
		ID int64 `json:"id"`
	}
	h, err := c.Do(context.Background(), http.MethodGet, "things/7", map[string]string{"X-Extra": "v"}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, `"2"`, h.Get("ETag"))
	assert.Equal(t, int64(7), out.ID)
}

func TestDo_ParsesProblemDetails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"title":"Conflict","status":409,"detail":"stale","id":1,"expected_version":0,"actual_version":1}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 0)
	require.NoError(t, err)

	err = c.DoJSON(context.Background(), http.MethodPut, "/x", nil, map[string]any{"a": 1}, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, StatusOf(err))

	he, ok := err.(*HTTPError)
	require.True(t, ok)
	require.NotNil(t, he.Problem)
	assert.Equal(t, "stale", he.Problem.Detail)
	assert.Equal(t, int64(1), *he.Problem.ActualVersion)
	assert.Contains(t, he.Error(), "detail=stale")
}

func TestResolveURL_RelativeRequiresBase(t *testing.T) {
	c := New(0)
	_, err := c.resolveURL("/pets")
	assert.Error(t, err)

	u, err := c.resolveURL("http://example.com/pets")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/pets", u)
}
