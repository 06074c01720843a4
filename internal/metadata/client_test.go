package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetReturnsDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/1398", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1398,"title":"Stalker"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	doc, err := c.Get(context.Background(), Movie, 1398)

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1398,"title":"Stalker"}`, string(doc))
}

func TestClient_NonSuccessIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).Get(context.Background(), Person, 5)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_InvalidJSONIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{BaseURL: srv.URL}).Get(context.Background(), Movie, 5)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_HonoursContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewClient(Config{BaseURL: srv.URL}).Get(ctx, Movie, 1)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, BreakerFailures: 2, BreakerCooldown: time.Minute})
	for i := 0; i < 2; i++ {
		_, err := c.Get(context.Background(), Movie, 1)
		assert.ErrorIs(t, err, ErrUpstream)
	}

	_, err := c.Get(context.Background(), Movie, 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_Fetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"Chantal Akerman"}`))
	}))
	defer srv.Close()

	fetch := NewClient(Config{BaseURL: srv.URL}).Fetcher(Person)
	doc, err := fetch(context.Background(), 42)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Chantal Akerman"}`, string(doc))
}
