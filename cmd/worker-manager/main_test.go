package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contact-harvester/internal/common/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeZeebe struct {
	err error
}

func (f fakeZeebe) HealthCheck(context.Context) error { return f.err }

func get(t *testing.T, mux http.Handler, path string) (int, map[string]string) {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]string
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec.Code, body
}

func TestOpsMux(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisClient := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	t.Run("health", func(t *testing.T) {
		code, body := get(t, newOpsMux(fakeZeebe{}, nil), "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", body["status"])
		assert.NotEmpty(t, body["time"])
	})

	t.Run("ready with cache", func(t *testing.T) {
		code, body := get(t, newOpsMux(fakeZeebe{}, redisClient), "/ready")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, "ok", body["redis"])
	})

	t.Run("zeebe down", func(t *testing.T) {
		code, body := get(t, newOpsMux(fakeZeebe{err: assert.AnError}, nil), "/ready")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not_ready", body["status"])
		assert.NotContains(t, body, "redis")
	})

	t.Run("metrics", func(t *testing.T) {
		code, _ := get(t, newOpsMux(fakeZeebe{}, nil), "/metrics")
		assert.Equal(t, http.StatusOK, code)
	})
}
