package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHealth_OK(t *testing.T) {
	h := newHTTPHandler(deps{db: mockPinger{}})

	rec := do(t, h, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestGetHealth_DatabaseDown(t *testing.T) {
	h := newHTTPHandler(deps{db: mockPinger{err: errors.New("connection refused")}})

	rec := do(t, h, http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "unavailable", body["status"])
}

func TestGetOpenAPI(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := do(t, h, http.MethodGet, "/openapi.yaml", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi:")
	assert.Contains(t, rec.Body.String(), "/addresses")
}
