package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	h := newTestHandler(t)

	req := multipartRequest(t, "/api/v1/nope", nil, nil)
	rec := do(t, h, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/api/v1/convert", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUploadSizeLimit(t *testing.T) {
	h := newTestServer(t, 64).Handler()

	big := bytes.Repeat([]byte("x"), 4096)
	req := multipartRequest(t, "/api/v1/convert",
		[]upload{{"file", "data.csv", big}},
		map[string]string{"input_format": "csv", "output_format": "json"})
	rec := do(t, h, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "payload_too_large", resp.Error)
	assert.Contains(t, resp.Action, "size cap")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, 1<<20)
	s.addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}
