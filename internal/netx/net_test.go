package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadPresignedURL_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "sig", r.URL.Query().Get("X-Amz-Signature"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer srv.Close()

	body, err := DownloadPresignedURL(context.Background(), srv.URL+"/audit/v/1.json?X-Amz-Signature=sig")
	require.NoError(t, err)
	assert.Equal(t, `{"records":[]}`, string(body))
}

func TestDownloadPresignedURL_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := DownloadPresignedURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "expired")
}

func TestDownloadPresignedURL_BadURL(t *testing.T) {
	_, err := DownloadPresignedURL(context.Background(), "://nope")
	assert.Error(t, err)
}
