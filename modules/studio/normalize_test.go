package studio

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRemoteURL(t *testing.T) {
	payload := []byte("fake image bytes")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	n := NewImageNormalizerWithClient(server.Client())

	got, err := n.Normalize(context.Background(), server.URL+"/garment.jpg")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(payload), got)
}

func TestNormalizeIdempotent(t *testing.T) {
	var fetches int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("pixels"))
	}))
	defer server.Close()

	n := NewImageNormalizerWithClient(server.Client())
	ctx := context.Background()

	first, err := n.Normalize(ctx, server.URL+"/a.png")
	require.NoError(t, err)

	// 이미 data URL이면 네트워크를 타지 않고 그대로 반환
	second, err := n.Normalize(ctx, first)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestNormalizeFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	n := NewImageNormalizerWithClient(server.Client())
	badURL := server.URL + "/missing.png"

	_, err := n.Normalize(context.Background(), badURL)
	require.Error(t, err)

	// 실패한 URL이 에러 메시지에 남아야 디버깅이 된다
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, badURL, fetchErr.URL)
	assert.Contains(t, err.Error(), badURL)
	assert.Contains(t, err.Error(), "404")
}

func TestNormalizeDetectsMIMEWithoutHeader(t *testing.T) {
	// PNG 시그니처로 시작하는 바디, Content-Type 없음
	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pngHeader)
	}))
	defer server.Close()

	n := NewImageNormalizerWithClient(server.Client())

	got, err := n.Normalize(context.Background(), server.URL+"/raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))
}

func TestNormalizeAllFailsFast(t *testing.T) {
	var fetches int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewImageNormalizerWithClient(server.Client())

	_, err := n.NormalizeAll(context.Background(), []string{
		server.URL + "/first.png",
		server.URL + "/second.png",
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}
