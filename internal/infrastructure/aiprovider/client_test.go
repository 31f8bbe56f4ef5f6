package aiprovider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "fast", 5*time.Second)
}

func TestStreamQueryReadsChunksInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, streamPath, r.URL.Path)

		var body streamRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Query)
		assert.Equal(t, "fast", body.Mode)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range []string{
			"data: {\"answer_chunk\":\"a\"}\n",
			"data: {\"answer_chunk\":\"b\"}\n",
			"data: [DONE]\n",
		} {
			_, _ = io.WriteString(w, line)
			flusher.Flush()
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	stream, err := client.StreamQuery(context.Background(), "hello")
	require.NoError(t, err)
	defer stream.Close()

	var lines []string
	for {
		line, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}

	assert.Equal(t, []string{
		"data: {\"answer_chunk\":\"a\"}\n",
		"data: {\"answer_chunk\":\"b\"}\n",
		"data: [DONE]\n",
	}, lines)
}

func TestStreamQueryFinalLineWithoutNewline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"answer_chunk\":\"a\"}\ndata: [DONE]")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	stream, err := client.StreamQuery(context.Background(), "q")
	require.NoError(t, err)
	defer stream.Close()

	first, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "data: {\"answer_chunk\":\"a\"}\n", first)

	last, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "data: [DONE]", last)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamQueryNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.StreamQuery(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestStreamQueryContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	client := newTestClient(server.URL)
	_, err := client.StreamQuery(ctx, "q")
	require.Error(t, err)
}

func TestHealth(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	require.NoError(t, newTestClient(healthy.URL).Health(context.Background()))

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer unhealthy.Close()

	assert.Error(t, newTestClient(unhealthy.URL).Health(context.Background()))
}
