package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "test-model", time.Second)
}

func candidateBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(b)
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody request

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(candidateBody("hello")))
	})

	got, err := c.GenerateContent(context.Background(), "hi there", &GenerationConfig{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	assert.Equal(t, "/test-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "hi there", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.GenerationConfig)
	assert.Equal(t, 0.3, gotBody.GenerationConfig.Temperature)
}

func TestGenerateContent_Non200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.GenerateContent(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateContent_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.GenerateContent(context.Background(), "hi", nil)
	assert.Error(t, err)
}

func TestGenerateContent_EmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := c.GenerateContent(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGenerateContent_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	c := NewClient(srv.URL, "k", "m", time.Second)
	_, err := c.GenerateContent(context.Background(), "hi", nil)
	assert.Error(t, err)
}

func TestGenerateContent_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(candidateBody("late")))
	})
	c.httpc.Timeout = 20 * time.Millisecond

	_, err := c.GenerateContent(context.Background(), "hi", nil)
	assert.Error(t, err)
}
