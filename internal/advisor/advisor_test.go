package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/financier-dev/financier/internal/gemini"
	"github.com/financier-dev/financier/internal/model"
)

type capturedRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig *struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

func TestAdvise(t *testing.T) {
	var got capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		body, _ := json.Marshal(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "Stay the course."}}}},
			},
		})
		w.Write(body)
	}))
	t.Cleanup(srv.Close)

	a := New(gemini.NewClient(srv.URL, "k", "m", time.Second))
	snap := Snapshot{
		ProfileJSON: `{"name":"Ada"}`,
		Market:      "rates are rising",
		Recent: []model.Entry{
			{
				Timestamp: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
				Type:      model.TypeExpense,
				Category:  "Groceries",
				Amount:    decimal.NullDecimal{Decimal: decimal.NewFromInt(50), Valid: true},
			},
		},
	}

	advice, err := a.Advise(context.Background(), "can I afford a vacation?", snap)
	require.NoError(t, err)
	assert.Equal(t, "Stay the course.", advice)

	require.Len(t, got.Contents, 1)
	prompt := got.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, `{"name":"Ada"}`)
	assert.Contains(t, prompt, "rates are rising")
	assert.Contains(t, prompt, "2025-01-03 Expense/Groceries amount=50 necessary=false")
	assert.Contains(t, prompt, "can I afford a vacation?")
	assert.Contains(t, prompt, "3 most likely outcomes")
	assert.Contains(t, prompt, "12-month future projection")

	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, 0.3, got.GenerationConfig.Temperature)
}

func TestAdvise_EmptyLedger(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		prompt = got.Contents[0].Parts[0].Text
		body, _ := json.Marshal(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
		w.Write(body)
	}))
	t.Cleanup(srv.Close)

	a := New(gemini.NewClient(srv.URL, "k", "m", time.Second))
	_, err := a.Advise(context.Background(), "hi", Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, prompt, "no transactions recorded yet")
}

func TestAdvise_EndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	a := New(gemini.NewClient(srv.URL, "k", "m", time.Second))
	_, err := a.Advise(context.Background(), "hi", Snapshot{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reasoning call")
}
