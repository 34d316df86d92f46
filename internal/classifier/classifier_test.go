package classifier

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

// newClassifier serves the given model reply text from a fake endpoint.
func newClassifier(t *testing.T, reply string) *Classifier {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": reply}}}},
			},
		})
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return New(gemini.NewClient(srv.URL, "k", "m", time.Second))
}

func TestClassify_Expense(t *testing.T) {
	reply := `{"structured_data":{"Type":"Expense","Category":"Groceries","Amount":50},
		"fluff":false,"updates_to_bio":null,"is_important_decision":false}`
	c := newClassifier(t, reply)

	got, err := c.Classify(context.Background(), "I spent $50 on groceries")
	require.NoError(t, err)

	require.NotNil(t, got.Structured)
	assert.Equal(t, model.TypeExpense, got.Structured.Type)
	assert.Equal(t, "Groceries", got.Structured.Category)
	require.True(t, got.Structured.Amount.Valid)
	assert.True(t, got.Structured.Amount.Decimal.Equal(dec("50")))
	assert.False(t, got.Fluff)
	assert.Nil(t, got.BioUpdate)
	assert.False(t, got.ImportantDecision)
}

func TestClassify_LowercaseKeysAndFences(t *testing.T) {
	reply := "```json\n" + `{"structured_data":{"type":"expense","category":"Rent","amount":"1200.50"},
		"fluff":false,"updates_to_bio":null,"is_important_decision":true}` + "\n```"
	c := newClassifier(t, reply)

	got, err := c.Classify(context.Background(), "rent went out")
	require.NoError(t, err)

	require.NotNil(t, got.Structured)
	assert.Equal(t, model.TypeExpense, got.Structured.Type)
	assert.Equal(t, "Rent", got.Structured.Category)
	assert.True(t, got.Structured.Amount.Decimal.Equal(dec("1200.50")))
	assert.True(t, got.ImportantDecision)
}

func TestClassify_BioNote(t *testing.T) {
	reply := `{"structured_data":null,"fluff":true,
		"updates_to_bio":"now interested in index funds","is_important_decision":false}`
	c := newClassifier(t, reply)

	got, err := c.Classify(context.Background(), "thinking about index funds lately")
	require.NoError(t, err)

	assert.Nil(t, got.Structured)
	require.NotNil(t, got.BioUpdate)
	assert.Equal(t, "now interested in index funds", got.BioUpdate.Note)
	assert.Nil(t, got.BioUpdate.Fields)
}

func TestClassify_BioFields(t *testing.T) {
	reply := `{"structured_data":null,"fluff":true,
		"updates_to_bio":{"Interests":["real estate"]},"is_important_decision":false}`
	c := newClassifier(t, reply)

	got, err := c.Classify(context.Background(), "I like real estate")
	require.NoError(t, err)

	require.NotNil(t, got.BioUpdate)
	assert.Equal(t, map[string]any{"interests": []any{"real estate"}}, got.BioUpdate.Fields)
}

func TestClassify_UnparsableAmount(t *testing.T) {
	reply := `{"structured_data":{"Type":"Expense","Category":"Misc","Amount":"a lot"},
		"fluff":false,"updates_to_bio":null,"is_important_decision":false}`
	c := newClassifier(t, reply)

	got, err := c.Classify(context.Background(), "spent a lot")
	require.NoError(t, err)
	require.NotNil(t, got.Structured)
	assert.False(t, got.Structured.Amount.Valid)
}

func TestClassify_DollarStringAmount(t *testing.T) {
	reply := `{"structured_data":{"Type":"Expense","Category":"Misc","Amount":"$42.99"},
		"fluff":false,"updates_to_bio":null,"is_important_decision":false}`
	c := newClassifier(t, reply)

	got, err := c.Classify(context.Background(), "spent $42.99")
	require.NoError(t, err)
	require.True(t, got.Structured.Amount.Valid)
	assert.True(t, got.Structured.Amount.Decimal.Equal(dec("42.99")))
}

func TestClassify_MalformedReply(t *testing.T) {
	c := newClassifier(t, "Sure! Here's the analysis you asked for.")
	_, err := c.Classify(context.Background(), "hello")
	assert.Error(t, err)
}

func TestClassify_EndpointDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := New(gemini.NewClient(srv.URL, "k", "m", time.Second))
	_, err := c.Classify(context.Background(), "hello")
	assert.Error(t, err)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
