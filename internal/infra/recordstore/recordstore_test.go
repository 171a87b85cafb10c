package recordstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/lead-relay/internal/entity"
	"github.com/fieldline/lead-relay/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("key", "base1", server.URL)
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "base1", "")
	assert.True(t, usecase.IsConfigError(err))

	_, err = NewClient("key", "", "")
	assert.True(t, usecase.IsConfigError(err))
}

func TestLeadRepositoryFindByName(t *testing.T) {
	var gotFilter, gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filterByFormula")
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(listResponse{Records: []Record{
			{ID: "rec1", Fields: map[string]any{
				"Name":           "Acme Plumbing",
				"Lead Source":    "Google",
				"Payment Status": "Pending",
				"Payment Amount": 0.0,
			}},
		}})
	})

	repo := NewLeadRepository(client)
	leads, err := repo.FindByName(context.Background(), "Acme Plumbing")

	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "rec1", leads[0].ID)
	assert.Equal(t, entity.PaymentPending, leads[0].Status)
	assert.Equal(t, "LOWER(TRIM({Name})) = 'acme plumbing'", gotFilter)
	assert.Equal(t, "Bearer key", gotAuth)
}

func TestLeadRepositoryListCapsCandidates(t *testing.T) {
	var gotMax string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("maxRecords")
		json.NewEncoder(w).Encode(listResponse{})
	})

	repo := NewLeadRepository(client)
	_, err := repo.List(context.Background(), 1000)

	require.NoError(t, err)
	assert.Equal(t, "1000", gotMax)
}

func TestLeadRepositoryMarkPaid(t *testing.T) {
	var gotMethod, gotPath string
	var gotFields map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		var req recordRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotFields = req.Fields
		json.NewEncoder(w).Encode(Record{ID: "rec1", Fields: map[string]any{
			"Name":           "Acme Plumbing",
			"Payment Status": "Paid",
			"Payment Amount": 250.0,
			"Invoice":        "INV-1042",
			"Paid At":        "2026-04-17",
		}})
	})

	repo := NewLeadRepository(client)
	paidAt := time.Date(2026, 4, 17, 0, 0, 0, 0, time.UTC)
	lead, err := repo.MarkPaid(context.Background(), "rec1", decimal.RequireFromString("250"), "INV-1042", paidAt)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/base1/Leads/rec1", gotPath)
	assert.Equal(t, "Paid", gotFields["Payment Status"])
	assert.Equal(t, 250.0, gotFields["Payment Amount"])
	assert.Equal(t, "2026-04-17", gotFields["Paid At"])

	assert.True(t, lead.IsPaid())
	require.NotNil(t, lead.PaidAt)
	assert.True(t, lead.PaymentAmount.Equal(decimal.RequireFromString("250")))
}

func TestClientRetriesIdempotentReads(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(listResponse{Records: []Record{{ID: "rec1"}}})
	})

	records, err := client.List(context.Background(), "Leads", ListOptions{})

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetryWrites(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Create(context.Background(), "Leads", map[string]any{"Name": "x"})

	assert.True(t, usecase.IsUpstreamError(err))
	assert.Equal(t, int32(1), calls.Load(), "a failed create must not be retried")
}

func TestSummaryRepositoryRoundTrip(t *testing.T) {
	t.Run("find absent period returns nil", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(listResponse{})
		})

		summary, err := NewSummaryRepository(client).FindByPeriod(context.Background(), "2026-04")
		require.NoError(t, err)
		assert.Nil(t, summary)
	})

	t.Run("upsert creates when ID empty", func(t *testing.T) {
		var gotMethod string
		var gotFields map[string]any
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			var req recordRequest
			json.NewDecoder(r.Body).Decode(&req)
			gotFields = req.Fields
			json.NewEncoder(w).Encode(Record{ID: "recS1"})
		})

		summary := entity.NewMonthlySummary("2026-04")
		summary.FoldPayment("Google", decimal.RequireFromString("100"))

		err := NewSummaryRepository(client).Upsert(context.Background(), summary)
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "recS1", summary.ID)
		assert.Equal(t, "2026-04", gotFields["Period"])
		assert.Equal(t, 100.0, gotFields["Total Revenue"])
		assert.Nil(t, gotFields["ROI"])
	})

	t.Run("parses stored breakdowns", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(listResponse{Records: []Record{{
				ID: "recS1",
				Fields: map[string]any{
					"Period":           "2026-04",
					"Total Revenue":    180.0,
					"Customer Count":   3.0,
					"Source Breakdown": `{"X":{"total":"150","count":2,"average":"75"}}`,
					"Spend Breakdown":  `{"Google Ads":"100"}`,
				},
			}}})
		})

		summary, err := NewSummaryRepository(client).FindByPeriod(context.Background(), "2026-04")
		require.NoError(t, err)
		require.NotNil(t, summary)
		assert.Equal(t, 3, summary.CustomerCount)
		require.Contains(t, summary.RevenueBySource, "X")
		assert.Equal(t, 2, summary.RevenueBySource["X"].Count)
		assert.True(t, summary.SpendByCategory["Google Ads"].Equal(decimal.RequireFromString("100")))
	})
}

func TestTokenRepositorySaveReusesExistingRow(t *testing.T) {
	var patched bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(listResponse{Records: []Record{{
				ID:     "recT1",
				Fields: map[string]any{"Service": "books"},
			}}})
		case http.MethodPatch:
			patched = true
			assert.Equal(t, "/base1/OAuth%20Tokens/recT1", r.URL.EscapedPath())
			json.NewEncoder(w).Encode(Record{ID: "recT1"})
		default:
			t.Errorf("unexpected %s to token table", r.Method)
		}
	})

	repo := NewTokenRepository(client)
	err := repo.Save(context.Background(), &entity.OAuthToken{
		Service:      "books",
		AccessToken:  "at",
		RefreshToken: "rt",
		ExpiresAt:    time.Now().Add(time.Hour),
	})

	require.NoError(t, err)
	assert.True(t, patched, "existing token row must be rewritten, not duplicated")
}
