package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"moneybook/internal/core"
	"moneybook/internal/events"
	"moneybook/internal/kv/memory"
	"moneybook/internal/ledger"
	applog "moneybook/internal/log"
)

func newTestServer(t *testing.T) (*Server, *ledger.Store) {
	t.Helper()
	logger := applog.New(applog.ComponentHTTP, applog.Config{})
	store := ledger.New(memory.New(), logger, events.NewBus())
	srv := NewServer(Options{
		Addr:              ":0",
		RequestsPerMinute: 10_000,
		CacheSize:         16,
		CacheTTL:          time.Minute,
	}, store, logger)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, store
}

func doRequest(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func transactionBody(date string) map[string]any {
	return map[string]any{
		"date":          date,
		"user":          "shared",
		"type":          "expense",
		"mainCategory":  "Food",
		"subCategory":   "Groceries",
		"merchant":      "Corner Market",
		"amount":        4250,
		"paymentMethod": "credit",
		"paymentDetail": "master_shared",
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandleConfig_SeedWhenUnsaved(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cfg core.Config
	decodeBody(t, rec, &cfg)
	if len(cfg.PaymentMethods.CreditCards) == 0 {
		t.Error("fresh install should serve the seed config")
	}
}

func TestHandleConfig_PutReplaces(t *testing.T) {
	srv, _ := newTestServer(t)

	cfg := core.Config{
		PaymentMethods: core.PaymentMethods{
			CreditCards: []core.PaymentMethod{{ID: "only_card", Label: "Only Card", Type: core.PayCredit}},
		},
	}
	rec := doRequest(t, srv, http.MethodPut, "/api/config", cfg)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/config", nil)
	var got core.Config
	decodeBody(t, rec, &got)
	if len(got.PaymentMethods.All()) != 1 || got.PaymentLabel("only_card") != "Only Card" {
		t.Errorf("replacement not visible: %+v", got.PaymentMethods)
	}

	if rec := doRequest(t, srv, http.MethodDelete, "/api/config", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", rec.Code)
	}
}

func TestTransactionsLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	// Create: the bucket comes from the transaction's own date.
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", transactionBody("2025-03-15"))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST status = %d body=%s", rec.Code, rec.Body.String())
	}
	var saved core.Transaction
	decodeBody(t, rec, &saved)
	if saved.ID == "" {
		t.Fatal("saved transaction has no id")
	}

	// Listed in March, absent in April.
	var list transactionsResponse
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	decodeBody(t, rec, &list)
	if list.Count != 1 || list.Total != 1 {
		t.Errorf("March listing = %+v", list)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=4", nil)
	decodeBody(t, rec, &list)
	if list.Count != 0 {
		t.Errorf("April listing = %+v", list)
	}

	// Delete by id.
	rec = doRequest(t, srv, http.MethodDelete, "/api/transactions?year=2025&month=3",
		map[string]any{"ids": []string{saved.ID, "tx_missing"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d", rec.Code)
	}
	var deleted map[string]int
	decodeBody(t, rec, &deleted)
	if deleted["removed"] != 1 {
		t.Errorf("removed = %d, want 1", deleted["removed"])
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	decodeBody(t, rec, &list)
	if list.Count != 0 {
		t.Errorf("bucket not empty after delete: %+v", list)
	}
}

func TestSaveTransaction_MovesAcrossBuckets(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", transactionBody("2025-03-15"))
	var saved core.Transaction
	decodeBody(t, rec, &saved)

	// Edit the date into April, telling the server where it used to be.
	body := transactionBody("2025-04-02")
	body["id"] = saved.ID
	body["prevDate"] = "2025-03-15"
	rec = doRequest(t, srv, http.MethodPost, "/api/transactions", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d body=%s", rec.Code, rec.Body.String())
	}

	var list transactionsResponse
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	decodeBody(t, rec, &list)
	if list.Count != 0 {
		t.Errorf("entry still in March: %+v", list)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=4", nil)
	decodeBody(t, rec, &list)
	if list.Count != 1 || list.Transactions[0].ID != saved.ID {
		t.Errorf("entry not in April: %+v", list)
	}
}

func TestSaveTransaction_RejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "missing user", mutate: func(b map[string]any) { b["user"] = "" }},
		{name: "unknown type", mutate: func(b map[string]any) { b["type"] = "transfer" }},
		{name: "zero amount", mutate: func(b map[string]any) { b["amount"] = 0 }},
		{name: "missing category", mutate: func(b map[string]any) { b["mainCategory"] = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := transactionBody("2025-03-15")
			tt.mutate(body)
			rec := doRequest(t, srv, http.MethodPost, "/api/transactions", body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
		})
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	var list transactionsResponse
	decodeBody(t, rec, &list)
	if list.Total != 0 {
		t.Errorf("rejected payloads were persisted: %+v", list)
	}
}

func TestListTransactions_FilterAndSort(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	seed := []struct {
		day      int
		user     string
		typ      core.TransactionType
		category string
		merchant string
		cents    int64
	}{
		{1, "alex", core.Expense, "Food", "Corner Market", 4250},
		{5, "sam", core.Expense, "Transport", "Metro", 6000},
		{10, "alex", core.Income, "Salary", "", 300_000},
	}
	for _, s := range seed {
		store.PutTransaction(ctx, core.Transaction{
			Date:          core.NewDate(2025, 3, s.day),
			User:          s.user,
			Type:          s.typ,
			MainCategory:  s.category,
			Merchant:      s.merchant,
			Amount:        core.Money{Cents: s.cents},
			PaymentMethod: core.PayCash,
			PaymentDetail: "cash",
		})
	}

	var list transactionsResponse
	rec := doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3&user=alex", nil)
	decodeBody(t, rec, &list)
	if list.Count != 2 || list.Total != 3 {
		t.Errorf("user filter = %+v", list)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3&q=metro", nil)
	decodeBody(t, rec, &list)
	if list.Count != 1 || list.Transactions[0].Merchant != "Metro" {
		t.Errorf("text filter = %+v", list)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3&sort=amount-asc", nil)
	decodeBody(t, rec, &list)
	if list.Transactions[0].Amount.Cents != 4250 || list.Transactions[2].Amount.Cents != 300_000 {
		t.Errorf("amount-asc order wrong: %+v", list.Transactions)
	}

	// Unknown sort falls back to date-desc.
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3&sort=sideways", nil)
	decodeBody(t, rec, &list)
	if list.Transactions[0].Date.Day() != 10 {
		t.Errorf("fallback order wrong: %+v", list.Transactions)
	}

	if rec := doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3&min=abc", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed min accepted: %d", rec.Code)
	}
}

func TestHandleSummary_ComputesOnDemand(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	store.SaveTransactions(ctx, 2025, 3, []core.Transaction{
		{Date: core.NewDate(2025, 3, 1), Type: core.Income, MainCategory: "Salary", Amount: core.Money{Cents: 300_000}},
		{Date: core.NewDate(2025, 3, 5), Type: core.Expense, MainCategory: "Food", Amount: core.Money{Cents: 12_000}},
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/summary?year=2025&month=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var summary core.MonthSummary
	decodeBody(t, rec, &summary)
	if summary.Count != 2 || summary.TotalExpense.Cents != 12_000 {
		t.Errorf("summary = %+v", summary)
	}

	if _, ok := store.LoadMonthlySummary(ctx, 2025, 3); !ok {
		t.Error("on-demand summary should be persisted")
	}
}

func TestHandleBudgets(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/budgets?year=2025&month=3",
		map[string]int64{"Food": 50_000, "Transport": 20_000})
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/budgets?year=2025&month=3", nil)
	var budgets map[string]core.Money
	decodeBody(t, rec, &budgets)
	if budgets["Food"].Cents != 50_000 {
		t.Errorf("budgets = %v", budgets)
	}
}

func TestMonthCache_InvalidatedByWrites(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	// Prime the cache with an empty March.
	var list transactionsResponse
	rec := doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	decodeBody(t, rec, &list)
	if list.Total != 0 {
		t.Fatalf("expected empty bucket, got %+v", list)
	}

	// A write through the ledger must invalidate the cached view.
	store.PutTransaction(ctx, core.Transaction{
		Date:          core.NewDate(2025, 3, 15),
		User:          "shared",
		Type:          core.Expense,
		MainCategory:  "Food",
		Amount:        core.Money{Cents: 100},
		PaymentMethod: core.PayCash,
		PaymentDetail: "cash",
	})

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?year=2025&month=3", nil)
	decodeBody(t, rec, &list)
	if list.Total != 1 {
		t.Errorf("stale view served after write: %+v", list)
	}
}

func TestParseYearMonth(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name      string
		target    string
		wantYear  int
		wantMonth int
	}{
		{name: "explicit", target: "/api/transactions?year=2024&month=7", wantYear: 2024, wantMonth: 7},
		{name: "missing falls back to now", target: "/api/transactions", wantYear: now.Year(), wantMonth: int(now.Month())},
		{name: "month out of range ignored", target: "/api/transactions?year=2024&month=13", wantYear: 2024, wantMonth: int(now.Month())},
		{name: "garbage ignored", target: "/api/transactions?year=never&month=soon", wantYear: now.Year(), wantMonth: int(now.Month())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			year, month := parseYearMonth(req)
			if year != tt.wantYear || month != tt.wantMonth {
				t.Errorf("parseYearMonth = %d/%d, want %d/%d", year, month, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestHandleMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(t, srv, http.MethodPost, "/api/transactions", transactionBody("2025-03-15"))

	rec := doRequest(t, srv, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "moneybook_transactions_saved_total 1") {
		t.Errorf("metrics missing saved counter:\n%s", body)
	}
	if !strings.Contains(body, "moneybook_http_requests_total") {
		t.Errorf("metrics missing request counter:\n%s", body)
	}
}
