package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"moneybook/internal/core"
	applog "moneybook/internal/log"
	"moneybook/internal/query"
)

// handleConfig serves and replaces the reference data. A GET before any
// save returns the seed config so fresh installs start usable.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.currentConfig(r.Context()))

	case http.MethodPut:
		var cfg core.Config
		if err := readJSON(w, r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid config payload")
			return
		}
		s.ledger.SaveConfig(r.Context(), cfg)
		writeJSON(w, http.StatusOK, cfg)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

type transactionsResponse struct {
	Year         int                `json:"year"`
	Month        int                `json:"month"`
	Total        int                `json:"total"`
	Count        int                `json:"count"`
	Transactions []core.Transaction `json:"transactions"`
}

type saveTransactionRequest struct {
	core.Transaction
	// PrevDate is the date the entry had before this edit. When it falls
	// in a different month than the new date, the entry migrates buckets.
	PrevDate *core.Date `json:"prevDate,omitempty"`
}

type deleteTransactionsRequest struct {
	IDs []string `json:"ids"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.saveTransaction(w, r)
	case http.MethodDelete:
		s.deleteTransactions(w, r)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

// listTransactions serves one bucket's view, filtered and sorted per the
// query parameters. The unfiltered bucket size is reported alongside so
// clients can tell "empty month" from "nothing matched".
func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	order := query.Order(r.URL.Query().Get("sort"))
	if !order.IsValid() {
		order = query.DateDesc
	}

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bucket := s.monthTransactions(r.Context(), year, month)
	matched := query.Sort(filter.Apply(bucket), order)

	writeJSON(w, http.StatusOK, transactionsResponse{
		Year:         year,
		Month:        month,
		Total:        len(bucket),
		Count:        len(matched),
		Transactions: matched,
	})
}

func filterFromQuery(r *http.Request) (query.Filter, error) {
	q := r.URL.Query()
	filter := query.Filter{
		User:          sanitizeInput(q.Get("user")),
		Type:          core.TransactionType(strings.TrimSpace(q.Get("type"))),
		MainCategory:  sanitizeInput(q.Get("category")),
		PaymentDetail: sanitizeInput(q.Get("payment")),
		Text:          sanitizeInput(q.Get("q")),
	}
	if filter.Type != "" && filter.Type != core.Income && filter.Type != core.Expense {
		return query.Filter{}, core.ErrInvalidType
	}
	if v := strings.TrimSpace(q.Get("min")); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return query.Filter{}, core.ErrInvalidAmount
		}
		filter.MinAmount = &cents
	}
	if v := strings.TrimSpace(q.Get("max")); v != "" {
		cents, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return query.Filter{}, core.ErrInvalidAmount
		}
		filter.MaxAmount = &cents
	}
	return filter, nil
}

// saveTransaction creates or updates an entry. The bucket is always the
// one matching the transaction's own date; an edit whose date moved to
// another month migrates the entry between buckets.
func (s *Server) saveTransaction(w http.ResponseWriter, r *http.Request) {
	var req saveTransactionRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction payload")
		return
	}

	tx := req.Transaction
	tx.Merchant = sanitizeInput(tx.Merchant)
	tx.Detail = sanitizeInput(tx.Detail)
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var saved core.Transaction
	if req.PrevDate != nil && !req.PrevDate.SameMonth(tx.Date) {
		var err error
		saved, err = s.ledger.MoveTransaction(r.Context(), tx, *req.PrevDate)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Transaction move failed",
				applog.FieldError, err, applog.FieldTxID, tx.ID)
			writeError(w, http.StatusInternalServerError, "failed to move transaction")
			return
		}
	} else {
		saved = s.ledger.PutTransaction(r.Context(), tx)
	}

	atomic.AddInt64(&s.metrics.transactionsSaved, 1)
	writeJSON(w, http.StatusOK, saved)
}

// deleteTransactions removes the listed ids from one bucket. Unknown ids
// are ignored; the response reports how many entries actually went away.
func (s *Server) deleteTransactions(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	var req deleteTransactionsRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid delete payload")
		return
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "no transaction ids provided")
		return
	}

	removed := s.ledger.DeleteTransactions(r.Context(), year, month, req.IDs)
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.LoadBudgets(r.Context(), year, month))

	case http.MethodPut:
		var budgets map[string]core.Money
		if err := readJSON(w, r, &budgets); err != nil {
			writeError(w, http.StatusBadRequest, "invalid budgets payload")
			return
		}
		s.ledger.SaveBudgets(r.Context(), year, month, budgets)
		writeJSON(w, http.StatusOK, budgets)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

// handleSummary serves the stored monthly overview, computing and
// persisting it on demand when the worker has not produced one yet.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	year, month := parseYearMonth(r)

	summary, ok := s.ledger.LoadMonthlySummary(r.Context(), year, month)
	if !ok {
		list := s.monthTransactions(r.Context(), year, month)
		summary = core.Summarize(year, month, list)
		s.ledger.SaveMonthlySummary(r.Context(), year, month, summary)
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleFixedTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.LoadFixedTransactions(r.Context()))

	case http.MethodPut:
		var list []json.RawMessage
		if err := readJSON(w, r, &list); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		s.ledger.SaveFixedTransactions(r.Context(), list)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleAccountTransactions(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ledger.LoadAccountTransactions(r.Context(), year, month))

	case http.MethodPut:
		var list []json.RawMessage
		if err := readJSON(w, r, &list); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		s.ledger.SaveAccountTransactions(r.Context(), year, month, list)
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}
