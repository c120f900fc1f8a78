package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/fingemini/internal/advice"
	"github.com/dvloznov/fingemini/internal/api/middleware"
	"github.com/dvloznov/fingemini/internal/domain"
	"github.com/dvloznov/fingemini/internal/ledger"
	"github.com/dvloznov/fingemini/internal/report"
	"github.com/dvloznov/fingemini/internal/syncer"
)

// SessionState holds the single active session. The engine serves one user
// at a time, like the app it persists for; tests construct separate states
// for isolation.
type SessionState struct {
	mu      sync.RWMutex
	current *syncer.Session
}

// NewSessionState creates an empty (logged-out) state.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// Set replaces the active session.
func (s *SessionState) Set(session syncer.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session
}

// Clear logs the active session out.
func (s *SessionState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Get returns the active session, if any.
func (s *SessionState) Get() (syncer.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return syncer.Session{}, false
	}
	return *s.current, true
}

// SessionHandler handles login and logout.
type SessionHandler struct {
	store    *ledger.Store
	coord    *syncer.Coordinator
	sessions *SessionState
	log      zerolog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(store *ledger.Store, coord *syncer.Coordinator, sessions *SessionState, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{store: store, coord: coord, sessions: sessions, log: log}
}

// Login handles POST /api/session. The identity is opaque input from the
// auth collaborator; demo selects the sandboxed seed-data mode.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User domain.User `json:"user"`
		Demo bool        `json:"demo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Demo && req.User.ID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "User id is required outside demo mode")
		return
	}

	session := syncer.Session{User: req.User, Demo: req.Demo}
	snap, err := h.coord.Load(r.Context(), session)
	if err != nil {
		h.log.Error().Err(err).Bool("demo", req.Demo).Msg("Failed to load ledger")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to load ledger data")
		return
	}

	h.store.Hydrate(snap)
	h.sessions.Set(session)

	h.log.Info().Str("user_id", req.User.ID).Bool("demo", req.Demo).Msg("Session started")
	middleware.WriteJSON(w, http.StatusOK, snap)
}

// Logout handles DELETE /api/session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get()
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No active session")
		return
	}

	if err := h.coord.Logout(r.Context(), session); err != nil {
		h.log.Error().Err(err).Msg("Failed to clear demo cache entry")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	h.sessions.Clear()
	h.store.Hydrate(domain.EmptySnapshot())
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// AccountsHandler handles account CRUD. Deleting an account does not cascade
// to transactions referencing it; consumers render those as unknown.
type AccountsHandler struct {
	store    *ledger.Store
	coord    *syncer.Coordinator
	sessions *SessionState
	log      zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(store *ledger.Store, coord *syncer.Coordinator, sessions *SessionState, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{store: store, coord: coord, sessions: sessions, log: log}
}

type accountRequest struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Type    string  `json:"type"`
	Color   string  `json:"color"`
}

func validAccountType(t string) bool {
	switch domain.AccountType(t) {
	case domain.AccountSavings, domain.AccountChecking, domain.AccountCash,
		domain.AccountCredit, domain.AccountInvestment:
		return true
	}
	return false
}

// List handles GET /api/accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, h.store.Accounts())
}

// Create handles POST /api/accounts.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get()
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No active session")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Account name is required")
		return
	}
	if !validAccountType(req.Type) {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown account type")
		return
	}

	account := domain.Account{
		ID:      domain.NewAccountID(time.Now()),
		Name:    req.Name,
		Balance: req.Balance,
		Type:    domain.AccountType(req.Type),
		Color:   req.Color,
	}
	h.store.SetAccounts(append(h.store.Accounts(), account))
	h.coord.ScheduleSave(h.store.Snapshot(), session)

	middleware.WriteJSON(w, http.StatusCreated, account)
}

// Update handles PUT /api/accounts/{id}. The account is mutated in place.
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request, accountID string) {
	session, ok := h.sessions.Get()
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No active session")
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Account name is required")
		return
	}
	if !validAccountType(req.Type) {
		middleware.WriteError(w, http.StatusBadRequest, "Unknown account type")
		return
	}

	accounts := h.store.Accounts()
	var updated *domain.Account
	for i := range accounts {
		if accounts[i].ID == accountID {
			accounts[i].Name = req.Name
			accounts[i].Balance = req.Balance
			accounts[i].Type = domain.AccountType(req.Type)
			accounts[i].Color = req.Color
			updated = &accounts[i]
			break
		}
	}
	if updated == nil {
		middleware.WriteError(w, http.StatusNotFound, "Account not found")
		return
	}

	h.store.SetAccounts(accounts)
	h.coord.ScheduleSave(h.store.Snapshot(), session)
	middleware.WriteJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/accounts/{id}.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request, accountID string) {
	session, ok := h.sessions.Get()
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No active session")
		return
	}

	accounts := h.store.Accounts()
	kept := accounts[:0]
	for _, acc := range accounts {
		if acc.ID != accountID {
			kept = append(kept, acc)
		}
	}
	if len(kept) == len(accounts) {
		middleware.WriteError(w, http.StatusNotFound, "Account not found")
		return
	}

	h.store.SetAccounts(kept)
	h.coord.ScheduleSave(h.store.Snapshot(), session)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// TransactionsHandler handles transaction create/delete and filtered lists.
// There is no update route: an edit is a delete followed by a recreate.
type TransactionsHandler struct {
	store    *ledger.Store
	coord    *syncer.Coordinator
	sessions *SessionState
	log      zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store *ledger.Store, coord *syncer.Coordinator, sessions *SessionState, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{store: store, coord: coord, sessions: sessions, log: log}
}

// List handles GET /api/transactions with optional account_id and type
// query filters.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	accountID := query.Get("account_id")
	txType := query.Get("type")

	transactions := h.store.Transactions()
	filtered := transactions[:0]
	for _, tx := range transactions {
		if accountID != "" && tx.AccountID != accountID {
			continue
		}
		if txType != "" && string(tx.Type) != txType {
			continue
		}
		filtered = append(filtered, tx)
	}
	middleware.WriteJSON(w, http.StatusOK, filtered)
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get()
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No active session")
		return
	}

	var req struct {
		AccountID   string  `json:"accountId"`
		CategoryID  string  `json:"categoryId"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
		Type        string  `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AccountID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "accountId is required")
		return
	}
	if req.Amount <= 0 {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	polarity := domain.Polarity(req.Type)
	if polarity != domain.Income && polarity != domain.Expense {
		middleware.WriteError(w, http.StatusBadRequest, "type must be INCOME or EXPENSE")
		return
	}
	if req.Date == "" {
		req.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "date must be ISO formatted (YYYY-MM-DD)")
		return
	}

	tx := domain.Transaction{
		ID:          domain.NewTransactionID(time.Now()),
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
		Type:        polarity,
	}
	// Newest first, matching the feed ordering users see.
	h.store.SetTransactions(append([]domain.Transaction{tx}, h.store.Transactions()...))
	h.coord.ScheduleSave(h.store.Snapshot(), session)

	middleware.WriteJSON(w, http.StatusCreated, tx)
}

// Delete handles DELETE /api/transactions/{id}.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request, txID string) {
	session, ok := h.sessions.Get()
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "No active session")
		return
	}

	transactions := h.store.Transactions()
	kept := transactions[:0]
	for _, tx := range transactions {
		if tx.ID != txID {
			kept = append(kept, tx)
		}
	}
	if len(kept) == len(transactions) {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	h.store.SetTransactions(kept)
	h.coord.ScheduleSave(h.store.Snapshot(), session)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CategoriesHandler handles category reads.
type CategoriesHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(store *ledger.Store, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{store: store, log: log}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories := h.store.Categories()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// ReportsHandler serves the derived financial views. Everything is
// recomputed from the snapshot on each request.
type ReportsHandler struct {
	store *ledger.Store
	log   zerolog.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(store *ledger.Store, log zerolog.Logger) *ReportsHandler {
	return &ReportsHandler{store: store, log: log}
}

// Summary handles GET /api/summary: the dashboard aggregates.
func (h *ReportsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()
	now := time.Now()

	income, expense := report.MonthSummary(snap.Transactions, now)
	recent := report.Recent(snap.Transactions, report.RecentFeedSize)

	type feedEntry struct {
		domain.Transaction
		AccountName string `json:"accountName"`
	}
	feed := make([]feedEntry, 0, len(recent))
	for _, tx := range recent {
		feed = append(feed, feedEntry{
			Transaction: tx,
			AccountName: report.AccountName(snap.Accounts, tx.AccountID),
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalBalance": report.TotalBalance(snap.Accounts),
		"monthIncome":  income,
		"monthExpense": expense,
		"recent":       feed,
	})
}

// Breakdown handles GET /api/reports: the expense rollup and the monthly
// income/expense series for the requested (default: current) year.
func (h *ReportsHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = parsed
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenseByCategory": report.ExpenseByCategory(snap.Transactions, snap.Categories),
		"monthlySeries":     report.MonthlySeries(snap.Transactions, year),
		"year":              year,
	})
}

// AdviceHandler serves AI commentary over the current snapshot.
type AdviceHandler struct {
	store   *ledger.Store
	advisor advice.Advisor
	log     zerolog.Logger
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(store *ledger.Store, advisor advice.Advisor, log zerolog.Logger) *AdviceHandler {
	return &AdviceHandler{store: store, advisor: advisor, log: log}
}

// Get handles POST /api/advice. Advisor failures degrade to the fixed
// placeholder result; the response is always 200.
func (h *AdviceHandler) Get(w http.ResponseWriter, r *http.Request) {
	result := advice.GetStatus(r.Context(), h.advisor, h.store.Snapshot())
	if result.Status != "ok" {
		h.log.Warn().Str("message", result.Message).Msg("Advice degraded to placeholder")
	}
	middleware.WriteJSON(w, http.StatusOK, result)
}
