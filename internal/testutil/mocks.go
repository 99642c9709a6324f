package testutil

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/financehub/financehub-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockLedger is an in-memory implementation of domain.LedgerStore and
// domain.LedgerTx. Atomic snapshots the state before running fn and restores
// it on error, so rollback behavior can be asserted in tests.
type MockLedger struct {
	Profiles     map[uuid.UUID]*domain.Profile
	Budgets      map[int32]*domain.Budget
	Transactions map[int32]*domain.Transaction
	Savings      map[int32]*domain.Savings
	Categories   map[int32]*domain.Category

	nextBudgetID      int32
	nextTransactionID int32
	nextSavingsID     int32
	nextCategoryID    int32

	// Fault injection: when set, the corresponding method fails.
	InsertBudgetErr      error
	InsertTransactionErr error
	InsertSavingsErr     error
}

// NewMockLedger creates a new MockLedger
func NewMockLedger() *MockLedger {
	return &MockLedger{
		Profiles:     make(map[uuid.UUID]*domain.Profile),
		Budgets:      make(map[int32]*domain.Budget),
		Transactions: make(map[int32]*domain.Transaction),
		Savings:      make(map[int32]*domain.Savings),
		Categories:   make(map[int32]*domain.Category),
	}
}

// AddProfile seeds a profile
func (m *MockLedger) AddProfile(p *domain.Profile) {
	m.Profiles[p.UserID] = p
}

// AddBudget seeds a budget
func (m *MockLedger) AddBudget(b *domain.Budget) {
	if b.ID == 0 {
		m.nextBudgetID++
		b.ID = m.nextBudgetID
	} else if b.ID > m.nextBudgetID {
		m.nextBudgetID = b.ID
	}
	m.Budgets[b.ID] = b
}

// AddCategory seeds a category
func (m *MockLedger) AddCategory(c *domain.Category) {
	if c.ID == 0 {
		m.nextCategoryID++
		c.ID = m.nextCategoryID
	} else if c.ID > m.nextCategoryID {
		m.nextCategoryID = c.ID
	}
	m.Categories[c.ID] = c
}

type ledgerSnapshot struct {
	profiles     map[uuid.UUID]*domain.Profile
	budgets      map[int32]*domain.Budget
	transactions map[int32]*domain.Transaction
	savings      map[int32]*domain.Savings
	categories   map[int32]*domain.Category

	nextBudgetID      int32
	nextTransactionID int32
	nextSavingsID     int32
	nextCategoryID    int32
}

func (m *MockLedger) snapshot() *ledgerSnapshot {
	s := &ledgerSnapshot{
		profiles:          make(map[uuid.UUID]*domain.Profile, len(m.Profiles)),
		budgets:           make(map[int32]*domain.Budget, len(m.Budgets)),
		transactions:      make(map[int32]*domain.Transaction, len(m.Transactions)),
		savings:           make(map[int32]*domain.Savings, len(m.Savings)),
		categories:        make(map[int32]*domain.Category, len(m.Categories)),
		nextBudgetID:      m.nextBudgetID,
		nextTransactionID: m.nextTransactionID,
		nextSavingsID:     m.nextSavingsID,
		nextCategoryID:    m.nextCategoryID,
	}
	for k, v := range m.Profiles {
		cp := *v
		s.profiles[k] = &cp
	}
	for k, v := range m.Budgets {
		cp := *v
		s.budgets[k] = &cp
	}
	for k, v := range m.Transactions {
		cp := *v
		s.transactions[k] = &cp
	}
	for k, v := range m.Savings {
		cp := *v
		s.savings[k] = &cp
	}
	for k, v := range m.Categories {
		cp := *v
		s.categories[k] = &cp
	}
	return s
}

func (m *MockLedger) restore(s *ledgerSnapshot) {
	m.Profiles = s.profiles
	m.Budgets = s.budgets
	m.Transactions = s.transactions
	m.Savings = s.savings
	m.Categories = s.categories
	m.nextBudgetID = s.nextBudgetID
	m.nextTransactionID = s.nextTransactionID
	m.nextSavingsID = s.nextSavingsID
	m.nextCategoryID = s.nextCategoryID
}

// Atomic implements domain.LedgerStore
func (m *MockLedger) Atomic(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// ProfileForUpdate implements domain.LedgerTx
func (m *MockLedger) ProfileForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, ok := m.Profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

// ActiveBudgetTotal implements domain.LedgerTx
func (m *MockLedger) ActiveBudgetTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, b := range m.Budgets {
		if b.UserID == userID && b.IsActive {
			total = total.Add(b.Amount)
		}
	}
	return total, nil
}

// SetMoneyOnHand implements domain.LedgerTx
func (m *MockLedger) SetMoneyOnHand(ctx context.Context, userID uuid.UUID, balance decimal.Decimal) error {
	p, ok := m.Profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.MoneyOnHand = balance
	p.UpdatedAt = time.Now()
	return nil
}

// InsertTransaction implements domain.LedgerTx
func (m *MockLedger) InsertTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	if m.InsertTransactionErr != nil {
		return nil, m.InsertTransactionErr
	}
	m.nextTransactionID++
	created := *t
	created.ID = m.nextTransactionID
	created.CreatedAt = time.Now()
	m.Transactions[created.ID] = &created
	return &created, nil
}

// InsertBudget implements domain.LedgerTx
func (m *MockLedger) InsertBudget(ctx context.Context, b *domain.Budget) (*domain.Budget, error) {
	if m.InsertBudgetErr != nil {
		return nil, m.InsertBudgetErr
	}
	m.nextBudgetID++
	created := *b
	created.ID = m.nextBudgetID
	created.CreatedAt = time.Now()
	m.Budgets[created.ID] = &created
	return &created, nil
}

// BudgetForUpdate implements domain.LedgerTx
func (m *MockLedger) BudgetForUpdate(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

// UpdateBudgetAmount implements domain.LedgerTx
func (m *MockLedger) UpdateBudgetAmount(ctx context.Context, userID uuid.UUID, id int32, amount decimal.Decimal) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	b.Amount = amount
	return b, nil
}

// DeactivateBudget implements domain.LedgerTx
func (m *MockLedger) DeactivateBudget(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	b.IsActive = false
	return b, nil
}

// InsertSavings implements domain.LedgerTx
func (m *MockLedger) InsertSavings(ctx context.Context, s *domain.Savings) (*domain.Savings, error) {
	if m.InsertSavingsErr != nil {
		return nil, m.InsertSavingsErr
	}
	m.nextSavingsID++
	created := *s
	created.ID = m.nextSavingsID
	created.CreatedAt = time.Now()
	m.Savings[created.ID] = &created
	return &created, nil
}

// GetOrCreateCategory implements domain.LedgerTx
func (m *MockLedger) GetOrCreateCategory(ctx context.Context, userID uuid.UUID, categoryType domain.CategoryType, name string) (*domain.Category, error) {
	for _, c := range m.Categories {
		if c.UserID == userID && c.Type == categoryType {
			return c, nil
		}
	}
	m.nextCategoryID++
	c := &domain.Category{
		ID:        m.nextCategoryID,
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		CreatedAt: time.Now(),
	}
	m.Categories[c.ID] = c
	return c, nil
}

// TransactionsForUser returns the stored transactions for a user, oldest first.
func (m *MockLedger) TransactionsForUser(userID uuid.UUID) []*domain.Transaction {
	var out []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SavingsForUser returns the stored savings entries for a user.
func (m *MockLedger) SavingsForUser(userID uuid.UUID) []*domain.Savings {
	var out []*domain.Savings
	for _, s := range m.Savings {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByUsername map[string]*domain.User
	ByEmail    map[string]*domain.User
	Ledger     *MockLedger
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository(ledger *MockLedger) *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByUsername: make(map[string]*domain.User),
		ByEmail:    make(map[string]*domain.User),
		Ledger:     ledger,
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := m.ByID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, ok := m.ByUsername[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := m.ByEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateWithProfile creates a user together with their profile and categories
func (m *MockUserRepository) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile, categories []*domain.Category) (*domain.User, error) {
	if _, ok := m.ByUsername[user.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	m.ByID[user.ID] = user
	m.ByUsername[user.Username] = user
	m.ByEmail[user.Email] = user

	if m.Ledger != nil {
		profile.UserID = user.ID
		m.Ledger.AddProfile(profile)
		for _, c := range categories {
			c.UserID = user.ID
			m.Ledger.AddCategory(c)
		}
	}
	return user, nil
}

// MockProfileRepository is a mock implementation of domain.ProfileRepository,
// reading from a shared MockLedger so service tests see engine writes.
type MockProfileRepository struct {
	Ledger *MockLedger
}

// NewMockProfileRepository creates a new MockProfileRepository
func NewMockProfileRepository(ledger *MockLedger) *MockProfileRepository {
	return &MockProfileRepository{Ledger: ledger}
}

// GetByUserID retrieves a profile by user ID
func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	p, ok := m.Ledger.Profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

// UpdateMonthlyIncome updates the informational monthly income figure
func (m *MockProfileRepository) UpdateMonthlyIncome(ctx context.Context, userID uuid.UUID, income decimal.Decimal) (*domain.Profile, error) {
	p, ok := m.Ledger.Profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	p.MonthlyIncome = income
	p.UpdatedAt = time.Now()
	return p, nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Ledger *MockLedger
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository(ledger *MockLedger) *MockCategoryRepository {
	return &MockCategoryRepository{Ledger: ledger}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	for _, c := range m.Ledger.Categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrCategoryExists
		}
	}
	category.CreatedAt = time.Now()
	m.Ledger.AddCategory(category)
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	c, ok := m.Ledger.Categories[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

// GetByType retrieves the first category with the given type
func (m *MockCategoryRepository) GetByType(ctx context.Context, userID uuid.UUID, categoryType domain.CategoryType) (*domain.Category, error) {
	for _, c := range m.Ledger.Categories {
		if c.UserID == userID && c.Type == categoryType {
			return c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByUser retrieves all categories for a user
func (m *MockCategoryRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range m.Ledger.Categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Ledger *MockLedger
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository(ledger *MockLedger) *MockBudgetRepository {
	return &MockBudgetRepository{Ledger: ledger}
}

// GetByID retrieves a budget by ID
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	b, ok := m.Ledger.Budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return b, nil
}

// GetAllByUser retrieves budgets for a user
func (m *MockBudgetRepository) GetAllByUser(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]*domain.Budget, error) {
	var out []*domain.Budget
	for _, b := range m.Ledger.Budgets {
		if b.UserID == userID && (!activeOnly || b.IsActive) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ActiveTotal sums active budget amounts for a user
func (m *MockBudgetRepository) ActiveTotal(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return m.Ledger.ActiveBudgetTotal(ctx, userID)
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Ledger *MockLedger
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository(ledger *MockLedger) *MockTransactionRepository {
	return &MockTransactionRepository{Ledger: ledger}
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	t, ok := m.Ledger.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

// GetByUser retrieves transactions with filters and pagination
func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	all := m.Ledger.TransactionsForUser(userID)

	var filtered []*domain.Transaction
	for _, t := range all {
		if filters != nil {
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filters.CategoryID) {
				continue
			}
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
		}
		filtered = append(filtered, t)
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > int32(len(filtered)) {
		start = int32(len(filtered))
	}
	if end > int32(len(filtered)) {
		end = int32(len(filtered))
	}

	return &domain.PaginatedTransactions{
		Data:       filtered[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: int64(len(filtered)),
		TotalPages: int32(math.Ceil(float64(len(filtered)) / float64(pageSize))),
	}, nil
}

// SetReceiptKey attaches or clears a receipt object key
func (m *MockTransactionRepository) SetReceiptKey(ctx context.Context, userID uuid.UUID, id int32, key *string) (*domain.Transaction, error) {
	t, ok := m.Ledger.Transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	t.ReceiptKey = key
	return t, nil
}

// MockSavingsRepository is a mock implementation of domain.SavingsRepository
type MockSavingsRepository struct {
	Ledger *MockLedger
}

// NewMockSavingsRepository creates a new MockSavingsRepository
func NewMockSavingsRepository(ledger *MockLedger) *MockSavingsRepository {
	return &MockSavingsRepository{Ledger: ledger}
}

// GetAllByUser retrieves savings entries for a user
func (m *MockSavingsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Savings, error) {
	return m.Ledger.SavingsForUser(userID), nil
}

// MockAPITokenRepository is a mock implementation of domain.APITokenRepository
type MockAPITokenRepository struct {
	Tokens map[uuid.UUID]*domain.APIToken
}

// NewMockAPITokenRepository creates a new MockAPITokenRepository
func NewMockAPITokenRepository() *MockAPITokenRepository {
	return &MockAPITokenRepository{Tokens: make(map[uuid.UUID]*domain.APIToken)}
}

// Create stores a new token
func (m *MockAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	m.Tokens[token.ID] = token
	return nil
}

// GetByUser returns the user's active tokens
func (m *MockAPITokenRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*domain.APIToken, error) {
	var out []*domain.APIToken
	for _, t := range m.Tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetByHash looks up an active token by hash
func (m *MockAPITokenRepository) GetByHash(ctx context.Context, hash string) (*domain.APIToken, error) {
	for _, t := range m.Tokens {
		if t.TokenHash == hash && t.RevokedAt == nil {
			return t, nil
		}
	}
	return nil, domain.ErrAPITokenNotFound
}

// Revoke marks a token revoked
func (m *MockAPITokenRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	t, ok := m.Tokens[id]
	if !ok || t.UserID != userID {
		return domain.ErrAPITokenNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

// UpdateLastUsed records token usage
func (m *MockAPITokenRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	t, ok := m.Tokens[id]
	if !ok {
		return domain.ErrAPITokenNotFound
	}
	now := time.Now()
	t.LastUsedAt = &now
	return nil
}
