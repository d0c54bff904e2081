package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
	"github.com/pdrm55/vesthub/internal/usecase"
)

// MockInvestmentRepository is a mock implementation of InvestmentRepository.
type MockInvestmentRepository struct {
	mu          sync.RWMutex
	investments map[string]*domain.Investment
	order       []string

	CreateFunc            func(ctx context.Context, investment *domain.Investment) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Investment, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investment, error)
	ListActiveIDsFunc     func(ctx context.Context) ([]string, error)
	ListByUserFunc        func(ctx context.Context, userID string, limit, offset int) ([]*domain.Investment, error)
	UpdateStatusFunc      func(ctx context.Context, tx usecase.Transaction, id string, status domain.InvestmentStatus, updatedAt time.Time) error
	SetPaymentTxIDFunc    func(ctx context.Context, tx usecase.Transaction, id, paymentTxID string, updatedAt time.Time) error
	SetStartDateFunc      func(ctx context.Context, tx usecase.Transaction, id string, start time.Time, updatedAt time.Time) error
	SetLastProfitDateFunc func(ctx context.Context, tx usecase.Transaction, id string, day time.Time, updatedAt time.Time) error
}

func NewMockInvestmentRepository() *MockInvestmentRepository {
	return &MockInvestmentRepository{
		investments: make(map[string]*domain.Investment),
	}
}

func (m *MockInvestmentRepository) Create(ctx context.Context, investment *domain.Investment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, investment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *investment
	m.investments[investment.ID] = &cp
	m.order = append(m.order, investment.ID)
	return nil
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Investment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.investments[id]
	if !ok {
		return nil, domain.ErrInvestmentNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *MockInvestmentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Investment, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockInvestmentRepository) ListActiveIDs(ctx context.Context) ([]string, error) {
	if m.ListActiveIDsFunc != nil {
		return m.ListActiveIDsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for _, id := range m.order {
		if m.investments[id].Status == domain.InvestmentActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MockInvestmentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Investment, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Investment
	for _, id := range m.order {
		if m.investments[id].UserID == userID {
			cp := *m.investments[id]
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockInvestmentRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InvestmentStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investments[id]
	if !ok {
		return domain.ErrInvestmentNotFound
	}
	inv.Status = status
	inv.UpdatedAt = updatedAt
	return nil
}

func (m *MockInvestmentRepository) SetPaymentTxID(ctx context.Context, tx usecase.Transaction, id, paymentTxID string, updatedAt time.Time) error {
	if m.SetPaymentTxIDFunc != nil {
		return m.SetPaymentTxIDFunc(ctx, tx, id, paymentTxID, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investments[id]
	if !ok {
		return domain.ErrInvestmentNotFound
	}
	inv.PaymentTxID = &paymentTxID
	inv.UpdatedAt = updatedAt
	return nil
}

func (m *MockInvestmentRepository) SetStartDate(ctx context.Context, tx usecase.Transaction, id string, start time.Time, updatedAt time.Time) error {
	if m.SetStartDateFunc != nil {
		return m.SetStartDateFunc(ctx, tx, id, start, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investments[id]
	if !ok {
		return domain.ErrInvestmentNotFound
	}
	inv.StartDate = start
	inv.UpdatedAt = updatedAt
	return nil
}

func (m *MockInvestmentRepository) SetLastProfitDate(ctx context.Context, tx usecase.Transaction, id string, day time.Time, updatedAt time.Time) error {
	if m.SetLastProfitDateFunc != nil {
		return m.SetLastProfitDateFunc(ctx, tx, id, day, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investments[id]
	if !ok {
		return domain.ErrInvestmentNotFound
	}
	d := day
	inv.LastProfitDate = &d
	inv.UpdatedAt = updatedAt
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
// By default it behaves as an in-memory ledger: created entries are stored and
// the sum and existence queries are computed over them.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction

	CreateFunc                 func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc                func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc       func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	ProfitExistsOnFunc         func(ctx context.Context, tx usecase.Transaction, investmentID string, day time.Time) (bool, error)
	SumCompletedEarningsFunc   func(ctx context.Context, userID string) (decimal.Decimal, error)
	SumCompletedEarningsTxFunc func(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error)
	SumHeldWithdrawalsFunc     func(ctx context.Context, userID string) (decimal.Decimal, error)
	SumHeldWithdrawalsTxFunc   func(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error)
	SetStatusFunc              func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, txHash *string) error
	ListByUserFunc             func(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error)
	ListByInvestmentFunc       func(ctx context.Context, investmentID string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *txn
	m.transactions = append(m.transactions, &cp)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.ID == id {
			cp := *txn
			return &cp, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) ProfitExistsOn(ctx context.Context, tx usecase.Transaction, investmentID string, day time.Time) (bool, error) {
	if m.ProfitExistsOnFunc != nil {
		return m.ProfitExistsOnFunc(ctx, tx, investmentID, day)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.Kind != domain.TxKindProfit || txn.InvestmentID == nil || *txn.InvestmentID != investmentID {
			continue
		}
		if domain.DateOf(txn.CreatedAt).Equal(domain.DateOf(day)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockTransactionRepository) SumCompletedEarnings(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.SumCompletedEarningsFunc != nil {
		return m.SumCompletedEarningsFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.UserID == userID && txn.IsEarning() && txn.Status == domain.TxStatusCompleted {
			sum = sum.Add(txn.Amount)
		}
	}
	return sum, nil
}

func (m *MockTransactionRepository) SumCompletedEarningsTx(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error) {
	if m.SumCompletedEarningsTxFunc != nil {
		return m.SumCompletedEarningsTxFunc(ctx, tx, userID)
	}
	return m.SumCompletedEarnings(ctx, userID)
}

func (m *MockTransactionRepository) SumHeldWithdrawals(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.SumHeldWithdrawalsFunc != nil {
		return m.SumHeldWithdrawalsFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.UserID == userID && txn.Kind == domain.TxKindWithdrawal &&
			(txn.Status == domain.TxStatusPending || txn.Status == domain.TxStatusCompleted) {
			sum = sum.Add(txn.Amount)
		}
	}
	return sum, nil
}

func (m *MockTransactionRepository) SumHeldWithdrawalsTx(ctx context.Context, tx usecase.Transaction, userID string) (decimal.Decimal, error) {
	if m.SumHeldWithdrawalsTxFunc != nil {
		return m.SumHeldWithdrawalsTxFunc(ctx, tx, userID)
	}
	return m.SumHeldWithdrawals(ctx, userID)
}

func (m *MockTransactionRepository) SetStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, txHash *string) error {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, tx, id, status, txHash)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.transactions {
		if txn.ID == id {
			txn.Status = status
			if txHash != nil {
				txn.TxHash = txHash
			}
			return nil
		}
	}
	return domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.UserID == userID {
			cp := *txn
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *MockTransactionRepository) ListByInvestment(ctx context.Context, investmentID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByInvestmentFunc != nil {
		return m.ListByInvestmentFunc(ctx, investmentID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.InvestmentID != nil && *txn.InvestmentID == investmentID {
			cp := *txn
			result = append(result, &cp)
		}
	}
	return result, nil
}

// All returns a snapshot of every stored entry, for assertions.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0, len(m.transactions))
	for _, txn := range m.transactions {
		cp := *txn
		result = append(result, &cp)
	}
	return result
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc           func(ctx context.Context, user *domain.User) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.User, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.User, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

// MockPlanRepository is a mock implementation of PlanRepository.
type MockPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*domain.Plan

	GetByIDFunc func(ctx context.Context, id string) (*domain.Plan, error)
	ListFunc    func(ctx context.Context) ([]*domain.Plan, error)
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{
		plans: make(map[string]*domain.Plan),
	}
}

// Add stores a plan for later lookups.
func (m *MockPlanRepository) Add(plan *domain.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.ID] = &cp
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	cp := *plan
	return &cp, nil
}

func (m *MockPlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Plan
	for _, plan := range m.plans {
		cp := *plan
		result = append(result, &cp)
	}
	return result, nil
}

// MockSettingRepository is a mock implementation of SettingRepository.
type MockSettingRepository struct {
	mu       sync.RWMutex
	settings map[string]string

	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key, value string) error
}

func NewMockSettingRepository() *MockSettingRepository {
	return &MockSettingRepository{
		settings: make(map[string]string),
	}
}

func (m *MockSettingRepository) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.settings[key]
	if !ok {
		return "", domain.ErrSettingNotFound
	}
	return value, nil
}

func (m *MockSettingRepository) Set(ctx context.Context, key, value string) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events = append(m.events, &cp)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.OutboxEvent
	for _, event := range m.events {
		if !event.Published {
			cp := *event
			result = append(result, &cp)
		}
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		if event.ID == id {
			event.Published = true
			at := publishedAt
			event.PublishedAt = &at
			return nil
		}
	}
	return nil
}

// Events returns a snapshot of every stored event, for assertions.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.OutboxEvent, 0, len(m.events))
	for _, event := range m.events {
		cp := *event
		result = append(result, &cp)
	}
	return result
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%06d", m.counter)
}

// MockRetrier is a Retrier that runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockClock is a Clock pinned to a fixed instant.
type MockClock struct {
	NowTime time.Time

	NowFunc func() time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{NowTime: now}
}

func (m *MockClock) Now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return m.NowTime
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		values: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("cache miss: %s", key)
	}
	return value, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// StaticRateSource is a ReferralRateSource pinned to a fixed percentage.
type StaticRateSource struct {
	Percent decimal.Decimal
	Err     error
}

func (s *StaticRateSource) ReferralPercentage(ctx context.Context) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	return s.Percent, nil
}
