package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"storefront/internal/domain"
	"storefront/internal/mail"
	"storefront/internal/redis"
	"storefront/internal/repository"
	"storefront/internal/service"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository. Its
// conditional transitions are atomic under the mutex, like the single
// UPDATE ... WHERE status = 'PENDING' of the Postgres repository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount         int32
	ConfirmPendingCallCount int32
	CancelPendingCallCount  int32

	// Error injection
	CreateError         error
	GetError            error
	AttachSessionError  error
	ConfirmPendingError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; ok {
		return repository.ErrDuplicate
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *MockOrderRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) AttachSession(ctx context.Context, id, sessionID string) error {
	if m.AttachSessionError != nil {
		return m.AttachSessionError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.SessionID == sessionID {
			return repository.ErrDuplicate
		}
	}
	order, ok := m.orders[id]
	if !ok || order.Status != domain.OrderStatusPending || order.SessionID != "" {
		return repository.ErrNotFound
	}
	order.SessionID = sessionID
	return nil
}

func (m *MockOrderRepository) ConfirmPending(ctx context.Context, sessionID string) (*domain.Order, error) {
	atomic.AddInt32(&m.ConfirmPendingCallCount, 1)
	if m.ConfirmPendingError != nil {
		return nil, m.ConfirmPendingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.SessionID == sessionID && o.Status == domain.OrderStatusPending {
			o.Status = domain.OrderStatusConfirmed
			confirmed := *o
			return &confirmed, nil
		}
	}
	return nil, nil
}

func (m *MockOrderRepository) CancelPending(ctx context.Context, id string) (bool, error) {
	atomic.AddInt32(&m.CancelPendingCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok || order.Status != domain.OrderStatusPending {
		return false, nil
	}
	order.Status = domain.OrderStatusCancelled
	return true, nil
}

// GetOrder returns a copy of the stored order, or nil.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil
	}
	cp := *order
	return &cp
}

// CountOrders returns the number of stored orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK SETTINGS REPOSITORY
// ──────────────────────────────────────────────

// MockSettingsRepository is a mock implementation of SettingsRepository.
type MockSettingsRepository struct {
	mu      sync.RWMutex
	payment *domain.PaymentSettings
	email   *domain.EmailSettings

	// Counters for verification
	GetPaymentCallCount  int32
	GetEmailCallCount    int32
	CreateEmailCallCount int32

	// Error injection
	GetPaymentError  error
	GetEmailError    error
	CreateEmailError error
}

// NewMockSettingsRepository creates an empty mock settings repository.
func NewMockSettingsRepository() *MockSettingsRepository {
	return &MockSettingsRepository{}
}

// SetPaymentSettings stores payment settings directly.
func (m *MockSettingsRepository) SetPaymentSettings(settings *domain.PaymentSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payment = settings
}

// SetEmailSettings stores email settings directly.
func (m *MockSettingsRepository) SetEmailSettings(settings *domain.EmailSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.email = settings
}

func (m *MockSettingsRepository) GetPaymentSettings(ctx context.Context) (*domain.PaymentSettings, error) {
	atomic.AddInt32(&m.GetPaymentCallCount, 1)
	if m.GetPaymentError != nil {
		return nil, m.GetPaymentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.payment == nil {
		return nil, repository.ErrNotFound
	}
	cp := *m.payment
	return &cp, nil
}

func (m *MockSettingsRepository) CreatePaymentSettings(ctx context.Context, settings *domain.PaymentSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payment != nil {
		return repository.ErrDuplicate
	}
	cp := *settings
	m.payment = &cp
	return nil
}

func (m *MockSettingsRepository) GetEmailSettings(ctx context.Context) (*domain.EmailSettings, error) {
	atomic.AddInt32(&m.GetEmailCallCount, 1)
	if m.GetEmailError != nil {
		return nil, m.GetEmailError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.email == nil {
		return nil, repository.ErrNotFound
	}
	cp := *m.email
	return &cp, nil
}

func (m *MockSettingsRepository) CreateEmailSettings(ctx context.Context, settings *domain.EmailSettings) error {
	atomic.AddInt32(&m.CreateEmailCallCount, 1)
	if m.CreateEmailError != nil {
		return m.CreateEmailError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.email != nil {
		return repository.ErrDuplicate
	}
	cp := *settings
	m.email = &cp
	return nil
}

// StoredPaymentSettings returns the stored payment settings, or nil.
func (m *MockSettingsRepository) StoredPaymentSettings() *domain.PaymentSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payment
}

// StoredEmailSettings returns the stored email settings, or nil.
func (m *MockSettingsRepository) StoredEmailSettings() *domain.EmailSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.email
}

// ──────────────────────────────────────────────
// MOCK PRODUCT REPOSITORY
// ──────────────────────────────────────────────

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product

	GetByIDCallCount int32
}

// NewMockProductRepository creates a new mock product repository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]*domain.Product),
	}
}

// AddProduct adds a product to the mock repository.
func (m *MockProductRepository) AddProduct(product *domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.ID] = product
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *product
	return &cp, nil
}

func (m *MockProductRepository) GetActive(ctx context.Context) ([]*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Product
	for _, p := range m.products {
		if p.Active {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK ADMIN REPOSITORY
// ──────────────────────────────────────────────

// MockAdminRepository is a mock implementation of AdminRepository.
type MockAdminRepository struct {
	mu     sync.RWMutex
	admins []*domain.AdminUser

	CountError error
}

// NewMockAdminRepository creates a new mock admin repository.
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{}
}

func (m *MockAdminRepository) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.admins), nil
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == admin.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *admin
	m.admins = append(m.admins, &cp)
	return nil
}

// Admins returns the stored admin users.
func (m *MockAdminRepository) Admins() []*domain.AdminUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AdminUser(nil), m.admins...)
}

// ──────────────────────────────────────────────
// MOCK PRODUCT CACHE
// ──────────────────────────────────────────────

// MockProductCache is an in-memory ProductCacheInterface.
type MockProductCache struct {
	mu       sync.RWMutex
	products map[string]*redis.CachedProduct

	GetError error
}

// NewMockProductCache creates a new mock product cache.
func NewMockProductCache() *MockProductCache {
	return &MockProductCache{
		products: make(map[string]*redis.CachedProduct),
	}
}

func (m *MockProductCache) GetProduct(ctx context.Context, productID string) (*redis.CachedProduct, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *product
	return &cp, nil
}

func (m *MockProductCache) SetProduct(ctx context.Context, product *redis.CachedProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT PROCESSOR
// ──────────────────────────────────────────────

// MockProcessor is a mock PaymentProcessor that hands out sequential sessions.
type MockProcessor struct {
	mu       sync.Mutex
	requests []service.CheckoutSessionRequest

	SessionID string // Returned for every call when set
	Error     error
}

// NewMockProcessor creates a new mock processor.
func NewMockProcessor(sessionID string) *MockProcessor {
	return &MockProcessor{SessionID: sessionID}
}

func (m *MockProcessor) CreateCheckoutSession(ctx context.Context, req service.CheckoutSessionRequest) (*service.CheckoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.Error != nil {
		return nil, m.Error
	}
	return &service.CheckoutSession{
		ID:  m.SessionID,
		URL: "https://checkout.stripe.test/pay/" + m.SessionID,
	}, nil
}

// Requests returns the requests received so far.
func (m *MockProcessor) Requests() []service.CheckoutSessionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.CheckoutSessionRequest(nil), m.requests...)
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER / MAILER
// ──────────────────────────────────────────────

// MockNotifier records confirmed orders.
type MockNotifier struct {
	mu     sync.Mutex
	orders []*domain.Order

	CallCount int32
	Error     error
	Panic     bool
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyOrderConfirmed(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CallCount, 1)
	if m.Panic {
		panic("notifier exploded")
	}
	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()
	return m.Error
}

// Calls returns the number of notifications received.
func (m *MockNotifier) Calls() int {
	return int(atomic.LoadInt32(&m.CallCount))
}

// Orders returns the orders notified so far.
func (m *MockNotifier) Orders() []*domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Order(nil), m.orders...)
}

// MockMailer records sent messages.
type MockMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	settings []*domain.EmailSettings

	Error error
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, settings *domain.EmailSettings, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Error != nil {
		return m.Error
	}
	m.messages = append(m.messages, msg)
	m.settings = append(m.settings, settings)
	return nil
}

// Messages returns the messages sent so far.
func (m *MockMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

// ErrStorageDown simulates an unreachable database.
var ErrStorageDown = errors.New("connection refused")

// Ensure mocks implement the interfaces they stand in for.
var (
	_ repository.OrderRepository    = (*MockOrderRepository)(nil)
	_ repository.SettingsRepository = (*MockSettingsRepository)(nil)
	_ repository.ProductRepository  = (*MockProductRepository)(nil)
	_ repository.AdminRepository    = (*MockAdminRepository)(nil)
	_ redis.ProductCacheInterface   = (*MockProductCache)(nil)
	_ service.PaymentProcessor      = (*MockProcessor)(nil)
	_ service.OrderNotifier         = (*MockNotifier)(nil)
	_ service.Mailer                = (*MockMailer)(nil)
)
