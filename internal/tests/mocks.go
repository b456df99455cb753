package tests

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"cabbook/internal/domain"
	"cabbook/internal/events"
	"cabbook/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository. It
// keeps a slice so insertion order is observable, matching the real stores.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings []*domain.Booking

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{}
}

// AddBooking seeds a booking without touching the call counters.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *booking
	m.bookings = append(m.bookings, &copy)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = strconv.Itoa(len(m.bookings) + 1)
	copy := *booking
	m.bookings = append(m.bookings, &copy)
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.ID == id {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) GetByUserID(ctx context.Context, userID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Booking
	for _, b := range m.bookings {
		if b.DriverID == driverID {
			copy := *b
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.ID == booking.ID {
			copy := *booking
			m.bookings[i] = &copy
			return nil
		}
	}
	return repository.ErrNotFound
}

// GetBooking returns a booking for test assertions.
func (m *MockBookingRepository) GetBooking(id string) *domain.Booking {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// CountBookings returns the collection size.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users []*domain.Principal

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// AddUser seeds a directory entry without touching the call counters.
func (m *MockUserRepository) AddUser(p *domain.Principal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *p
	m.users = append(m.users, &copy)
}

func (m *MockUserRepository) Create(ctx context.Context, p *domain.Principal) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = strconv.Itoa(len(m.users) + 1)
	copy := *p
	m.users = append(m.users, &copy)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.users {
		if p.ID == id {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.users {
		if p.Email == email {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.users {
		if p.Email == email && p.Role == role {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Principal, 0, len(m.users))
	for _, p := range m.users {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

// CountUsers returns the directory size.
func (m *MockUserRepository) CountUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is a mock implementation of service.SessionStore.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Principal

	// Counters for verification
	SaveCallCount   int32
	DeleteCallCount int32

	// Error injection
	SaveError error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*domain.Principal),
	}
}

func (m *MockSessionStore) SaveSession(ctx context.Context, p *domain.Principal) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *p
	m.sessions[p.ID] = &copy
	return nil
}

func (m *MockSessionStore) LoadSession(ctx context.Context, id string) (*domain.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copy := *p
	return &copy, nil
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Session returns a session snapshot for test assertions.
func (m *MockSessionStore) Session(id string) *domain.Principal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// ──────────────────────────────────────────────
// MOCK SNAPSHOTTER
// ──────────────────────────────────────────────

// MockSnapshotter is a mock implementation of memory.BookingSnapshotter
// backing the in-memory booking store with an in-process blob.
type MockSnapshotter struct {
	mu     sync.RWMutex
	stored []*domain.Booking

	// Counters for verification
	SaveCallCount int32
	LoadCallCount int32

	// Error injection
	SaveError error
	LoadError error
}

// NewMockSnapshotter creates an empty mock snapshotter.
func NewMockSnapshotter() *MockSnapshotter {
	return &MockSnapshotter{}
}

func (m *MockSnapshotter) SaveBookings(ctx context.Context, bookings []*domain.Booking) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = nil
	for _, b := range bookings {
		copy := *b
		m.stored = append(m.stored, &copy)
	}
	return nil
}

func (m *MockSnapshotter) LoadBookings(ctx context.Context) ([]*domain.Booking, error) {
	atomic.AddInt32(&m.LoadCallCount, 1)
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.stored == nil {
		return nil, nil
	}
	result := make([]*domain.Booking, 0, len(m.stored))
	for _, b := range m.stored {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

// SetStored seeds the snapshot blob directly.
func (m *MockSnapshotter) SetStored(bookings []*domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = nil
	for _, b := range bookings {
		copy := *b
		m.stored = append(m.stored, &copy)
	}
}

// StoredCount returns the size of the persisted blob.
func (m *MockSnapshotter) StoredCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stored)
}

// ──────────────────────────────────────────────
// MOCK EVENT PUBLISHER
// ──────────────────────────────────────────────

// MockPublisher is a mock implementation of events.Publisher recording
// every published event.
type MockPublisher struct {
	mu        sync.RWMutex
	published []events.BookingEvent

	// Error injection
	PublishError error
}

// NewMockPublisher creates a new mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

// Published returns the recorded events.
func (m *MockPublisher) Published() []events.BookingEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]events.BookingEvent, len(m.published))
	copy(result, m.published)
	return result
}

// ──────────────────────────────────────────────
// FIXED DISTANCE ESTIMATOR
// ──────────────────────────────────────────────

// FixedEstimator is a DistanceEstimator that always answers the same
// distance, making fares deterministic in tests.
type FixedEstimator struct {
	Distance float64
	Err      error
}

func (e FixedEstimator) Estimate(ctx context.Context, pickup, dropoff domain.Location) (float64, error) {
	if e.Err != nil {
		return 0, e.Err
	}
	return e.Distance, nil
}
