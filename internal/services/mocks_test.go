package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cabinetrenov/renov-api/internal/models"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/pkg/mailer"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/cabinetrenov/renov-api/pkg/errors"
)

// MockNotifier is a mock implementation of services.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyQuoteRequest(ctx context.Context, q *models.QuoteRequest) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockNotifier) NotifyContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockCategoryStore is a mock implementation of repository.CategoryStore
type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Category), args.Int(1), args.Error(2)
}

func (m *MockCategoryStore) Roots(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryStore) Tree(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryStore) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryStore) HasChildren(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryStore) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryStore) Update(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCategoryStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// tickingClock returns strictly increasing times so deletion order is observable
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type memRow[T any] struct {
	value     T
	deletedAt *time.Time
	deletedBy *string
}

// memTable is an in-memory table with the soft-delete semantics of the SQL repositories
type memTable[T any] struct {
	mu       sync.Mutex
	kind     models.EntityKind
	resource string
	rows     map[int64]*memRow[T]
	nextID   int64
	titles   func(T) []*string
	clock    *tickingClock
}

func newMemTable[T any](kind models.EntityKind, resource string, clock *tickingClock, titles func(T) []*string) *memTable[T] {
	return &memTable[T]{
		kind:     kind,
		resource: resource,
		rows:     map[int64]*memRow[T]{},
		titles:   titles,
		clock:    clock,
	}
}

func (t *memTable[T]) insert(v T) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	t.rows[t.nextID] = &memRow[T]{value: v}
	return t.nextID
}

// insertWithID stores a row under a chosen id, used to build colliding ids across tables
func (t *memTable[T]) insertWithID(id int64, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = &memRow[T]{value: v}
	if id > t.nextID {
		t.nextID = id
	}
}

func (t *memTable[T]) active(id int64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || row.deletedAt != nil {
		var zero T
		return zero, false
	}
	return row.value, true
}

func (t *memTable[T]) activeIDs() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := []int64{}
	for id, row := range t.rows {
		if row.deletedAt == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func (t *memTable[T]) exists(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	return ok
}

func (t *memTable[T]) Kind() models.EntityKind {
	return t.kind
}

func (t *memTable[T]) SoftDelete(_ context.Context, id int64, deletedBy string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok || row.deletedAt != nil {
		return apperrors.NotFoundError(t.resource)
	}
	now := t.clock.Now()
	row.deletedAt = &now
	row.deletedBy = &deletedBy
	return nil
}

func (t *memTable[T]) ListTrashed(_ context.Context) ([]models.TrashEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries := []models.TrashEntry{}
	for id, row := range t.rows {
		if row.deletedAt == nil {
			continue
		}
		entries = append(entries, models.TrashEntry{
			ID:        id,
			Entity:    t.kind,
			Title:     models.TrashTitle(t.titles(row.value)...),
			DeletedBy: models.DeletedByOrFallback(row.deletedBy),
			DeletedAt: row.deletedAt,
		})
	}
	return entries, nil
}

func (t *memTable[T]) Restore(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return apperrors.NotFoundError(t.resource)
	}
	row.deletedAt = nil
	return nil
}

func (t *memTable[T]) Purge(_ context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return apperrors.NotFoundError(t.resource)
	}
	delete(t.rows, id)
	return nil
}

func (t *memTable[T]) PurgeTrashed(_ context.Context) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n int64
	for id, row := range t.rows {
		if row.deletedAt != nil {
			delete(t.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeFormationStore is an in-memory repository.FormationStore
type fakeFormationStore struct {
	*memTable[*models.Formation]
}

func newFakeFormationStore(clock *tickingClock) *fakeFormationStore {
	return &fakeFormationStore{newMemTable(models.EntityFormations, "formation", clock,
		func(f *models.Formation) []*string { return []*string{&f.Title, nil, nil} })}
}

func (s *fakeFormationStore) List(_ context.Context, _ models.FormationFilter) ([]*models.Formation, error) {
	out := []*models.Formation{}
	for _, id := range s.activeIDs() {
		f, _ := s.active(id)
		out = append(out, f)
	}
	return out, nil
}

func (s *fakeFormationStore) GetByID(_ context.Context, id int64) (*models.Formation, error) {
	f, ok := s.active(id)
	if !ok {
		return nil, apperrors.NotFoundError("formation")
	}
	return f, nil
}

func (s *fakeFormationStore) Create(_ context.Context, f *models.Formation) error {
	f.ID = s.insert(f)
	return nil
}

func (s *fakeFormationStore) Update(_ context.Context, f *models.Formation) error {
	if _, ok := s.active(f.ID); !ok {
		return apperrors.NotFoundError("formation")
	}
	return nil
}

// fakeQuoteStore is an in-memory repository.QuoteRequestStore
type fakeQuoteStore struct {
	*memTable[*models.QuoteRequest]
	updates int
}

func newFakeQuoteStore(clock *tickingClock) *fakeQuoteStore {
	return &fakeQuoteStore{memTable: newMemTable(models.EntityQuoteRequests, "quote request", clock,
		func(q *models.QuoteRequest) []*string { return []*string{nil, &q.Name, nil} })}
}

func (s *fakeQuoteStore) List(_ context.Context, filter models.QuoteRequestFilter, perPage int) ([]*models.QuoteRequest, int, error) {
	matched := []*models.QuoteRequest{}
	for _, id := range s.activeIDs() {
		q, _ := s.active(id)
		if filter.Status != "" && string(q.Status) != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(q.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, q)
	}

	offset := models.PageOffset(filter.Page, perPage)
	if offset >= len(matched) {
		return []*models.QuoteRequest{}, len(matched), nil
	}
	end := offset + perPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], len(matched), nil
}

func (s *fakeQuoteStore) GetByID(_ context.Context, id int64) (*models.QuoteRequest, error) {
	q, ok := s.active(id)
	if !ok {
		return nil, apperrors.NotFoundError("quote request")
	}
	copied := *q
	return &copied, nil
}

func (s *fakeQuoteStore) Create(_ context.Context, q *models.QuoteRequest) error {
	q.ID = s.insert(q)
	q.CreatedAt = s.clock.Now()
	q.UpdatedAt = q.CreatedAt
	return nil
}

func (s *fakeQuoteStore) Update(_ context.Context, q *models.QuoteRequest) error {
	if _, ok := s.active(q.ID); !ok {
		return apperrors.NotFoundError("quote request")
	}
	copied := *q
	s.insertWithID(q.ID, &copied)
	s.updates++
	return nil
}

// fakeContactStore is an in-memory repository.ContactMessageStore
type fakeContactStore struct {
	*memTable[*models.ContactMessage]
}

func newFakeContactStore(clock *tickingClock) *fakeContactStore {
	return &fakeContactStore{newMemTable(models.EntityContactMessages, "contact message", clock,
		func(m *models.ContactMessage) []*string { return []*string{nil, &m.Name, m.Subject} })}
}

func (s *fakeContactStore) List(_ context.Context, filter models.ContactMessageFilter, perPage int) ([]*models.ContactMessage, int, error) {
	out := []*models.ContactMessage{}
	for _, id := range s.activeIDs() {
		m, _ := s.active(id)
		if filter.Status != "" && string(m.Status) != filter.Status {
			continue
		}
		out = append(out, m)
	}
	return out, len(out), nil
}

func (s *fakeContactStore) GetByID(_ context.Context, id int64) (*models.ContactMessage, error) {
	m, ok := s.active(id)
	if !ok {
		return nil, apperrors.NotFoundError("contact message")
	}
	copied := *m
	return &copied, nil
}

func (s *fakeContactStore) Create(_ context.Context, m *models.ContactMessage) error {
	m.ID = s.insert(m)
	m.CreatedAt = s.clock.Now()
	return nil
}

func (s *fakeContactStore) Update(_ context.Context, m *models.ContactMessage) error {
	if _, ok := s.active(m.ID); !ok {
		return apperrors.NotFoundError("contact message")
	}
	copied := *m
	s.insertWithID(m.ID, &copied)
	return nil
}

// fakeNotificationStore is an in-memory repository.NotificationStore
type fakeNotificationStore struct {
	mu    sync.Mutex
	items []*models.Notification
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *n
	s.items = append(s.items, &copied)
	return nil
}

func matchesRecipient(n *models.Notification, recipientID *int64) bool {
	return recipientID == nil || (n.NotifiableType == models.NotifiableUser && n.NotifiableID == *recipientID)
}

func (s *fakeNotificationStore) List(_ context.Context, recipientID *int64, limit int) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Notification{}
	for i := len(s.items) - 1; i >= 0 && len(out) < limit; i-- {
		if matchesRecipient(s.items[i], recipientID) {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) Find(_ context.Context, id string, recipientID *int64) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id && matchesRecipient(n, recipientID) {
			return n, nil
		}
	}
	return nil, apperrors.NotFoundError("notification")
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id string, at time.Time) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id {
			if n.ReadAt == nil {
				n.ReadAt = &at
			}
			return n, nil
		}
	}
	return nil, apperrors.NotFoundError("notification")
}

func (s *fakeNotificationStore) CountUnread(_ context.Context, recipientID *int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if n.ReadAt == nil && matchesRecipient(n, recipientID) {
			count++
		}
	}
	return count, nil
}

func (s *fakeNotificationStore) all() []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Notification(nil), s.items...)
}

// fakeUserStore is an in-memory repository.UserStore
type fakeUserStore struct {
	users []*models.User
}

func (s *fakeUserStore) FirstAdmin(_ context.Context) (*models.User, error) {
	var first *models.User
	for _, u := range s.users {
		if u.IsAdmin && (first == nil || u.ID < first.ID) {
			first = u
		}
	}
	return first, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundError("user")
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFoundError("user")
}

func (s *fakeUserStore) UpsertAdmin(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	u := &models.User{ID: int64(len(s.users) + 1), Name: name, Email: email, PasswordHash: passwordHash, IsAdmin: true}
	s.users = append(s.users, u)
	return u, nil
}

// recordingQueue captures enqueued mails
type recordingQueue struct {
	mu   sync.Mutex
	sent []mailer.Message
	full bool
}

func (q *recordingQueue) Enqueue(msg mailer.Message) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.sent = append(q.sent, msg)
	return true
}

func (q *recordingQueue) messages() []mailer.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]mailer.Message(nil), q.sent...)
}

var (
	_ repository.FormationStore      = (*fakeFormationStore)(nil)
	_ repository.QuoteRequestStore   = (*fakeQuoteStore)(nil)
	_ repository.ContactMessageStore = (*fakeContactStore)(nil)
	_ repository.NotificationStore   = (*fakeNotificationStore)(nil)
	_ repository.UserStore           = (*fakeUserStore)(nil)
	_ repository.CategoryStore       = (*MockCategoryStore)(nil)
)
