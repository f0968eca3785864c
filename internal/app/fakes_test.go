package app

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"campus-marketplace/internal/domain/history"
	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/recommend"
	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/outbound"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

type memItems struct {
	mu          sync.Mutex
	items       map[uuid.UUID]*item.Item
	searchCalls int
	lastPlan    *recommend.Plan
	failSearch  error
	failDelete  error
}

func newMemItems(items ...*item.Item) *memItems {
	m := &memItems{items: make(map[uuid.UUID]*item.Item)}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *memItems) newestFirst() []*item.Item {
	out := make([]*item.Item, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memItems) Create(ctx context.Context, it *item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[it.ID] = it
	return nil
}

func (m *memItems) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, shared.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *memItems) Update(ctx context.Context, it *item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[it.ID]; !ok {
		return shared.ErrItemNotFound
	}
	m.items[it.ID] = it
	return nil
}

func (m *memItems) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	if _, ok := m.items[id]; !ok {
		return shared.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memItems) Search(ctx context.Context, spec search.Spec) ([]*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	if m.failSearch != nil {
		return nil, m.failSearch
	}
	return spec.Apply(m.newestFirst()), nil
}

func (m *memItems) Recommend(ctx context.Context, plan recommend.Plan) ([]*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := plan
	m.lastPlan = &p

	var out []*item.Item
	for _, it := range m.newestFirst() {
		if plan.Unfiltered() || planMatches(plan, it) {
			out = append(out, it)
		}
		if len(out) == plan.Limit {
			break
		}
	}
	return out, nil
}

func planMatches(plan recommend.Plan, it *item.Item) bool {
	title, category := strings.ToLower(it.Title), strings.ToLower(string(it.Category))
	for _, kw := range plan.Keywords {
		if strings.Contains(title, kw) || strings.Contains(category, kw) {
			return true
		}
	}
	return plan.Affiliation != "" && strings.Contains(strings.ToLower(it.Location), strings.ToLower(plan.Affiliation))
}

func (m *memItems) ListRecent(ctx context.Context, limit int) ([]*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.newestFirst()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memItems) ListAll(ctx context.Context) ([]*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.newestFirst(), nil
}

func (m *memItems) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*item.Item
	for _, it := range m.newestFirst() {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memItems) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*item.Item
	for _, it := range m.newestFirst() {
		if want[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

type savedKey struct{ user, item uuid.UUID }

type memSaved struct {
	mu         sync.Mutex
	rows       map[savedKey]time.Time
	failDelete error
	failInsert error
}

func newMemSaved() *memSaved {
	return &memSaved{rows: make(map[savedKey]time.Time)}
}

func (m *memSaved) ListItemIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uuid.UUID
	for k := range m.rows {
		if k.user == userID {
			out = append(out, k.item)
		}
	}
	return out, nil
}

func (m *memSaved) Exists(ctx context.Context, userID, itemID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[savedKey{userID, itemID}]
	return ok, nil
}

func (m *memSaved) Insert(ctx context.Context, s *saved.SavedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	m.rows[savedKey{s.UserID, s.ItemID}] = s.CreatedAt
	return nil
}

func (m *memSaved) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, savedKey{userID, itemID})
	return nil
}

func (m *memSaved) DeleteByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return 0, m.failDelete
	}
	var n int64
	for k := range m.rows {
		if k.item == itemID {
			delete(m.rows, k)
			n++
		}
	}
	return n, nil
}

func (m *memSaved) countForItem(itemID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.rows {
		if k.item == itemID {
			n++
		}
	}
	return n
}

type memProfiles struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*shared.Profile
	failGet  error
}

func newMemProfiles(profiles ...*shared.Profile) *memProfiles {
	m := &memProfiles{profiles: make(map[uuid.UUID]*shared.Profile)}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *memProfiles) GetByID(ctx context.Context, id uuid.UUID) (*shared.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, shared.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfiles) Create(ctx context.Context, p *shared.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; !ok {
		m.profiles[p.ID] = p
	}
	return nil
}

func (m *memProfiles) Update(ctx context.Context, p *shared.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = p
	return nil
}

func (m *memProfiles) List(ctx context.Context) ([]*shared.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*shared.Profile
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProfiles) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles), nil
}

type memHistory struct {
	mu      sync.Mutex
	entries []*history.Entry
	fail    error
}

func (m *memHistory) Append(ctx context.Context, e *history.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistory) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*history.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []*history.Entry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type memPickups struct {
	points    []*pickup.Point
	lastQuery pickup.Query
	calls     int
}

func (m *memPickups) List(ctx context.Context, q pickup.Query, limit int) ([]*pickup.Point, error) {
	m.lastQuery = q
	m.calls++
	if len(m.points) > limit {
		return m.points[:limit], nil
	}
	return m.points, nil
}

// syncRecorder appends synchronously so tests can count entries directly
type syncRecorder struct {
	repo *memHistory
}

func (r *syncRecorder) Record(sess *shared.Session, query string) {
	q := history.Normalize(query)
	if !sess.Authenticated() || q == "" {
		return
	}
	_ = r.repo.Append(context.Background(), history.NewEntry(sess.UserID, q, time.Now()))
}

type memBroadcaster struct {
	mu     sync.Mutex
	events []outbound.Event
}

func (b *memBroadcaster) Subscribe(ctx context.Context, topic outbound.Topic, clientID string, ch chan outbound.Event) error {
	return nil
}

func (b *memBroadcaster) Unsubscribe(ctx context.Context, topic outbound.Topic, clientID string) error {
	return nil
}

func (b *memBroadcaster) Publish(ctx context.Context, topic outbound.Topic, event outbound.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *memBroadcaster) IsSubscribed(ctx context.Context, topic outbound.Topic, clientID string) bool {
	return false
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func newItem(title string, p float64, c item.Category, location string, owner uuid.UUID, created time.Time) *item.Item {
	return &item.Item{
		ID:          uuid.New(),
		Title:       title,
		Price:       p,
		Category:    c,
		Description: title,
		Location:    location,
		UserID:      owner,
		CreatedAt:   created,
	}
}
