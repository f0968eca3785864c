package http

import (
	"context"
	"errors"
	"sync"

	"campus-marketplace/internal/domain/item"
	"campus-marketplace/internal/domain/pickup"
	"campus-marketplace/internal/domain/saved"
	"campus-marketplace/internal/domain/search"
	"campus-marketplace/internal/domain/shared"
	"campus-marketplace/internal/ports/inbound"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unreachable")

type fakeVerifier struct {
	sessions map[string]*shared.Session
}

func (v *fakeVerifier) Parse(token string) (*shared.Session, error) {
	if sess, ok := v.sessions[token]; ok {
		return sess, nil
	}
	return nil, shared.ErrInvalidToken
}

type fakeCatalog struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*item.Item
	lastSpec search.Spec
	lastSess *shared.Session
	err      error
}

func newFakeCatalog(items ...*item.Item) *fakeCatalog {
	f := &fakeCatalog{items: make(map[uuid.UUID]*item.Item)}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeCatalog) all() []*item.Item {
	out := make([]*item.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, it)
	}
	return out
}

func (f *fakeCatalog) Search(ctx context.Context, sess *shared.Session, spec search.Spec) ([]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSpec = spec
	f.lastSess = sess
	if f.err != nil {
		return nil, f.err
	}
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec.Apply(f.all()), nil
}

func (f *fakeCatalog) GetItem(ctx context.Context, itemID uuid.UUID) (*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, shared.ErrItemNotFound
	}
	return it, nil
}

func (f *fakeCatalog) ListRecent(ctx context.Context, limit int) ([]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return search.Spec{}.Normalize().Apply(f.all()), nil
}

func (f *fakeCatalog) ListMine(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*item.Item{}
	for _, it := range f.items {
		if it.OwnedBy(sess.UserID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeCatalog) CreateListing(ctx context.Context, sess *shared.Session, req item.Listing) (*item.Item, error) {
	category, err := req.Validate()
	if err != nil {
		return nil, err
	}
	it := &item.Item{ID: uuid.New(), UserID: sess.UserID}
	req.Apply(it, category)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeCatalog) UpdateListing(ctx context.Context, sess *shared.Session, itemID uuid.UUID, req item.Listing) (*item.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return nil, shared.ErrItemNotFound
	}
	if !it.Editable(sess) {
		return nil, shared.ErrForbidden
	}
	category, err := req.Validate()
	if err != nil {
		return nil, err
	}
	req.Apply(it, category)
	return it, nil
}

func (f *fakeCatalog) DeleteListing(ctx context.Context, sess *shared.Session, itemID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[itemID]
	if !ok {
		return shared.ErrItemNotFound
	}
	if !it.Editable(sess) {
		return shared.ErrForbidden
	}
	delete(f.items, itemID)
	return nil
}

type fakeSaved struct {
	mu    sync.Mutex
	ids   map[uuid.UUID]map[uuid.UUID]bool
	items *fakeCatalog
}

func newFakeSaved(items *fakeCatalog) *fakeSaved {
	return &fakeSaved{ids: make(map[uuid.UUID]map[uuid.UUID]bool), items: items}
}

func (f *fakeSaved) Load(ctx context.Context, sess *shared.Session) (*saved.Set, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set := saved.NewSet()
	if !sess.Authenticated() {
		return set, nil
	}
	for id := range f.ids[sess.UserID] {
		set.Add(id)
	}
	return set, nil
}

func (f *fakeSaved) IsSaved(ctx context.Context, sess *shared.Session, itemID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ids[sess.UserID][itemID], nil
}

func (f *fakeSaved) Toggle(ctx context.Context, sess *shared.Session, set *saved.Set, itemID uuid.UUID) (bool, error) {
	if !sess.Authenticated() {
		return false, shared.ErrAuthRequired
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids[sess.UserID] == nil {
		f.ids[sess.UserID] = make(map[uuid.UUID]bool)
	}
	if set.Has(itemID) {
		delete(f.ids[sess.UserID], itemID)
		set.Remove(itemID)
		return false, nil
	}
	f.ids[sess.UserID][itemID] = true
	set.Add(itemID)
	return true, nil
}

func (f *fakeSaved) ListItems(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	f.mu.Lock()
	ids := f.ids[sess.UserID]
	f.mu.Unlock()

	out := []*item.Item{}
	for id := range ids {
		if it, err := f.items.GetItem(ctx, id); err == nil {
			out = append(out, it)
		}
	}
	return out, nil
}

type fakeRecommendations struct {
	items []*item.Item
}

func (f *fakeRecommendations) Recommend(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	if !sess.Authenticated() {
		return []*item.Item{}, nil
	}
	return f.items, nil
}

type fakeAdmin struct {
	items   []*item.Item
	users   []*shared.Profile
	deleted []uuid.UUID
}

func (f *fakeAdmin) authorize(sess *shared.Session) error {
	if !sess.Authenticated() {
		return shared.ErrAuthRequired
	}
	if !sess.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

func (f *fakeAdmin) ListItems(ctx context.Context, sess *shared.Session) ([]*item.Item, error) {
	if err := f.authorize(sess); err != nil {
		return nil, err
	}
	return f.items, nil
}

func (f *fakeAdmin) ListUsers(ctx context.Context, sess *shared.Session) ([]*shared.Profile, error) {
	if err := f.authorize(sess); err != nil {
		return nil, err
	}
	return f.users, nil
}

func (f *fakeAdmin) Stats(ctx context.Context, sess *shared.Session) (*shared.MarketplaceStats, error) {
	if err := f.authorize(sess); err != nil {
		return nil, err
	}
	return &shared.MarketplaceStats{ItemCount: len(f.items), UserCount: len(f.users), ByCategory: map[string]int{}}, nil
}

func (f *fakeAdmin) DeleteItem(ctx context.Context, sess *shared.Session, itemID uuid.UUID) error {
	if err := f.authorize(sess); err != nil {
		return err
	}
	f.deleted = append(f.deleted, itemID)
	return nil
}

type fakeProfiles struct {
	profiles map[uuid.UUID]*shared.Profile
}

func (f *fakeProfiles) GetProfile(ctx context.Context, sess *shared.Session) (*shared.Profile, error) {
	p, ok := f.profiles[sess.UserID]
	if !ok {
		p = &shared.Profile{ID: sess.UserID, DisplayName: "student"}
		f.profiles[sess.UserID] = p
	}
	return p, nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, sess *shared.Session, req inbound.UpdateProfileRequest) (*shared.Profile, error) {
	if req.DisplayName == "" {
		return nil, shared.ErrDisplayNameRequired
	}
	p, _ := f.GetProfile(ctx, sess)
	p.DisplayName = req.DisplayName
	p.Affiliation = req.Affiliation
	return p, nil
}

type fakePickups struct {
	points       []*pickup.Point
	lastLocation string
}

func (f *fakePickups) List(ctx context.Context, sess *shared.Session, itemLocation string) ([]*pickup.Point, error) {
	f.lastLocation = itemLocation
	return f.points, nil
}
