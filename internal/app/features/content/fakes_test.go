package content

import (
	"context"
	"encoding/json"
	"time"

	sluggedstore "github.com/dalemusser/cleansite/internal/app/store/slugged"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakePrimary is a PrimarySource with a canned answer.
type fakePrimary[T any] struct {
	rec   T
	err   error
	calls int
}

func (f *fakePrimary[T]) Fetch(context.Context) (T, error) {
	f.calls++
	return f.rec, f.err
}

// memStore is an in-memory FallbackSource.
type memStore[T any, PT models.Record[T]] struct {
	rec      T
	found    bool
	defaults func() T
	err      error

	creates    int
	replaces   int
	replaceErr error // ctx.Err() seen by the last Replace
}

func (m *memStore[T, PT]) Current(context.Context) (T, bool, error) {
	return m.rec, m.found, m.err
}

func (m *memStore[T, PT]) LoadOrCreate(ctx context.Context) (T, bool, error) {
	if m.err != nil || m.found {
		return m.rec, false, m.err
	}
	m.rec = m.Defaults()
	meta := PT(&m.rec).Meta()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = time.Now().UTC()
	meta.UpdatedAt = meta.CreatedAt
	m.found = true
	m.creates++
	return m.rec, true, nil
}

func (m *memStore[T, PT]) Defaults() T { return m.defaults() }

func (m *memStore[T, PT]) Replace(ctx context.Context, rec T) (T, error) {
	m.replaceErr = ctx.Err()
	if m.err != nil {
		return rec, m.err
	}
	meta := PT(&rec).Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	meta.UpdatedAt = time.Now().UTC()
	m.rec = rec
	m.found = true
	m.replaces++
	return rec, nil
}

// fakeCMS answers from raw JSON keyed by collection and slug.
type fakeCMS struct {
	enabled bool
	singles map[string]string
	pages   map[string]map[string]string
	lists   map[string]string
	err     error
}

func (f *fakeCMS) Enabled() bool { return f.enabled }

func (f *fakeCMS) Single(_ context.Context, apiID string, out any) error {
	if f.err != nil {
		return f.err
	}
	raw, ok := f.singles[apiID]
	if !ok {
		return cms.ErrNotFound
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeCMS) BySlug(_ context.Context, collection, slug string, out any) error {
	if f.err != nil {
		return f.err
	}
	raw, ok := f.pages[collection][slug]
	if !ok {
		return cms.ErrNotFound
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeCMS) List(_ context.Context, collection string, out any) error {
	if f.err != nil {
		return f.err
	}
	raw, ok := f.lists[collection]
	if !ok {
		return cms.ErrNotFound
	}
	return json.Unmarshal([]byte(raw), out)
}

// memPages is an in-memory SlugFallback.
type memPages[T any] struct {
	bySlug map[string]T
	order  []string
	err    error
}

func (m *memPages[T]) GetBySlug(_ context.Context, slug string) (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	rec, ok := m.bySlug[slug]
	if !ok {
		return zero, sluggedstore.ErrNotFound
	}
	return rec, nil
}

func (m *memPages[T]) List(context.Context) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]T, 0, len(m.order))
	for _, s := range m.order {
		out = append(out, m.bySlug[s])
	}
	return out, nil
}

func newHeroStore() *memStore[models.Hero, *models.Hero] {
	return &memStore[models.Hero, *models.Hero]{defaults: models.DefaultHero}
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }
