// Package content resolves the site's content sections.
//
// Every section is read CMS-first. Only an explicit "no entry" from the CMS
// (cms.ErrNotFound) sends a read to the local store; any other CMS failure
// is returned as-is so an outage is never masked by stale local content.
// Singleton sections materialize their defaults locally on first read and
// accept admin writes. Slug-keyed pages are owned by the CMS and reject
// every write.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/timeouts"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.uber.org/zap"
)

// Provenance values reported in the response envelope's source field.
const (
	SourceCMS   = "strapi"
	SourceStore = "mongodb"
)

// PrimarySource is the preferred origin of a section. Fetch reports
// cms.ErrNotFound when it has no entry.
type PrimarySource[T any] interface {
	Fetch(ctx context.Context) (T, error)
}

// CMSSingle reads a CMS single type as a PrimarySource.
type CMSSingle[T any] struct {
	Source cms.Source
	APIID  string
}

// Fetch implements PrimarySource.
func (p CMSSingle[T]) Fetch(ctx context.Context) (T, error) {
	var rec T
	if p.Source == nil || !p.Source.Enabled() {
		return rec, cms.ErrNotFound
	}
	err := p.Source.Single(ctx, p.APIID, &rec)
	return rec, err
}

// FallbackSource is the local singleton store. *contentstore.Store satisfies it.
type FallbackSource[T any] interface {
	Current(ctx context.Context) (T, bool, error)
	LoadOrCreate(ctx context.Context) (T, bool, error)
	Defaults() T
	Replace(ctx context.Context, rec T) (T, error)
}

// Descriptor names a section and how its records are finished for output.
type Descriptor[T any] struct {
	Key      string  // type key, e.g. "hero"
	Decorate func(*T) // optional; runs on every record returned
}

// Result is a resolved record and the source that answered.
type Result[T any] struct {
	Data   T
	Source string
}

// Resolver serves one singleton section.
type Resolver[T any, PT models.Record[T]] struct {
	desc     Descriptor[T]
	primary  PrimarySource[T]
	fallback FallbackSource[T]
	logger   *zap.Logger
}

// NewResolver composes a resolver from its two sources.
func NewResolver[T any, PT models.Record[T]](desc Descriptor[T], primary PrimarySource[T], fallback FallbackSource[T], logger *zap.Logger) *Resolver[T, PT] {
	return &Resolver[T, PT]{desc: desc, primary: primary, fallback: fallback, logger: logger}
}

// Key returns the section's type key.
func (r *Resolver[T, PT]) Key() string { return r.desc.Key }

// Read returns the section from the CMS when it has one, otherwise the local
// record, which is created from the defaults if none exists yet.
func (r *Resolver[T, PT]) Read(ctx context.Context) (Result[T], error) {
	rec, err := r.primary.Fetch(ctx)
	switch {
	case err == nil:
		r.decorate(&rec)
		return Result[T]{Data: rec, Source: SourceCMS}, nil
	case !errors.Is(err, cms.ErrNotFound):
		return Result[T]{}, fmt.Errorf("%s: cms read: %w", r.desc.Key, err)
	}

	sctx, cancel := timeouts.Detached(ctx, timeouts.Read(), r.logger, r.desc.Key+" read")
	defer cancel()

	rec, created, err := r.fallback.LoadOrCreate(sctx)
	if err != nil {
		return Result[T]{}, fmt.Errorf("%s: store read: %w", r.desc.Key, err)
	}
	if created {
		r.logger.Info("materialized default content", zap.String("type", r.desc.Key))
	}
	r.decorate(&rec)
	return Result[T]{Data: rec, Source: SourceStore}, nil
}

// Write overlays body on the live local record and stores the result.
// Only admins may write. Each top-level field in body replaces the stored
// field whole; fields body leaves out keep their stored value. Identity and
// version keys in body are ignored, and the record keeps its ID and creation
// time.
func (r *Resolver[T, PT]) Write(ctx context.Context, user *auth.SessionUser, body map[string]json.RawMessage) (T, error) {
	var zero T
	if !user.IsAdmin() {
		return zero, ErrUnauthorized
	}

	patch := StripManaged(body)

	sctx, cancel := timeouts.Detached(ctx, timeouts.Write(), r.logger, r.desc.Key+" write")
	defer cancel()

	rec, found, err := r.fallback.Current(sctx)
	if err != nil {
		return zero, fmt.Errorf("%s: store read: %w", r.desc.Key, err)
	}
	if !found {
		rec = r.fallback.Defaults()
	}

	meta := *PT(&rec).Meta()
	rec, err = overlay(rec, patch)
	if err != nil {
		return zero, fmt.Errorf("%s: decode body: %w", r.desc.Key, err)
	}
	*PT(&rec).Meta() = meta

	saved, err := r.fallback.Replace(sctx, rec)
	if err != nil {
		return zero, fmt.Errorf("%s: store write: %w", r.desc.Key, err)
	}
	r.logger.Info("content updated",
		zap.String("type", r.desc.Key),
		zap.String("user_id", user.ID),
		zap.Bool("created", !found))

	r.decorate(&saved)
	return saved, nil
}

// overlay replaces the top-level JSON fields of rec named in patch and
// decodes the result into a fresh T, so no list or object in rec is merged
// element by element with its replacement. Field names match the way
// encoding/json matches them, case-insensitively.
func overlay[T any](rec T, patch map[string]json.RawMessage) (T, error) {
	var zero T
	raw, err := json.Marshal(rec)
	if err != nil {
		return zero, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, err
	}
	for k, v := range patch {
		for existing := range fields {
			if strings.EqualFold(existing, k) {
				delete(fields, existing)
			}
		}
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}

func (r *Resolver[T, PT]) decorate(rec *T) {
	if r.desc.Decorate != nil {
		r.desc.Decorate(rec)
	}
}

// StripManaged returns body without the keys the store owns. body is not modified.
func StripManaged(body map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(body))
	for k, v := range body {
		out[k] = v
	}
	for _, k := range models.ServerManagedKeys {
		delete(out, k)
	}
	return out
}
