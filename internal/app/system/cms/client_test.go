package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/cleansite/internal/app/system/draftmode"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, Token: "tok"}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestSingle_V4Attributes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/hero", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "*", r.URL.Query().Get("populate"))
		assert.Empty(t, r.URL.Query().Get("publicationState"))
		w.Write([]byte(`{"data":{"id":7,"attributes":{"title":"Hello <blue>World</blue>","subtitle":"Sub","badges":["a","b"],"primaryCta":{"label":"Go","href":"/go"}}},"meta":{}}`))
	})

	var hero models.Hero
	require.NoError(t, c.Single(context.Background(), "hero", &hero))
	assert.Equal(t, "Hello <blue>World</blue>", hero.Title)
	assert.Equal(t, "Sub", hero.Subtitle)
	assert.Equal(t, []string{"a", "b"}, hero.Badges)
	assert.Equal(t, "/go", hero.PrimaryCTA.Href)
	assert.True(t, hero.ID.IsZero(), "CMS numeric id must not leak into the local ObjectID")
}

func TestSingle_V5Flat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":3,"documentId":"abc123","heading":"Ready?","body":"Call now"}}`))
	})

	var cta models.CTA
	require.NoError(t, c.Single(context.Background(), "cta", &cta))
	assert.Equal(t, "Ready?", cta.Heading)
	assert.Equal(t, "Call now", cta.Body)
}

func TestSingle_NotFoundShapes(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"data":null,"error":{"status":404,"name":"NotFoundError"}}`))
		},
		"null data": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":null}`))
		},
		"missing data": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"meta":{}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, h)
			var hero models.Hero
			err := c.Single(context.Background(), "hero", &hero)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSingle_ServerErrorIsNotAbsence(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	})

	var hero models.Hero
	err := c.Single(context.Background(), "hero", &hero)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	var cmsErr *Error
	require.ErrorAs(t, err, &cmsErr)
	assert.Equal(t, http.StatusBadGateway, cmsErr.Status)
}

func TestSingle_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":`))
	})
	var hero models.Hero
	err := c.Single(context.Background(), "hero", &hero)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestSingle_DraftModeRequestsPreview(t *testing.T) {
	var gotState string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("publicationState")
		w.Write([]byte(`{"data":{"id":1,"attributes":{"heading":"draft"}}}`))
	})

	ctx := draftmode.WithDraft(context.Background(), true)
	var cta models.CTA
	require.NoError(t, c.Single(ctx, "cta", &cta))
	assert.Equal(t, "preview", gotState)
}

func TestBySlug(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/locations", r.URL.Path)
		switch r.URL.Query().Get("filters[slug][$eq]") {
		case "austin":
			w.Write([]byte(`{"data":[{"id":1,"attributes":{"slug":"austin","name":"Austin","seo":{"metaTitle":"Austin Cleaning"}}}],"meta":{"pagination":{"total":1}}}`))
		default:
			w.Write([]byte(`{"data":[],"meta":{"pagination":{"total":0}}}`))
		}
	})

	var loc models.Location
	require.NoError(t, c.BySlug(context.Background(), "locations", "austin", &loc))
	assert.Equal(t, "Austin", loc.Name)
	require.NotNil(t, loc.SEO)
	assert.Equal(t, "Austin Cleaning", loc.SEO.MetaTitle)

	err := c.BySlug(context.Background(), "locations", "Austin", &loc)
	assert.ErrorIs(t, err, ErrNotFound, "slug match is case-sensitive")
}

func TestList_FlattensNestedRelations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"id":1,"attributes":{"question":"Q1","answer":"A1","order":1}},
			{"id":2,"attributes":{"question":"Q2","answer":"A2","order":2}}
		]}`))
	})

	var qs []models.FAQQuestion
	require.NoError(t, c.List(context.Background(), "faqs", &qs))
	require.Len(t, qs, 2)
	assert.Equal(t, "Q2", qs[1].Question)
}

func TestFlatten_RelationWrapper(t *testing.T) {
	in := map[string]any{
		"id": float64(1),
		"attributes": map[string]any{
			"name": "Deep Clean",
			"image": map[string]any{
				"data": map[string]any{
					"id":         float64(9),
					"attributes": map[string]any{"url": "/uploads/x.jpg"},
				},
			},
		},
	}
	out := flatten(in).(map[string]any)
	assert.Equal(t, "Deep Clean", out["name"])
	img := out["image"].(map[string]any)
	assert.Equal(t, "/uploads/x.jpg", img["url"])
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, zap.NewNop())
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "ftp://cms.example.com"}, zap.NewNop())
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	var d Source = Disabled{}
	assert.False(t, d.Enabled())
	assert.ErrorIs(t, d.Single(context.Background(), "hero", nil), ErrNotFound)
	assert.ErrorIs(t, d.BySlug(context.Background(), "services", "x", nil), ErrNotFound)
	assert.ErrorIs(t, d.List(context.Background(), "faqs", nil), ErrNotFound)
}
