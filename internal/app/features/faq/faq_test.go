package faq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	errorsfeature "github.com/dalemusser/cleansite/internal/app/features/errors"
	faqstore "github.com/dalemusser/cleansite/internal/app/store/faq"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"github.com/dalemusser/cleansite/internal/testutil"
	"go.uber.org/zap"
)

type listCMS struct {
	raw string
	err error
}

func (c listCMS) Enabled() bool { return true }
func (c listCMS) Single(context.Context, string, any) error { return cms.ErrNotFound }
func (c listCMS) BySlug(context.Context, string, string, any) error { return cms.ErrNotFound }
func (c listCMS) List(_ context.Context, _ string, out any) error {
	if c.err != nil {
		return c.err
	}
	if c.raw == "" {
		return cms.ErrNotFound
	}
	return json.Unmarshal([]byte(c.raw), out)
}

type memFAQ struct {
	qs      []models.FAQQuestion
	err     error
	added   int
	deduped int
}

func (m *memFAQ) List(context.Context) ([]models.FAQQuestion, error) { return m.qs, m.err }

func (m *memFAQ) Add(_ context.Context, q models.FAQQuestion) (models.FAQQuestion, error) {
	if m.err != nil {
		return q, m.err
	}
	m.added++
	m.qs = append(m.qs, q)
	return q, nil
}

func (m *memFAQ) Dedupe(context.Context) (faqstore.DedupeResult, error) {
	m.deduped++
	return faqstore.DedupeResult{DuplicatesRemoved: 2, Remaining: 5}, m.err
}

func newRouter(src cms.Source, store Store) http.Handler {
	return Routes(NewHandler(src, store, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop()))
}

type listResponse struct {
	Success bool                 `json:"success"`
	Source  string               `json:"source"`
	Data    []models.FAQQuestion `json:"data"`
}

func TestList_FromCMSSortedByOrder(t *testing.T) {
	src := listCMS{raw: `[{"question":"Second?","order":2},{"question":"First?","order":1}]`}
	store := &memFAQ{}

	rec := testutil.NewRecorder()
	newRouter(src, store).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)

	var resp listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Source != "strapi" || len(resp.Data) != 2 || resp.Data[0].Question != "First?" {
		t.Errorf("response = %+v", resp)
	}
}

func TestList_FallsBackToStore(t *testing.T) {
	store := &memFAQ{qs: []models.FAQQuestion{{Question: "Local?", Answer: "Yes"}}}

	rec := testutil.NewRecorder()
	newRouter(listCMS{}, store).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"source":"mongodb"`)
	rec.AssertContains(t, `"question":"Local?"`)
}

func TestList_EmptyIsArray(t *testing.T) {
	rec := testutil.NewRecorder()
	newRouter(nil, &memFAQ{}).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"data":[]`)
}

func TestList_CMSFailure(t *testing.T) {
	store := &memFAQ{qs: []models.FAQQuestion{{Question: "Local?"}}}

	rec := testutil.NewRecorder()
	newRouter(listCMS{err: errors.New("timeout")}, store).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusInternalServerError)
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name       string
		user       *testutil.TestUser
		body       string
		wantStatus int
		wantAdded  int
	}{
		{"anonymous", nil, `{"question":"Q?"}`, http.StatusUnauthorized, 0},
		{"editor", &testutil.TestUser{ID: "e", Role: "editor"}, `{"question":"Q?"}`, http.StatusUnauthorized, 0},
		{"admin", &testutil.TestUser{ID: "a", Role: "admin"}, `{"question":" Q? ","answer":"A"}`, http.StatusOK, 1},
		{"blank question", &testutil.TestUser{ID: "a", Role: "admin"}, `{"question":"  "}`, http.StatusBadRequest, 0},
		{"malformed", &testutil.TestUser{ID: "a", Role: "admin"}, `{"question":`, http.StatusInternalServerError, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memFAQ{}
			req := testutil.NewJSONRequest(http.MethodPost, "/", tt.body)
			if tt.user != nil {
				req = testutil.WithUser(req, *tt.user)
			}
			rec := testutil.NewRecorder()
			newRouter(nil, store).ServeHTTP(rec, req)

			rec.AssertStatus(t, tt.wantStatus)
			if store.added != tt.wantAdded {
				t.Errorf("added = %d, want %d", store.added, tt.wantAdded)
			}
			if tt.wantAdded == 1 && store.qs[0].Question != "Q?" {
				t.Errorf("question = %q, want trimmed", store.qs[0].Question)
			}
		})
	}
}

func TestDedupe_RequiresAdmin(t *testing.T) {
	store := &memFAQ{}
	rec := testutil.NewRecorder()
	newRouter(nil, store).ServeHTTP(rec, testutil.NewRequest(http.MethodPost, "/dedupe"))

	rec.AssertStatus(t, http.StatusUnauthorized)
	if store.deduped != 0 {
		t.Error("dedupe ran without admin")
	}
}

func TestDedupe_ReportsCounts(t *testing.T) {
	store := &memFAQ{}
	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/dedupe", testutil.AdminUser())
	newRouter(nil, store).ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"duplicatesRemoved":2`)
	rec.AssertContains(t, `"remaining":5`)
}

func TestDedupe_AgainstStore(t *testing.T) {
	p, _ := testutil.SetupTestProvider(t)
	store := faqstore.New(p)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, q := range []string{"How much?", "how much? ", "Do you bring supplies?"} {
		if _, err := store.Add(ctx, models.FAQQuestion{Question: q}); err != nil {
			t.Fatalf("Add(%q): %v", q, err)
		}
	}

	router := newRouter(nil, store)
	for i, want := range []string{`"duplicatesRemoved":1`, `"duplicatesRemoved":0`} {
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec, testutil.NewAuthenticatedRequest(http.MethodPost, "/dedupe", testutil.AdminUser()))
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, want)
		rec.AssertContains(t, `"remaining":2`)
		if t.Failed() {
			t.Fatalf("run %d: body=%s", i+1, rec.Body.String())
		}
	}
}
