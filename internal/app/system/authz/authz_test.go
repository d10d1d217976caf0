package authz

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/cleansite/internal/app/system/auth"
)

// withTestUser creates a request with a user in context.
func withTestUser(id, name, role string) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	user := &auth.SessionUser{
		ID:   id,
		Name: name,
		Role: role,
	}
	return auth.WithTestUser(req, user)
}

func TestUserCtx(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		userName string
		userRole string
		wantRole string
		wantName string
		wantOK   bool
	}{
		{"admin user", "u-1", "Admin User", "admin", "admin", "Admin User", true},
		{"editor", "u-2", "Editor", "editor", "editor", "Editor", true},
		{"viewer", "u-3", "Viewer", "viewer", "viewer", "Viewer", true},
		{"uppercase role normalized", "u-1", "User", "ADMIN", "admin", "User", true},
		{"unknown role fails closed", "u-1", "User", "owner", "visitor", "", false},
		{"empty role fails closed", "u-1", "User", "", "visitor", "", false},
		{"empty id fails closed", "", "User", "admin", "visitor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withTestUser(tt.userID, tt.userName, tt.userRole)

			role, name, _, ok := UserCtx(req)

			if role != tt.wantRole {
				t.Errorf("role = %v, want %v", role, tt.wantRole)
			}
			if name != tt.wantName {
				t.Errorf("name = %v, want %v", name, tt.wantName)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	role, name, userID, ok := UserCtx(req)

	if role != Visitor {
		t.Errorf("role = %v, want visitor", role)
	}
	if name != "" || userID != "" {
		t.Errorf("name, id = %q, %q, want empty", name, userID)
	}
	if ok {
		t.Error("ok = true, want false")
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		userRole string
		want     bool
	}{
		{"admin user", "admin", true},
		{"admin uppercase", "ADMIN", true},
		{"editor", "editor", false},
		{"viewer", "viewer", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withTestUser("u-1", "User", tt.userRole)

			if got := IsAdmin(req); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAdmin_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if IsAdmin(req) {
		t.Error("IsAdmin() = true for no user, want false")
	}
}

func TestIsLoggedIn(t *testing.T) {
	if !IsLoggedIn(withTestUser("u-1", "User", "viewer")) {
		t.Error("IsLoggedIn() = false with viewer, want true")
	}
	if IsLoggedIn(httptest.NewRequest("GET", "/", nil)) {
		t.Error("IsLoggedIn() = true with no user, want false")
	}
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		name     string
		userRole string
		roles    []string
		want     bool
	}{
		{"single role match", "admin", []string{"admin"}, true},
		{"multiple roles match second", "editor", []string{"admin", "editor"}, true},
		{"case insensitive allowed", "admin", []string{"ADMIN"}, true},
		{"no match", "viewer", []string{"admin", "editor"}, false},
		{"empty allowed roles", "admin", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withTestUser("u-1", "User", tt.userRole)

			if got := HasRole(req, tt.roles...); got != tt.want {
				t.Errorf("HasRole(%v) = %v, want %v", tt.roles, got, tt.want)
			}
		})
	}
}

func TestRequireWriter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireWriter(next)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{"admin passes", withTestUser("u-1", "A", "admin"), http.StatusNoContent},
		{"editor rejected", withTestUser("u-2", "E", "editor"), http.StatusUnauthorized},
		{"viewer rejected", withTestUser("u-3", "V", "viewer"), http.StatusUnauthorized},
		{"anonymous rejected", httptest.NewRequest("POST", "/", nil), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				body := rec.Body.String()
				if !strings.Contains(body, `"success":false`) || !strings.Contains(body, `"error":"Unauthorized"`) {
					t.Errorf("body = %s, want failure envelope", body)
				}
			}
		})
	}
}
