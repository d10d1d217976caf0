package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the content router.
//
// When mounted at /api/content:
//   - GET  /api/content/{type}         section, or page list for slug-keyed types
//   - POST /api/content/{type}         update a section (admin)
//   - GET  /api/content/{type}/{slug}  one page with resolved metadata
//   - POST /api/content/{type}/{slug}  always 400; pages are edited in the CMS
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{type}", h.Get)
	r.Post("/{type}", h.Post)
	r.Get("/{type}/{slug}", h.GetPage)
	r.Post("/{type}/{slug}", h.PostPage)
	return r
}
