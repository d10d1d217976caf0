// Package seo resolves page metadata from a page's optional SEO block and
// the site-wide defaults.
package seo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dalemusser/cleansite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/cleansite/internal/domain/models"
)

// Site holds the defaults used wherever a page leaves a field empty.
type Site struct {
	Name               string
	BaseURL            string // e.g. https://www.example.com
	DefaultDescription string
	DefaultOGImage     string
	TwitterHandle      string // with or without the leading @

	// AllowCustomScripts passes page-supplied script snippets through.
	// When false they are dropped.
	AllowCustomScripts bool
}

// OpenGraph is the resolved og:* set.
type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	SiteName    string `json:"siteName"`
}

// Twitter is the resolved twitter:* set.
type Twitter struct {
	Card        string `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Site        string `json:"site,omitempty"`
}

// Metadata is everything a page head needs.
type Metadata struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Keywords       string          `json:"keywords,omitempty"`
	Canonical      string          `json:"canonical"`
	Robots         string          `json:"robots"`
	OpenGraph      OpenGraph       `json:"openGraph"`
	Twitter        Twitter         `json:"twitter"`
	StructuredData json.RawMessage `json:"structuredData,omitempty"`
	CustomScripts  string          `json:"customScripts,omitempty"`
	CustomCSS      string          `json:"customCSS,omitempty"`
}

// Build resolves metadata for the page at path. page may be nil.
// fallbackTitle names the page when it has no meta title of its own.
func Build(site Site, page *models.SEO, fallbackTitle, path string) Metadata {
	if page == nil {
		page = &models.SEO{}
	}

	md := Metadata{
		Title:       Title(site.Name, first(page.MetaTitle, htmlsanitize.StripBlue(fallbackTitle))),
		Description: first(page.MetaDescription, site.DefaultDescription),
		Keywords:    page.Keywords,
		Canonical:   canonical(site.BaseURL, page.CanonicalURL, path),
		Robots:      "index, follow",
	}
	if page.NoIndex {
		md.Robots = "noindex, nofollow"
	}

	md.OpenGraph = OpenGraph{
		Title:       first(page.OGTitle, md.Title),
		Description: first(page.OGDescription, md.Description),
		Image:       absolute(site.BaseURL, first(page.OGImage, site.DefaultOGImage)),
		Type:        first(page.OGType, "website"),
		URL:         md.Canonical,
		SiteName:    site.Name,
	}

	image := absolute(site.BaseURL, first(page.TwitterImage, md.OpenGraph.Image))
	card := page.TwitterCard
	if card == "" {
		card = "summary"
		if image != "" {
			card = "summary_large_image"
		}
	}
	md.Twitter = Twitter{
		Card:        card,
		Title:       first(page.TwitterTitle, md.OpenGraph.Title),
		Description: first(page.TwitterDescription, md.OpenGraph.Description),
		Image:       image,
		Site:        handle(site.TwitterHandle),
	}

	if sd := strings.TrimSpace(page.StructuredData); sd != "" && json.Valid([]byte(sd)) {
		md.StructuredData = json.RawMessage(sd)
	}
	if site.AllowCustomScripts {
		md.CustomScripts = page.CustomScripts
	}
	// CSS is inlined in a style element; anything that could close it is dropped.
	if !strings.Contains(page.CustomCSS, "<") {
		md.CustomCSS = page.CustomCSS
	}

	return md
}

// Title applies the "%s | Site" template. A title that already ends in the
// site name, or is the site name, is left alone.
func Title(siteName, title string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return siteName
	case siteName == "", title == siteName, strings.HasSuffix(title, "| "+siteName):
		return title
	default:
		return fmt.Sprintf("%s | %s", title, siteName)
	}
}

func canonical(base, explicit, path string) string {
	if explicit != "" {
		return absolute(base, explicit)
	}
	if path == "" {
		path = "/"
	}
	return absolute(base, path)
}

// absolute resolves ref against base. Absolute http(s) refs pass through.
func absolute(base, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		if u.Scheme == "http" || u.Scheme == "https" {
			return u.String()
		}
		return ""
	}
	b, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil || base == "" {
		return ref
	}
	return b.ResolveReference(u).String()
}

func handle(h string) string {
	h = strings.TrimSpace(h)
	if h == "" || strings.HasPrefix(h, "@") {
		return h
	}
	return "@" + h
}

func first(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
