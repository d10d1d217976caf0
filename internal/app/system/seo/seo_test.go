package seo

import (
	"encoding/json"
	"testing"

	"github.com/dalemusser/cleansite/internal/domain/models"
	"github.com/google/go-cmp/cmp"
)

var testSite = Site{
	Name:               "Sparkle Clean",
	BaseURL:            "https://www.sparkle.test",
	DefaultDescription: "Professional home cleaning.",
	DefaultOGImage:     "/static/og.png",
	TwitterHandle:      "sparkleclean",
}

func TestBuild_AllDefaults(t *testing.T) {
	got := Build(testSite, nil, "House Cleaning in <blue>Austin</blue>", "/locations/austin")

	want := Metadata{
		Title:       "House Cleaning in Austin | Sparkle Clean",
		Description: "Professional home cleaning.",
		Canonical:   "https://www.sparkle.test/locations/austin",
		Robots:      "index, follow",
		OpenGraph: OpenGraph{
			Title:       "House Cleaning in Austin | Sparkle Clean",
			Description: "Professional home cleaning.",
			Image:       "https://www.sparkle.test/static/og.png",
			Type:        "website",
			URL:         "https://www.sparkle.test/locations/austin",
			SiteName:    "Sparkle Clean",
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       "House Cleaning in Austin | Sparkle Clean",
			Description: "Professional home cleaning.",
			Image:       "https://www.sparkle.test/static/og.png",
			Site:        "@sparkleclean",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_PageOverrides(t *testing.T) {
	page := &models.SEO{
		MetaTitle:          "Deep Cleaning",
		MetaDescription:    "Top to bottom.",
		CanonicalURL:       "https://cdn.sparkle.test/deep",
		Keywords:           "deep clean",
		NoIndex:            true,
		OGTitle:            "Deep Cleaning Special",
		OGImage:            "https://img.test/deep.jpg",
		OGType:             "article",
		TwitterCard:        "summary",
		TwitterDescription: "Tweet copy",
		StructuredData:     `{"@type":"Service"}`,
		CustomScripts:      "<script>track()</script>",
		CustomCSS:          ".hero{color:blue}",
	}
	got := Build(testSite, page, "ignored", "/services/deep-cleaning")

	want := Metadata{
		Title:       "Deep Cleaning | Sparkle Clean",
		Description: "Top to bottom.",
		Keywords:    "deep clean",
		Canonical:   "https://cdn.sparkle.test/deep",
		Robots:      "noindex, nofollow",
		OpenGraph: OpenGraph{
			Title:       "Deep Cleaning Special",
			Description: "Top to bottom.",
			Image:       "https://img.test/deep.jpg",
			Type:        "article",
			URL:         "https://cdn.sparkle.test/deep",
			SiteName:    "Sparkle Clean",
		},
		Twitter: Twitter{
			Card:        "summary",
			Title:       "Deep Cleaning Special",
			Description: "Tweet copy",
			Image:       "https://img.test/deep.jpg",
			Site:        "@sparkleclean",
		},
		StructuredData: json.RawMessage(`{"@type":"Service"}`),
		CustomCSS:      ".hero{color:blue}",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_CustomCode(t *testing.T) {
	site := testSite
	site.AllowCustomScripts = true
	page := &models.SEO{
		CustomScripts:  "<script>track()</script>",
		CustomCSS:      "</style><script>x()</script>",
		StructuredData: "{not json",
	}
	got := Build(site, page, "Home", "/")

	if got.CustomScripts != page.CustomScripts {
		t.Errorf("CustomScripts = %q, want passthrough when allowed", got.CustomScripts)
	}
	if got.CustomCSS != "" {
		t.Errorf("CustomCSS = %q, want dropped", got.CustomCSS)
	}
	if got.StructuredData != nil {
		t.Errorf("StructuredData = %s, want dropped when invalid", got.StructuredData)
	}
}

func TestBuild_NoImageUsesSummaryCard(t *testing.T) {
	site := testSite
	site.DefaultOGImage = ""
	got := Build(site, nil, "", "")

	if got.Twitter.Card != "summary" {
		t.Errorf("Twitter.Card = %q, want summary", got.Twitter.Card)
	}
	if got.Title != "Sparkle Clean" {
		t.Errorf("Title = %q, want site name", got.Title)
	}
	if got.Canonical != "https://www.sparkle.test/" {
		t.Errorf("Canonical = %q, want site root", got.Canonical)
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		site, title, want string
	}{
		{"Sparkle", "Home", "Home | Sparkle"},
		{"Sparkle", "", "Sparkle"},
		{"Sparkle", "Sparkle", "Sparkle"},
		{"Sparkle", "About | Sparkle", "About | Sparkle"},
		{"", "About", "About"},
	}
	for _, tt := range tests {
		if got := Title(tt.site, tt.title); got != tt.want {
			t.Errorf("Title(%q, %q) = %q, want %q", tt.site, tt.title, got, tt.want)
		}
	}
}

func TestAbsolute(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"https://a.test", "/x.png", "https://a.test/x.png"},
		{"https://a.test/", "x.png", "https://a.test/x.png"},
		{"https://a.test", "https://b.test/y", "https://b.test/y"},
		{"https://a.test", "javascript:alert(1)", ""},
		{"", "/x.png", "/x.png"},
		{"https://a.test", "", ""},
	}
	for _, tt := range tests {
		if got := absolute(tt.base, tt.ref); got != tt.want {
			t.Errorf("absolute(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
