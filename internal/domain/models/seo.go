// internal/domain/models/seo.go
package models

// SEO is the optional search/social metadata attached to slug-keyed pages.
// Every field is optional; seo.Build fills gaps from site-wide defaults.
type SEO struct {
	MetaTitle          string `bson:"meta_title,omitempty" json:"metaTitle,omitempty" yaml:"meta_title,omitempty"`
	MetaDescription    string `bson:"meta_description,omitempty" json:"metaDescription,omitempty" yaml:"meta_description,omitempty"`
	CanonicalURL       string `bson:"canonical_url,omitempty" json:"canonicalURL,omitempty" yaml:"canonical_url,omitempty"`
	Keywords           string `bson:"keywords,omitempty" json:"keywords,omitempty" yaml:"keywords,omitempty"`
	NoIndex            bool   `bson:"no_index,omitempty" json:"noIndex,omitempty" yaml:"no_index,omitempty"`
	OGTitle            string `bson:"og_title,omitempty" json:"ogTitle,omitempty" yaml:"og_title,omitempty"`
	OGDescription      string `bson:"og_description,omitempty" json:"ogDescription,omitempty" yaml:"og_description,omitempty"`
	OGImage            string `bson:"og_image,omitempty" json:"ogImage,omitempty" yaml:"og_image,omitempty"`
	OGType             string `bson:"og_type,omitempty" json:"ogType,omitempty" yaml:"og_type,omitempty"`
	TwitterCard        string `bson:"twitter_card,omitempty" json:"twitterCard,omitempty" yaml:"twitter_card,omitempty"`
	TwitterTitle       string `bson:"twitter_title,omitempty" json:"twitterTitle,omitempty" yaml:"twitter_title,omitempty"`
	TwitterDescription string `bson:"twitter_description,omitempty" json:"twitterDescription,omitempty" yaml:"twitter_description,omitempty"`
	TwitterImage       string `bson:"twitter_image,omitempty" json:"twitterImage,omitempty" yaml:"twitter_image,omitempty"`
	StructuredData     string `bson:"structured_data,omitempty" json:"structuredData,omitempty" yaml:"structured_data,omitempty"` // raw JSON-LD
	CustomScripts      string `bson:"custom_scripts,omitempty" json:"customScripts,omitempty" yaml:"custom_scripts,omitempty"`
	CustomCSS          string `bson:"custom_css,omitempty" json:"customCSS,omitempty" yaml:"custom_css,omitempty"`
}
