package domain

// Static page keys served by the site.
const (
	PageAboutUs     = "about-us"
	PageWhyChooseUs = "why-choose-us"
)

var staticFallbacks = map[string]StaticPage{
	PageAboutUs: {
		Key:     PageAboutUs,
		Title:   "About Exim Royals",
		Content: "We are a premier export company...",
	},
	PageWhyChooseUs: {
		Key:     PageWhyChooseUs,
		Title:   "Why Choose Us",
		Content: "Quality, Trust, and Excellence...",
	},
}

// StaticPageKeys lists the editable static pages in menu order.
func StaticPageKeys() []string {
	return []string{PageAboutUs, PageWhyChooseUs}
}

// IsStaticPageKey reports whether key names a known static page.
func IsStaticPageKey(key string) bool {
	_, ok := staticFallbacks[key]
	return ok
}

// FallbackPage returns the built-in content shown when the API has no page
// for key.
func FallbackPage(key string) StaticPage {
	if p, ok := staticFallbacks[key]; ok {
		return p
	}
	return StaticPage{Key: key}
}

// WithFallback fills an empty title or content from the built-in page.
func (p StaticPage) WithFallback(key string) StaticPage {
	fb := FallbackPage(key)
	p.Key = key
	if p.Title == "" {
		p.Title = fb.Title
	}
	if p.Content == "" {
		p.Content = fb.Content
	}
	return p
}

// Stat is a headline number on the home page.
type Stat struct {
	Label string
	Value string
}

// Feature is a selling point on the home page.
type Feature struct {
	Icon        string
	Title       string
	Description string
}

// HomeStats are the fixed figures on the home page.
func HomeStats() []Stat {
	return []Stat{
		{Label: "Countries Served", Value: "25+"},
		{Label: "Years Experience", Value: "12+"},
		{Label: "Happy Clients", Value: "500+"},
		{Label: "Product Varieties", Value: "40+"},
	}
}

// HomeFeatures are the fixed selling points on the home page.
func HomeFeatures() []Feature {
	return []Feature{
		{Icon: "globe", Title: "Global Reach", Description: "Exporting to over 25 countries with streamlined logistics and compliance."},
		{Icon: "shield", Title: "Quality Assured", Description: "100% certified organic produce with rigorous quality checks at every stage."},
		{Icon: "leaf", Title: "Farm Fresh", Description: "Sourced directly from our partner farms to ensure maximum freshness."},
		{Icon: "truck", Title: "Fast Delivery", Description: "Efficient supply chain management ensuring on-time delivery worldwide."},
	}
}
