package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ID is an entity identifier as issued by the catalog API. The API sends
// numbers; IDs are kept as their decimal string so route parameters and form
// values compare directly.
type ID string

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("id must be a number or string: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the ID is absent.
func (id ID) IsZero() bool { return id == "" }

// Category groups products, e.g. "Spices" or "Grains".
type Category struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// Product is an exportable item. Category is nil when the product is
// unassigned.
type Product struct {
	ID          ID        `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	PDFURL      string    `json:"pdfUrl"`
	Category    *Category `json:"category"`
}

// CategoryID returns the product's category id, or "" when unassigned.
func (p Product) CategoryID() ID {
	if p.Category == nil {
		return ""
	}
	return p.Category.ID
}

// StaticPage is an editable content page addressed by key.
type StaticPage struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

// Enquiry is a contact form submission. ProductID is empty for a general
// enquiry.
type Enquiry struct {
	FirstName string
	LastName  string
	Country   string
	Email     string
	ProductID ID
	Message   string
}

// EnquiryRecord is an enquiry as listed to admins.
type EnquiryRecord struct {
	ID        ID        `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Country   string    `json:"country"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Product   *Product  `json:"product"`
	CreatedAt Timestamp `json:"createdAt"`
}

// FullName joins first and last name.
func (e EnquiryRecord) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Timestamp decodes the API's timestamps, which may or may not carry a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts RFC 3339 and zoneless ISO-8601 strings. Unknown
// layouts decode to the zero time rather than failing the whole list.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// Format renders the timestamp for the admin list, or "-" when unknown.
func (t Timestamp) Format() string {
	if t.IsZero() {
		return "-"
	}
	return t.Time.Format("02 Jan 2006 15:04")
}
