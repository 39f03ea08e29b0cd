package view

import "github.com/eximroyals/storefront/internal/domain"

// HomeData is the home page.
type HomeData struct {
	Categories []domain.Category
	Stats      []domain.Stat
	Features   []domain.Feature
}

// ProductsData is the product listing with its category filter.
type ProductsData struct {
	Categories []domain.Category
	Products   []domain.Product
	// Selected is the active category id or domain.AllCategories.
	Selected string
}

// AllSelected reports whether the filter shows every product.
func (d ProductsData) AllSelected() bool {
	return d.Selected == "" || d.Selected == domain.AllCategories
}

// ContactData is the enquiry form. Errors holds per-field messages.
type ContactData struct {
	Form     domain.EnquiryInput
	Products []domain.Product
	Errors   map[string]string
}

// NotFoundData names what could not be found.
type NotFoundData struct {
	Message string
	Back    string
}

// LoginData is the admin sign-in form.
type LoginData struct {
	Email string
	Next  string
	Error string
}

// DashboardData holds the admin overview counts. A count of -1 means it
// could not be loaded.
type DashboardData struct {
	Categories int
	Products   int
	Enquiries  int
}

// CategoryListData is the admin category table.
type CategoryListData struct {
	Categories []domain.Category
	Failed     bool
}

// CategoryFormData drives the shared create/edit category form.
type CategoryFormData struct {
	Edit     bool
	ID       string
	Form     domain.CategoryInput
	ImageURL string
	Errors   map[string]string
}

// ProductListData is the admin product table.
type ProductListData struct {
	Products []domain.Product
	Failed   bool
}

// ProductFormData drives the shared create/edit product form.
type ProductFormData struct {
	Edit       bool
	ID         string
	Form       domain.ProductInput
	Categories []domain.Category
	ImageURL   string
	PDFURL     string
	Errors     map[string]string
}

// EnquiryListData is the admin enquiry table.
type EnquiryListData struct {
	Enquiries []domain.EnquiryRecord
	Failed    bool
}

// PageFormData is the static page editor.
type PageFormData struct {
	Key      string
	Form     domain.StaticPageInput
	ImageURL string
	Errors   map[string]string
}
