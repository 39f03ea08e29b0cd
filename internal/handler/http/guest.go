package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eximroyals/storefront/internal/apiclient"
	"github.com/eximroyals/storefront/internal/domain"
	"github.com/eximroyals/storefront/internal/lifecycle"
	"github.com/eximroyals/storefront/internal/view"
	apperrors "github.com/eximroyals/storefront/pkg/errors"
	"github.com/eximroyals/storefront/pkg/httputil"
	"github.com/eximroyals/storefront/pkg/validator"
)

const enquiryFailedNotice = "Failed to submit enquiry. Please try again."

// GuestHandler serves the public site.
type GuestHandler struct {
	pages
	api *apiclient.Client
}

// NewGuestHandler creates the public site handler.
func NewGuestHandler(api *apiclient.Client, views *view.Renderer, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{
		pages: pages{views: views, logger: logger},
		api:   api,
	}
}

// Home handles GET /
func (h *GuestHandler) Home(w http.ResponseWriter, r *http.Request) {
	g := lifecycle.NewGroup(r.Context())
	categories := readCategories(g, h.api)
	if !settled(g, track(categories)) {
		return
	}

	h.render(w, r, http.StatusOK, "home", view.Page{
		Title:      "Home",
		Categories: categories.Value,
		Data: view.HomeData{
			Categories: categories.Value,
			Stats:      domain.HomeStats(),
			Features:   domain.HomeFeatures(),
		},
	})
}

// Products handles GET /products and GET /products/category/{id}. The
// ?category= query selects a filter on /products.
func (h *GuestHandler) Products(w http.ResponseWriter, r *http.Request) {
	selected := chi.URLParam(r, "id")
	if selected == "" {
		selected = r.URL.Query().Get("category")
	}
	if selected == "" {
		selected = domain.AllCategories
	}

	g := lifecycle.NewGroup(r.Context())
	products := readProducts(g, h.api)
	categories := readCategories(g, h.api)
	if !settled(g, track(products), track(categories)) {
		return
	}

	h.render(w, r, http.StatusOK, "products", view.Page{
		Title:      "Our Products",
		Path:       "/products",
		Categories: categories.Value,
		Data: view.ProductsData{
			Categories: categories.Value,
			Products:   domain.FilterByCategory(products.Value, selected),
			Selected:   selected,
		},
	})
}

// Contact handles GET /contact. ?product= preselects a product.
func (h *GuestHandler) Contact(w http.ResponseWriter, r *http.Request) {
	form := domain.EnquiryInput{ProductID: r.URL.Query().Get("product")}
	h.renderContact(w, r, http.StatusOK, form, nil, "")
}

// SubmitContact handles POST /contact. Success redirects to the sent page;
// failure re-renders the form with the values intact.
func (h *GuestHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(r, maxFormMemory); err != nil {
		enquiriesTotal.WithLabelValues("invalid").Inc()
		h.renderError(w, r, err, view.Page{}, false)
		return
	}

	form := domain.EnquiryInput{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Country:   r.PostFormValue("country"),
		Email:     r.PostFormValue("email"),
		ProductID: r.PostFormValue("productId"),
		Message:   r.PostFormValue("message"),
	}

	if err := validator.Validate(form); err != nil {
		enquiriesTotal.WithLabelValues("invalid").Inc()
		fields, _ := httputil.FieldErrors(err)
		h.renderContact(w, r, http.StatusUnprocessableEntity, form, fields, "")
		return
	}

	if err := h.api.SubmitEnquiry(r.Context(), form.Enquiry()); err != nil {
		if r.Context().Err() != nil {
			return
		}
		enquiriesTotal.WithLabelValues("failed").Inc()
		httputil.LogError(r, err, h.logger)
		h.renderContact(w, r, apperrors.HTTPStatus(err), form, nil, enquiryFailedNotice)
		return
	}

	enquiriesTotal.WithLabelValues("sent").Inc()
	httputil.Logger(r, h.logger).InfoContext(r.Context(), "enquiry submitted",
		slog.String("product_id", form.ProductID),
	)
	http.Redirect(w, r, "/contact/sent", http.StatusSeeOther)
}

func (h *GuestHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, form domain.EnquiryInput, fields map[string]string, notice string) {
	g := lifecycle.NewGroup(r.Context())
	products := readProducts(g, h.api)
	categories := readCategories(g, h.api)
	if !settled(g, track(products), track(categories)) {
		return
	}

	h.render(w, r, status, "contact", view.Page{
		Title:      "Contact Us",
		Path:       "/contact",
		Categories: categories.Value,
		Notice:     notice,
		Data: view.ContactData{
			Form:     form,
			Products: products.Value,
			Errors:   fields,
		},
	})
}

// ContactSent handles GET /contact/sent.
func (h *GuestHandler) ContactSent(w http.ResponseWriter, r *http.Request) {
	g := lifecycle.NewGroup(r.Context())
	categories := readCategories(g, h.api)
	if !settled(g, track(categories)) {
		return
	}

	h.render(w, r, http.StatusOK, "contact_sent", view.Page{
		Title:      "Message Sent",
		Path:       "/contact",
		Categories: categories.Value,
	})
}

// StaticPage returns the handler for a content page stored under key. A page
// that cannot be loaded shows its fallback text.
func (h *GuestHandler) StaticPage(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := lifecycle.NewGroup(r.Context())
		page := lifecycle.Go(g, "static_page", domain.FallbackPage(key), func(ctx context.Context) (domain.StaticPage, error) {
			return h.api.GetStaticPage(ctx, key)
		})
		categories := readCategories(g, h.api)
		if !settled(g, track(page), track(categories)) {
			return
		}

		content := page.Value.WithFallback(key)
		h.render(w, r, http.StatusOK, "static_page", view.Page{
			Title:      content.Title,
			Categories: categories.Value,
			Data:       content,
		})
	}
}

// NotFound renders the guest not found page.
func (h *GuestHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	g := lifecycle.NewGroup(r.Context())
	categories := readCategories(g, h.api)
	if !settled(g, track(categories)) {
		return
	}

	h.render(w, r, http.StatusNotFound, "not_found", view.Page{
		Title:      "Page Not Found",
		Categories: categories.Value,
	})
}
