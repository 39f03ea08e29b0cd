package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eximroyals/storefront/internal/apiclient"
	"github.com/eximroyals/storefront/internal/domain"
	"github.com/eximroyals/storefront/internal/lifecycle"
	"github.com/eximroyals/storefront/internal/session"
	"github.com/eximroyals/storefront/internal/view"
	apperrors "github.com/eximroyals/storefront/pkg/errors"
	"github.com/eximroyals/storefront/pkg/httputil"
	"github.com/eximroyals/storefront/pkg/middleware"
	"github.com/eximroyals/storefront/pkg/validator"
)

const (
	loginPath     = "/admin/login"
	dashboardPath = "/admin/dashboard"

	invalidLoginMessage = "Invalid email or password"
)

// AdminHandler serves the admin console. Every API call it makes is bound to
// the signed-in admin's session.
type AdminHandler struct {
	pages
	api       *apiclient.Client
	sessions  *session.Manager
	mediaBase string
}

// NewAdminHandler creates the admin console handler.
func NewAdminHandler(api *apiclient.Client, sessions *session.Manager, views *view.Renderer, mediaBase string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		pages:     pages{views: views, logger: logger},
		api:       api,
		sessions:  sessions,
		mediaBase: mediaBase,
	}
}

// client returns the API client bound to the request's session.
func (h *AdminHandler) client(r *http.Request) *apiclient.Client {
	sess, _ := session.FromContext(r.Context())
	return h.api.WithSession(sess)
}

func (h *AdminHandler) page(r *http.Request, title string) view.Page {
	p := view.Page{Title: title}
	if sess, ok := session.FromContext(r.Context()); ok {
		p.Admin = sess.Email
	}
	return p
}

// fail renders err on the admin error page. A token the API no longer
// accepts ends the session and sends the admin back to the login page.
func (h *AdminHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}
	if errors.Is(err, apperrors.ErrUnauthorized) {
		h.relogin(w, r)
		return
	}
	h.renderError(w, r, err, h.page(r, ""), true)
}

func (h *AdminHandler) relogin(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		httputil.LogError(r, err, h.logger)
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *AdminHandler) notFound(w http.ResponseWriter, r *http.Request, message, back string) {
	p := h.page(r, "Not Found")
	p.Data = view.NotFoundData{Message: message, Back: back}
	h.render(w, r, http.StatusNotFound, "admin_not_found", p)
}

// unauthorized reports whether any read was rejected for its token.
func unauthorized(errs ...error) bool {
	for _, err := range errs {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return true
		}
	}
	return false
}

func (h *AdminHandler) mediaURL(filename string) string {
	return domain.MediaURL(h.mediaBase, filename)
}

// formUpload returns the file posted under name, or nil when none was chosen.
func formUpload(r *http.Request, name string) *domain.Upload {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[name]
	if len(files) == 0 || files[0].Filename == "" || files[0].Size == 0 {
		return nil
	}
	fh := files[0]
	return &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Open:        fh.Open,
	}
}

// --- Authentication ---

// LoginForm handles GET /admin/login
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if session.HasSession(r) {
		http.Redirect(w, r, middleware.SafeRedirect(next, dashboardPath), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, view.LoginData{Next: next})
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseForm(r, maxFormMemory); err != nil {
		adminLoginsTotal.WithLabelValues("invalid").Inc()
		h.renderLogin(w, r, http.StatusBadRequest, view.LoginData{Error: invalidLoginMessage})
		return
	}

	in := domain.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	data := view.LoginData{Email: in.Email, Next: r.PostFormValue("next")}

	if err := validator.Validate(in); err != nil {
		adminLoginsTotal.WithLabelValues("invalid").Inc()
		data.Error = invalidLoginMessage
		h.renderLogin(w, r, http.StatusUnauthorized, data)
		return
	}

	if _, err := h.sessions.Login(r.Context(), w, in.Email, in.Password); err != nil {
		if r.Context().Err() != nil {
			return
		}
		adminLoginsTotal.WithLabelValues("rejected").Inc()
		httputil.Logger(r, h.logger).WarnContext(r.Context(), "admin sign-in failed",
			slog.String("email", in.Email),
			slog.String("error", err.Error()),
		)
		data.Error = invalidLoginMessage
		h.renderLogin(w, r, http.StatusUnauthorized, data)
		return
	}

	adminLoginsTotal.WithLabelValues("success").Inc()
	http.Redirect(w, r, middleware.SafeRedirect(data.Next, dashboardPath), http.StatusSeeOther)
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data view.LoginData) {
	h.render(w, r, status, "admin_login", view.Page{Title: "Admin Login", Data: data})
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		httputil.LogError(r, err, h.logger)
	}
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// --- Dashboard ---

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	api := h.client(r)
	g := lifecycle.NewGroup(r.Context())
	categories := readCategories(g, api)
	products := readProducts(g, api)
	enquiries := lifecycle.Go(g, "enquiries", []domain.EnquiryRecord{}, api.ListEnquiries)
	if !settled(g, track(categories), track(products), track(enquiries)) {
		return
	}
	if unauthorized(categories.Err, products.Err, enquiries.Err) {
		h.relogin(w, r)
		return
	}

	p := h.page(r, "Dashboard")
	p.Data = view.DashboardData{
		Categories: count(categories),
		Products:   count(products),
		Enquiries:  count(enquiries),
	}
	h.render(w, r, http.StatusOK, "admin_dashboard", p)
}

// count is the length of a loaded list, or -1 when it failed to load.
func count[T any](r *lifecycle.Result[[]T]) int {
	if !r.Loaded() {
		return -1
	}
	return len(r.Value)
}

// --- Categories ---

// ListCategories handles GET /admin/categories
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := lifecycle.Fetch(r.Context(), "categories", []domain.Category{}, h.client(r).ListCategories)
	if r.Context().Err() != nil {
		return
	}
	recordRead(categories.Name, categories.State)
	if unauthorized(categories.Err) {
		h.relogin(w, r)
		return
	}

	p := h.page(r, "Categories")
	p.Data = view.CategoryListData{Categories: categories.Value, Failed: categories.Failed()}
	h.render(w, r, http.StatusOK, "admin_categories", p)
}

// NewCategory handles GET /admin/categories/new
func (h *AdminHandler) NewCategory(w http.ResponseWriter, r *http.Request) {
	h.renderCategoryForm(w, r, http.StatusOK, view.CategoryFormData{}, "")
}

// EditCategory handles GET /admin/categories/{id}/edit
func (h *AdminHandler) EditCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := h.client(r).GetCategory(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.notFound(w, r, "Category not found", "/admin/categories")
			return
		}
		h.fail(w, r, err)
		return
	}

	h.renderCategoryForm(w, r, http.StatusOK, view.CategoryFormData{
		Edit:     true,
		ID:       id,
		Form:     domain.CategoryInputFrom(c),
		ImageURL: h.mediaURL(c.ImageURL),
	}, "")
}

// CreateCategory handles POST /admin/categories/new
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, view.CategoryFormData{})
}

// UpdateCategory handles POST /admin/categories/{id}/edit
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, view.CategoryFormData{Edit: true, ID: chi.URLParam(r, "id")})
}

func (h *AdminHandler) saveCategory(w http.ResponseWriter, r *http.Request, data view.CategoryFormData) {
	if err := httputil.ParseForm(r, maxFormMemory); err != nil {
		h.fail(w, r, err)
		return
	}
	data.Form = domain.CategoryInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Image:       formUpload(r, "image"),
	}

	if err := validator.Validate(data.Form); err != nil {
		data.Errors, _ = httputil.FieldErrors(err)
		h.renderCategoryForm(w, r, http.StatusUnprocessableEntity, data, "")
		return
	}

	api := h.client(r)
	var err error
	if data.Edit {
		err = api.UpdateCategory(r.Context(), data.ID, data.Form)
	} else {
		err = api.CreateCategory(r.Context(), data.Form)
	}
	if err != nil {
		h.saveFailed(w, r, err, "Category not found", "/admin/categories", func(notice string) {
			h.renderCategoryForm(w, r, apperrors.HTTPStatus(err), data, notice)
		})
		return
	}

	httputil.Logger(r, h.logger).InfoContext(r.Context(), "category saved",
		slog.String("category_id", data.ID),
		slog.Bool("edit", data.Edit),
	)
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (h *AdminHandler) renderCategoryForm(w http.ResponseWriter, r *http.Request, status int, data view.CategoryFormData, notice string) {
	title := "Add Category"
	if data.Edit {
		title = "Edit Category"
	}
	p := h.page(r, title)
	p.Notice = notice
	p.Data = data
	h.render(w, r, status, "admin_category_form", p)
}

// DeleteCategory handles POST /admin/categories/{id}/delete
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client(r).DeleteCategory(r.Context(), id); err != nil && !apperrors.IsNotFound(err) {
		h.fail(w, r, err)
		return
	}
	httputil.Logger(r, h.logger).InfoContext(r.Context(), "category deleted", slog.String("category_id", id))
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// --- Products ---

// ListProducts handles GET /admin/products
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := lifecycle.Fetch(r.Context(), "products", []domain.Product{}, h.client(r).ListProducts)
	if r.Context().Err() != nil {
		return
	}
	recordRead(products.Name, products.State)
	if unauthorized(products.Err) {
		h.relogin(w, r)
		return
	}

	p := h.page(r, "Products")
	p.Data = view.ProductListData{Products: products.Value, Failed: products.Failed()}
	h.render(w, r, http.StatusOK, "admin_products", p)
}

// NewProduct handles GET /admin/products/new
func (h *AdminHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, http.StatusOK, view.ProductFormData{}, "")
}

// EditProduct handles GET /admin/products/{id}/edit
func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	api := h.client(r)

	g := lifecycle.NewGroup(r.Context())
	product := lifecycle.Go(g, "product", domain.Product{}, func(ctx context.Context) (domain.Product, error) {
		return api.GetProduct(ctx, id)
	})
	categories := readCategories(g, api)
	if !settled(g, track(product), track(categories)) {
		return
	}

	if product.Failed() {
		if apperrors.IsNotFound(product.Err) {
			h.notFound(w, r, "Product not found", "/admin/products")
			return
		}
		h.fail(w, r, product.Err)
		return
	}

	pr := product.Value
	h.renderProductFormWith(w, r, http.StatusOK, view.ProductFormData{
		Edit:       true,
		ID:         id,
		Form:       domain.ProductInputFrom(pr),
		Categories: categories.Value,
		ImageURL:   h.mediaURL(pr.ImageURL),
		PDFURL:     h.mediaURL(pr.PDFURL),
	}, "")
}

// CreateProduct handles POST /admin/products/new
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, view.ProductFormData{})
}

// UpdateProduct handles POST /admin/products/{id}/edit
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, view.ProductFormData{Edit: true, ID: chi.URLParam(r, "id")})
}

func (h *AdminHandler) saveProduct(w http.ResponseWriter, r *http.Request, data view.ProductFormData) {
	if err := httputil.ParseForm(r, maxFormMemory); err != nil {
		h.fail(w, r, err)
		return
	}
	data.Form = domain.ProductInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		CategoryID:  r.PostFormValue("categoryId"),
		Image:       formUpload(r, "image"),
		PDF:         formUpload(r, "pdf"),
	}

	if err := validator.Validate(data.Form); err != nil {
		data.Errors, _ = httputil.FieldErrors(err)
		h.renderProductForm(w, r, http.StatusUnprocessableEntity, data, "")
		return
	}

	api := h.client(r)
	var err error
	if data.Edit {
		err = api.UpdateProduct(r.Context(), data.ID, data.Form)
	} else {
		err = api.CreateProduct(r.Context(), data.Form)
	}
	if err != nil {
		h.saveFailed(w, r, err, "Product not found", "/admin/products", func(notice string) {
			h.renderProductForm(w, r, apperrors.HTTPStatus(err), data, notice)
		})
		return
	}

	httputil.Logger(r, h.logger).InfoContext(r.Context(), "product saved",
		slog.String("product_id", data.ID),
		slog.Bool("edit", data.Edit),
	)
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// renderProductForm loads the category options and renders the form.
func (h *AdminHandler) renderProductForm(w http.ResponseWriter, r *http.Request, status int, data view.ProductFormData, notice string) {
	categories := lifecycle.Fetch(r.Context(), "categories", []domain.Category{}, h.client(r).ListCategories)
	if r.Context().Err() != nil {
		return
	}
	recordRead(categories.Name, categories.State)
	data.Categories = categories.Value
	h.renderProductFormWith(w, r, status, data, notice)
}

func (h *AdminHandler) renderProductFormWith(w http.ResponseWriter, r *http.Request, status int, data view.ProductFormData, notice string) {
	title := "Add Product"
	if data.Edit {
		title = "Edit Product"
	}
	p := h.page(r, title)
	p.Notice = notice
	p.Data = data
	h.render(w, r, status, "admin_product_form", p)
}

// DeleteProduct handles POST /admin/products/{id}/delete
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client(r).DeleteProduct(r.Context(), id); err != nil && !apperrors.IsNotFound(err) {
		h.fail(w, r, err)
		return
	}
	httputil.Logger(r, h.logger).InfoContext(r.Context(), "product deleted", slog.String("product_id", id))
	http.Redirect(w, r, "/admin/products", http.StatusSeeOther)
}

// saveFailed handles a rejected create or update. A missing entity shows the
// not found page, an expired token ends the session, and anything else
// re-renders the form through retry with a notice.
func (h *AdminHandler) saveFailed(w http.ResponseWriter, r *http.Request, err error, notFound, back string, retry func(notice string)) {
	if r.Context().Err() != nil {
		return
	}
	switch {
	case apperrors.IsNotFound(err):
		h.notFound(w, r, notFound, back)
	case errors.Is(err, apperrors.ErrUnauthorized):
		h.relogin(w, r)
	default:
		httputil.LogError(r, err, h.logger)
		retry("Failed to save. Please try again.")
	}
}

// --- Enquiries ---

// ListEnquiries handles GET /admin/enquiries
func (h *AdminHandler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	enquiries := lifecycle.Fetch(r.Context(), "enquiries", []domain.EnquiryRecord{}, h.client(r).ListEnquiries)
	if r.Context().Err() != nil {
		return
	}
	recordRead(enquiries.Name, enquiries.State)
	if unauthorized(enquiries.Err) {
		h.relogin(w, r)
		return
	}

	p := h.page(r, "Enquiries")
	p.Data = view.EnquiryListData{Enquiries: enquiries.Value, Failed: enquiries.Failed()}
	h.render(w, r, http.StatusOK, "admin_enquiries", p)
}

// --- Static pages ---

// EditPage handles GET /admin/pages/{key}/edit. A page the API has never
// stored starts from its fallback text.
func (h *AdminHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !domain.IsStaticPageKey(key) {
		h.notFound(w, r, "Page not found", dashboardPath)
		return
	}

	sp, err := h.client(r).GetStaticPage(r.Context(), key)
	if err != nil && !apperrors.IsNotFound(err) {
		h.fail(w, r, err)
		return
	}
	sp = sp.WithFallback(key)

	notice := ""
	if r.URL.Query().Get("saved") != "" {
		notice = "Page saved."
	}
	h.renderPageForm(w, r, http.StatusOK, view.PageFormData{
		Key:      key,
		Form:     domain.StaticPageInput{Title: sp.Title, Content: sp.Content},
		ImageURL: h.mediaURL(sp.ImageURL),
	}, notice)
}

// UpdatePage handles POST /admin/pages/{key}/edit
func (h *AdminHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !domain.IsStaticPageKey(key) {
		h.notFound(w, r, "Page not found", dashboardPath)
		return
	}
	if err := httputil.ParseForm(r, maxFormMemory); err != nil {
		h.fail(w, r, err)
		return
	}

	data := view.PageFormData{
		Key: key,
		Form: domain.StaticPageInput{
			Title:   r.PostFormValue("title"),
			Content: r.PostFormValue("content"),
			Image:   formUpload(r, "image"),
		},
	}
	if err := validator.Validate(data.Form); err != nil {
		data.Errors, _ = httputil.FieldErrors(err)
		h.renderPageForm(w, r, http.StatusUnprocessableEntity, data, "")
		return
	}

	if err := h.client(r).UpdateStaticPage(r.Context(), key, data.Form); err != nil {
		h.saveFailed(w, r, err, "Page not found", dashboardPath, func(notice string) {
			h.renderPageForm(w, r, apperrors.HTTPStatus(err), data, notice)
		})
		return
	}

	httputil.Logger(r, h.logger).InfoContext(r.Context(), "static page saved", slog.String("page", key))
	http.Redirect(w, r, "/admin/pages/"+key+"/edit?saved=1", http.StatusSeeOther)
}

func (h *AdminHandler) renderPageForm(w http.ResponseWriter, r *http.Request, status int, data view.PageFormData, notice string) {
	p := h.page(r, "Edit Page")
	p.Notice = notice
	p.Data = data
	h.render(w, r, status, "admin_page_form", p)
}
