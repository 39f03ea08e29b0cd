package http

import (
	"log/slog"
	"net/http"

	"github.com/eximroyals/storefront/internal/apiclient"
	"github.com/eximroyals/storefront/internal/domain"
	"github.com/eximroyals/storefront/internal/lifecycle"
	"github.com/eximroyals/storefront/internal/view"
	"github.com/eximroyals/storefront/pkg/httputil"
)

const maxFormMemory = 16 << 20

// pages renders views and turns errors into error pages.
type pages struct {
	views  *view.Renderer
	logger *slog.Logger
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) {
	if page.Path == "" {
		page.Path = r.URL.Path
	}
	if err := p.views.Render(w, status, name, page); err != nil {
		httputil.Logger(r, p.logger).ErrorContext(r.Context(), "render page",
			slog.String("page", name),
			slog.String("error", err.Error()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError shows the error page matching err. A not found error gets the
// not found page. The admin flag picks the admin variants.
func (p *pages) renderError(w http.ResponseWriter, r *http.Request, err error, page view.Page, admin bool) {
	httputil.LogError(r, err, p.logger)
	status, msg := httputil.UserError(err)

	name := "error"
	if status == http.StatusNotFound {
		name = "not_found"
		page.Data = view.NotFoundData{Message: msg}
	} else {
		page.Data = msg
	}
	if admin {
		name = "admin_" + name
	}
	page.Title = http.StatusText(status)
	p.render(w, r, status, name, page)
}

// readCategories schedules the category read that feeds the guest menus.
func readCategories(g *lifecycle.Group, api *apiclient.Client) *lifecycle.Result[[]domain.Category] {
	return lifecycle.Go(g, "categories", []domain.Category{}, api.ListCategories)
}

func readProducts(g *lifecycle.Group, api *apiclient.Client) *lifecycle.Result[[]domain.Product] {
	return lifecycle.Go(g, "products", []domain.Product{}, api.ListProducts)
}

// settled joins g and counts each read's outcome. It reports false when the
// request ended first, in which case nothing should be written.
func settled(g *lifecycle.Group, reads ...outcome) bool {
	err := g.Wait()
	for _, o := range reads {
		o.record()
	}
	return err == nil
}

type outcome interface{ record() }

type tracked[T any] struct{ *lifecycle.Result[T] }

func (t tracked[T]) record() { recordRead(t.Name, t.State) }

// track wraps results for settled.
func track[T any](r *lifecycle.Result[T]) outcome { return tracked[T]{r} }
