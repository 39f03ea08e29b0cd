package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/eximroyals/storefront/internal/domain"
)

func checkCategory(c domain.Category) error {
	if c.ID.IsZero() {
		return shapeError("category", "category without id")
	}
	return nil
}

func checkProduct(p domain.Product) error {
	if p.ID.IsZero() {
		return shapeError("product", "product without id")
	}
	if p.Category != nil && p.Category.ID.IsZero() {
		return shapeError("product", fmt.Sprintf("product %s has a category without id", p.ID))
	}
	return nil
}

// ListCategories returns every category in API order.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.getList(ctx, "categories", "/categories", &out); err != nil {
		return nil, err
	}
	for _, cat := range out {
		if err := checkCategory(cat); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetCategory fetches one category.
func (c *Client) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	var out domain.Category
	if err := c.getOne(ctx, "category", "/categories/"+url.PathEscape(id), id, &out); err != nil {
		return domain.Category{}, err
	}
	if err := checkCategory(out); err != nil {
		return domain.Category{}, err
	}
	return out, nil
}

// CreateCategory uploads a new category.
func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) error {
	body, contentType, err := encodeForm(categoryFields(in), fileParts{"image": in.Image})
	if err != nil {
		return err
	}
	return c.exec(ctx, request{method: http.MethodPost, path: "/categories", resource: "category", body: body, contentType: contentType})
}

// UpdateCategory replaces a category's text. The image is only sent when a
// new file was chosen; the API then keeps the current one.
func (c *Client) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) error {
	body, contentType, err := encodeForm(categoryFields(in), fileParts{"image": in.Image})
	if err != nil {
		return err
	}
	return c.exec(ctx, request{method: http.MethodPut, path: "/categories/" + url.PathEscape(id), resource: "category", body: body, contentType: contentType})
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.exec(ctx, request{method: http.MethodDelete, path: "/categories/" + url.PathEscape(id), resource: "category"})
}

func categoryFields(in domain.CategoryInput) []field {
	return []field{
		{"title", in.Title},
		{"description", in.Description},
	}
}

// ListProducts returns every product in API order.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.getList(ctx, "products", "/products", &out); err != nil {
		return nil, err
	}
	for _, p := range out {
		if err := checkProduct(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	if err := c.getOne(ctx, "product", "/products/"+url.PathEscape(id), id, &out); err != nil {
		return domain.Product{}, err
	}
	if err := checkProduct(out); err != nil {
		return domain.Product{}, err
	}
	return out, nil
}

// CreateProduct uploads a new product.
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) error {
	body, contentType, err := encodeForm(productFields(in), fileParts{"image": in.Image, "pdf": in.PDF})
	if err != nil {
		return err
	}
	return c.exec(ctx, request{method: http.MethodPost, path: "/products", resource: "product", body: body, contentType: contentType})
}

// UpdateProduct replaces a product. Files are only sent when chosen.
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) error {
	body, contentType, err := encodeForm(productFields(in), fileParts{"image": in.Image, "pdf": in.PDF})
	if err != nil {
		return err
	}
	return c.exec(ctx, request{method: http.MethodPut, path: "/products/" + url.PathEscape(id), resource: "product", body: body, contentType: contentType})
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.exec(ctx, request{method: http.MethodDelete, path: "/products/" + url.PathEscape(id), resource: "product"})
}

func productFields(in domain.ProductInput) []field {
	return []field{
		{"title", in.Title},
		{"description", in.Description},
		{"categoryId", in.CategoryID},
	}
}
