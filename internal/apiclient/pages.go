package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/eximroyals/storefront/internal/domain"
)

// GetStaticPage fetches the page stored under key.
func (c *Client) GetStaticPage(ctx context.Context, key string) (domain.StaticPage, error) {
	var out domain.StaticPage
	if err := c.getOne(ctx, "static page", "/static-pages/"+url.PathEscape(key), key, &out); err != nil {
		return domain.StaticPage{}, err
	}
	out.Key = key
	return out, nil
}

// UpdateStaticPage replaces the page stored under key.
func (c *Client) UpdateStaticPage(ctx context.Context, key string, in domain.StaticPageInput) error {
	body, contentType, err := encodeForm([]field{
		{"title", in.Title},
		{"content", in.Content},
	}, fileParts{"image": in.Image})
	if err != nil {
		return err
	}
	return c.exec(ctx, request{method: http.MethodPut, path: "/static-pages/" + url.PathEscape(key), resource: "static page", body: body, contentType: contentType})
}
