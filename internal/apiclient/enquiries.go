package apiclient

import (
	"context"
	"net/http"

	"github.com/eximroyals/storefront/internal/domain"
)

// SubmitEnquiry posts a contact form. productId is left out entirely for a
// general enquiry.
func (c *Client) SubmitEnquiry(ctx context.Context, e domain.Enquiry) error {
	fields := []field{
		{"firstName", e.FirstName},
		{"lastName", e.LastName},
		{"country", e.Country},
		{"email", e.Email},
		{"message", e.Message},
	}
	if !e.ProductID.IsZero() {
		fields = append(fields, field{"productId", e.ProductID.String()})
	}

	body, contentType, err := encodeForm(fields, nil)
	if err != nil {
		return err
	}
	return c.exec(ctx, request{method: http.MethodPost, path: "/enquiries", resource: "enquiry", body: body, contentType: contentType})
}

// ListEnquiries returns submitted enquiries, newest first as the API orders
// them. It needs an admin session.
func (c *Client) ListEnquiries(ctx context.Context) ([]domain.EnquiryRecord, error) {
	var out []domain.EnquiryRecord
	if err := c.getList(ctx, "enquiries", "/enquiries", &out); err != nil {
		return nil, err
	}
	for _, e := range out {
		if e.ID.IsZero() {
			return nil, shapeError("enquiries", "enquiry without id")
		}
	}
	return out, nil
}
