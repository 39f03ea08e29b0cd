package domain

import (
	"mime/multipart"
	"strings"
)

// EnquiryInput is the contact form. Validation mirrors the form's own
// constraints: names, email and message are required.
type EnquiryInput struct {
	FirstName string `form:"firstName" validate:"notblank"`
	LastName  string `form:"lastName" validate:"notblank"`
	Country   string `form:"country"`
	Email     string `form:"email" validate:"required,email"`
	ProductID string `form:"productId"`
	Message   string `form:"message" validate:"notblank"`
}

// Enquiry converts the form into the submitted record.
func (in EnquiryInput) Enquiry() Enquiry {
	return Enquiry{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Country:   strings.TrimSpace(in.Country),
		Email:     strings.TrimSpace(in.Email),
		ProductID: ID(strings.TrimSpace(in.ProductID)),
		Message:   in.Message,
	}
}

// LoginInput is the admin sign-in form.
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Upload is a file posted through an admin form, forwarded to the API as-is.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (multipart.File, error)
}

// CategoryInput is the create/edit category form.
type CategoryInput struct {
	Title       string `form:"title" validate:"notblank,max=255"`
	Description string `form:"description" validate:"max=5000"`
	Image       *Upload
}

// CategoryInputFrom pre-populates the form from an existing category.
func CategoryInputFrom(c Category) CategoryInput {
	return CategoryInput{Title: c.Title, Description: c.Description}
}

// ProductInput is the create/edit product form.
type ProductInput struct {
	Title       string `form:"title" validate:"notblank,max=255"`
	Description string `form:"description" validate:"max=5000"`
	CategoryID  string `form:"categoryId" validate:"required"`
	Image       *Upload
	PDF         *Upload
}

// ProductInputFrom pre-populates the form from an existing product.
func ProductInputFrom(p Product) ProductInput {
	return ProductInput{Title: p.Title, Description: p.Description, CategoryID: string(p.CategoryID())}
}

// StaticPageInput is the static page edit form.
type StaticPageInput struct {
	Title   string `form:"title" validate:"notblank,max=255"`
	Content string `form:"content" validate:"notblank"`
	Image   *Upload
}
