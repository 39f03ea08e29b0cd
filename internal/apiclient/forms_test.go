package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eximroyals/storefront/internal/domain"
	apperrors "github.com/eximroyals/storefront/pkg/errors"
)

func TestSubmitEnquiry_GeneralEnquiryOmitsProductID(t *testing.T) {
	var form map[string][]string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/enquiries", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = r.MultipartForm.Value
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	}))

	err := c.SubmitEnquiry(context.Background(), domain.Enquiry{
		FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Message: "Price list please",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Asha"}, form["firstName"])
	assert.Equal(t, []string{""}, form["country"])
	assert.Equal(t, []string{"Price list please"}, form["message"])
	assert.NotContains(t, form, "productId")
}

func TestSubmitEnquiry_WithProduct(t *testing.T) {
	var productID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		productID = r.FormValue("productId")
	}))

	err := c.SubmitEnquiry(context.Background(), domain.Enquiry{FirstName: "A", ProductID: "10"})
	require.NoError(t, err)
	assert.Equal(t, "10", productID)
}

func TestSubmitEnquiry_ServerErrorIsNetworkFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.SubmitEnquiry(context.Background(), domain.Enquiry{FirstName: "A"})
	assert.True(t, errors.Is(err, apperrors.ErrNetworkFailure))
}

func TestCreateProduct_SendsFilesAndFields(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Turmeric", r.FormValue("title"))
		assert.Equal(t, "1", r.FormValue("categoryId"))

		img, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		data, _ := io.ReadAll(img)
		assert.Equal(t, "turmeric.jpg", hdr.Filename)
		assert.Equal(t, "image/jpeg", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "JPEGDATA", string(data))

		pdf, hdr, err := r.FormFile("pdf")
		require.NoError(t, err)
		data, _ = io.ReadAll(pdf)
		assert.Equal(t, "product sheet.pdf", hdr.Filename)
		assert.Equal(t, "%PDF", string(data))

		writeJSON(w, http.StatusOK, map[string]any{"id": 10})
	}))

	err := c.WithSession(staticToken("admin-token")).CreateProduct(context.Background(), domain.ProductInput{
		Title:      "Turmeric",
		CategoryID: "1",
		Image:      upload("turmeric.jpg", "image/jpeg", "JPEGDATA"),
		PDF:        upload("product sheet.pdf", "application/pdf", "%PDF"),
	})
	require.NoError(t, err)
}

func TestUpdateCategory_WithoutNewImageOmitsPart(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/categories/2", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Grains", r.FormValue("title"))
		assert.Empty(t, r.MultipartForm.File)
	}))

	err := c.UpdateCategory(context.Background(), "2", domain.CategoryInput{Title: "Grains"})
	require.NoError(t, err)
}

func TestUpdateCategory_UnknownIsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := c.UpdateCategory(context.Background(), "404", domain.CategoryInput{Title: "X"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteProduct(t *testing.T) {
	var method, path string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteProduct(context.Background(), "10"))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/api/products/10", path)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email != "admin@dndglobal.com" || body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: "jwt-token"})
	}))

	tok, err := c.Login(context.Background(), "admin@dndglobal.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", tok)

	_, err = c.Login(context.Background(), "admin@dndglobal.com", "wrong")
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestLogin_MissingTokenIsNetworkFailure(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"type": "Bearer"})
	}))

	_, err := c.Login(context.Background(), "a@b.co", "x")
	assert.True(t, errors.Is(err, apperrors.ErrNetworkFailure))
}

func TestStaticPages(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/api/static-pages/about-us", r.URL.Path)
			_, _ = io.WriteString(w, `{"id":3,"title":"Our Story","content":"Since 2012"}`)
		case http.MethodPut:
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "New", r.FormValue("title"))
			assert.Equal(t, "Body", r.FormValue("content"))
		}
	}))

	page, err := c.GetStaticPage(context.Background(), domain.PageAboutUs)
	require.NoError(t, err)
	assert.Equal(t, domain.StaticPage{Key: domain.PageAboutUs, Title: "Our Story", Content: "Since 2012"}, page)

	require.NoError(t, c.UpdateStaticPage(context.Background(), domain.PageAboutUs, domain.StaticPageInput{Title: "New", Content: "Body"}))
}
