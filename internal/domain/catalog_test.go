package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ID
	}{
		{"number", `12`, "12"},
		{"large number", `9007199254740993`, "9007199254740993"},
		{"string", `"abc-1"`, "abc-1"},
		{"padded string", `" 7 "`, "7"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestID_UnmarshalJSON_RejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestProduct_DecodesAPIShape(t *testing.T) {
	raw := `{"id":10,"title":"Turmeric","description":"Golden","imageUrl":"turmeric.jpg","pdfUrl":"",
		"category":{"id":1,"title":"Spices","description":"","imageUrl":null}}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, ID("10"), p.ID)
	assert.Equal(t, ID("1"), p.CategoryID())
	assert.Equal(t, "Spices", p.Category.Title)
	assert.Empty(t, p.Category.ImageURL)
}

func TestProduct_WithoutCategory(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":11,"title":"Rice","category":null}`), &p))
	assert.Nil(t, p.Category)
	assert.True(t, p.CategoryID().IsZero())
}

func TestEnquiryRecord_Timestamps(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{`"2024-03-05T10:15:30"`, time.Date(2024, 3, 5, 10, 15, 30, 0, time.UTC)},
		{`"2024-03-05T10:15:30.123456"`, time.Date(2024, 3, 5, 10, 15, 30, 123456000, time.UTC)},
		{`"2024-03-05T10:15:30Z"`, time.Date(2024, 3, 5, 10, 15, 30, 0, time.UTC)},
	}

	for _, tt := range tests {
		var rec EnquiryRecord
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"createdAt":`+tt.raw+`}`), &rec))
		assert.True(t, tt.want.Equal(rec.CreatedAt.Time), tt.raw)
		assert.Equal(t, "05 Mar 2024 10:15", rec.CreatedAt.Format())
	}
}

func TestEnquiryRecord_UnknownTimestamp(t *testing.T) {
	var rec EnquiryRecord
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"firstName":"Asha","lastName":"Rao","createdAt":"yesterday"}`), &rec))
	assert.Equal(t, "-", rec.CreatedAt.Format())
	assert.Equal(t, "Asha Rao", rec.FullName())
}

func TestMediaURL(t *testing.T) {
	tests := []struct {
		name, base, file, want string
	}{
		{"plain", "http://localhost:8080", "rice.jpg", "http://localhost:8080/uploads/rice.jpg"},
		{"trailing slash", "http://localhost:8080/", "rice.jpg", "http://localhost:8080/uploads/rice.jpg"},
		{"spaces escaped", "https://cdn.example.com", "red chilli.png", "https://cdn.example.com/uploads/red%20chilli.png"},
		{"hash and slash escaped", "https://cdn.example.com", "a#b/c.pdf", "https://cdn.example.com/uploads/a%23b%2Fc.pdf"},
		{"empty", "https://cdn.example.com", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaURL(tt.base, tt.file))
		})
	}
}

func TestEnquiryInput_Enquiry(t *testing.T) {
	in := EnquiryInput{FirstName: " Asha ", LastName: "Rao", Email: " asha@example.com ", ProductID: " ", Message: "Need 20t"}
	e := in.Enquiry()

	assert.Equal(t, "Asha", e.FirstName)
	assert.Equal(t, "asha@example.com", e.Email)
	assert.True(t, e.ProductID.IsZero())
	assert.Equal(t, "Need 20t", e.Message)
}

func TestInputFrom_Prepopulates(t *testing.T) {
	p := Product{ID: "10", Title: "Turmeric", Description: "Golden", Category: &Category{ID: "1"}}
	assert.Equal(t, ProductInput{Title: "Turmeric", Description: "Golden", CategoryID: "1"}, ProductInputFrom(p))

	c := Category{ID: "1", Title: "Spices", Description: "Hot"}
	assert.Equal(t, CategoryInput{Title: "Spices", Description: "Hot"}, CategoryInputFrom(c))
}
