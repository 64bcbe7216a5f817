package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "spotifyeda/internal/errors"
)

type saveRequest struct {
	Filename string `json:"filename" validate:"required,filename"`
	Bins     int    `json:"bins" validate:"gte=1,lte=200"`
	Format   string `json:"format" validate:"oneof=csv json"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		req        saveRequest
		wantFields []string
	}{
		{"valid", saveRequest{Filename: "clean.csv", Bins: 30, Format: "csv"}, nil},
		{"traversal", saveRequest{Filename: "../etc/passwd", Bins: 30, Format: "csv"}, []string{"filename"}},
		{"missing filename and bad bins", saveRequest{Bins: 0, Format: "json"}, []string{"filename", "bins"}},
		{"bad format", saveRequest{Filename: "a.csv", Bins: 1, Format: "xml"}, []string{"format"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.req)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			apiErr, ok := err.(*apierrors.APIError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

			details, ok := apiErr.Details.([]apierrors.ValidationError)
			require.True(t, ok)
			var fields []string
			for _, d := range details {
				fields = append(fields, d.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestQueryParamValidator(t *testing.T) {
	v := NewQueryParamValidator(discardLogger())

	t.Run("enum default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		got, ok := v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/", nil), "format", []string{"csv", "json"}, "csv")
		assert.True(t, ok)
		assert.Equal(t, "csv", got)
	})

	t.Run("enum rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		_, ok := v.ValidateEnum(rec, httptest.NewRequest(http.MethodGet, "/?format=xml", nil), "format", []string{"csv", "json"}, "csv")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec.Body)["error_code"])
	})

	t.Run("bool", func(t *testing.T) {
		rec := httptest.NewRecorder()
		got, ok := v.ValidateBool(rec, httptest.NewRequest(http.MethodGet, "/?normalize=false", nil), "normalize", true)
		assert.True(t, ok)
		assert.False(t, got)

		_, ok = v.ValidateBool(rec, httptest.NewRequest(http.MethodGet, "/?normalize=maybe", nil), "normalize", true)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("int range", func(t *testing.T) {
		rec := httptest.NewRecorder()
		got, ok := v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/?bins=12", nil), "bins", 1, 200, 30)
		assert.True(t, ok)
		assert.Equal(t, 12, got)

		rec = httptest.NewRecorder()
		_, ok = v.ValidateInt(rec, httptest.NewRequest(http.MethodGet, "/?bins=999", nil), "bins", 1, 200, 30)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContentTypeValidator(t *testing.T) {
	h := ContentTypeValidator("text/csv", "multipart/form-data")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"get skips check", http.MethodGet, "", http.StatusOK},
		{"csv accepted", http.MethodPost, "text/csv; charset=utf-8", http.StatusOK},
		{"missing", http.MethodPost, "", http.StatusBadRequest},
		{"unsupported", http.MethodPost, "application/xml", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("a\n1\n"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
