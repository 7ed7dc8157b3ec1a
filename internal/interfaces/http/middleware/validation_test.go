package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type checkoutRequest struct {
		CustomerEmail string `json:"customer_email" binding:"required,email"`
		PaymentMethod string `json:"payment_method" binding:"required,oneof=GATEWAY BANK_TRANSFER ON_DELIVERY"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.POST("/checkout", func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("reports every failed field keyed by json tag", func(t *testing.T) {
		body := strings.NewReader(`{"customer_email": "not-an-email", "payment_method": "CRYPTO"}`)
		req := httptest.NewRequest("POST", "/checkout", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.NotEmpty(t, resp.Error.RequestID)
		assert.Len(t, resp.Error.Fields, 2)
		assert.Equal(t, "Invalid email format", resp.Error.Fields["customer_email"])
		assert.Contains(t, resp.Error.Fields["payment_method"], "Must be one of")
	})

	t.Run("malformed json surfaces the decode error without fields", func(t *testing.T) {
		body := strings.NewReader(`{"customer_email": `)
		req := httptest.NewRequest("POST", "/checkout", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.NotEqual(t, "Request validation failed", resp.Error.Message)
		assert.Empty(t, resp.Error.Fields)
	})

	t.Run("valid payload passes through", func(t *testing.T) {
		body := strings.NewReader(`{"customer_email": "amaka@example.com", "payment_method": "GATEWAY"}`)
		req := httptest.NewRequest("POST", "/checkout", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type sample struct {
		Required string `binding:"required"`
		Email    string `binding:"omitempty,email"`
		MinStr   string `binding:"omitempty,min=3"`
		MaxStr   string `binding:"omitempty,max=5"`
		UUID     string `binding:"omitempty,uuid"`
		Quantity int    `binding:"omitempty,gte=1"`
	}

	v := validator.New()
	v.SetTagName("binding")

	tests := []struct {
		name     string
		input    sample
		field    string
		expected string
	}{
		{name: "required", input: sample{}, field: "Required", expected: "This field is required"},
		{name: "email", input: sample{Required: "x", Email: "nope"}, field: "Email", expected: "Invalid email format"},
		{name: "min string", input: sample{Required: "x", MinStr: "ab"}, field: "MinStr", expected: "Must be at least 3 characters"},
		{name: "max string", input: sample{Required: "x", MaxStr: "toolong"}, field: "MaxStr", expected: "Must be at most 5 characters"},
		{name: "uuid", input: sample{Required: "x", UUID: "not-a-uuid"}, field: "UUID", expected: "Invalid UUID format"},
		{name: "gte", input: sample{Required: "x", Quantity: -1}, field: "Quantity", expected: "Must be greater than or equal to 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			require.Error(t, err)

			var validationErrors validator.ValidationErrors
			require.ErrorAs(t, err, &validationErrors)

			found := false
			for _, fe := range validationErrors {
				if fe.StructField() == tt.field {
					assert.Equal(t, tt.expected, getValidationMessage(fe))
					found = true
				}
			}
			assert.True(t, found, "expected a validation error on %s", tt.field)
		})
	}
}
