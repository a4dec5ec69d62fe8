package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-intel/internal/model"
	"product-intel/internal/query"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Query(ctx context.Context, spec query.FilterSpec) (*model.ProductListResponse, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductListResponse), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*model.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductResponse), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req *model.ProductRequest) (*model.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductResponse), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductResponse), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestProductHandler_List_ParsesQueryParameters(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, zerolog.Nop())

	var captured query.FilterSpec
	mockService.On("Query", mock.Anything, mock.AnythingOfType("query.FilterSpec")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(query.FilterSpec) }).
		Return(&model.ProductListResponse{Items: []model.ProductResponse{}}, nil)

	url := "/api/products?categoryId=wireless_ap&vendorId=v1&vendorId=v2" +
		"&lifecycleStatus=active&minPrice=100.50&maxPrice=900&search=ap" +
		"&sortBy=list_price&sortOrder=desc&offset=20&limit=10" +
		"&attr.wifi_standard=wifi6e&attr.bands=5GHz&attr.bands=6GHz"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "wireless_ap", captured.CategoryID)
	assert.Equal(t, []string{"v1", "v2"}, captured.VendorIDs)
	assert.Equal(t, "active", captured.LifecycleStatus)
	require.NotNil(t, captured.MinPrice)
	assert.Equal(t, "100.5", captured.MinPrice.String())
	assert.Equal(t, "ap", captured.Search)
	assert.Equal(t, "list_price", captured.SortBy)
	assert.Equal(t, 20, captured.Offset)
	assert.Equal(t, 10, captured.Limit)
	assert.Equal(t, "wifi6e", captured.AttributeFilters["wifi_standard"])
	assert.Equal(t, []any{"5GHz", "6GHz"}, captured.AttributeFilters["bands"])
}

func TestProductHandler_List_RejectsBadParams(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "bad min price", url: "/api/products?minPrice=cheap"},
		{name: "bad offset", url: "/api/products?offset=abc"},
		{name: "bad limit", url: "/api/products?limit=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			h := NewProductHandler(mockService, zerolog.Nop())

			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var body model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, model.ErrCodeBadFilter, body.Error)
			mockService.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
		})
	}
}

func TestProductHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		serviceResult  *model.ProductResponse
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "found",
			serviceResult:  &model.ProductResponse{Product: model.Product{ID: "p1", Name: "AP"}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not found maps to 404",
			serviceErr:     model.NewNotFoundError("product", "p1"),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal error maps to 500",
			serviceErr:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			h := NewProductHandler(mockService, zerolog.Nop())

			mockService.On("Get", mock.Anything, "p1").Return(tt.serviceResult, tt.serviceErr)

			req := httptest.NewRequest(http.MethodGet, "/api/products/p1", nil)
			req.SetPathValue("id", "p1")
			rec := httptest.NewRecorder()

			h.Get(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, zerolog.Nop())

		mockService.On("Create", mock.Anything, mock.AnythingOfType("*model.ProductRequest")).
			Return(&model.ProductResponse{Product: model.Product{ID: "p1"}}, nil)

		body := `{"sku": "AP-650", "name": "AP 650", "vendorId": "v1", "categoryId": "wireless_ap"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()

		h.Create(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("malformed JSON maps to 400", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{"sku":`))
		rec := httptest.NewRecorder()

		h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown fields rejected", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/products",
			bytes.NewBufferString(`{"sku": "X", "colour": "red"}`))
		rec := httptest.NewRecorder()

		h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error carries field details", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, zerolog.Nop())

		mockService.On("Create", mock.Anything, mock.Anything).
			Return(nil, model.NewValidationError([]model.FieldError{
				{Key: "sku", Code: model.FieldRequired, Message: "is required"},
			}))

		req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()

		h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, model.ErrCodeValidation, body.Error)
		assert.NotNil(t, body.Details["fields"])
	})
}

func TestProductHandler_Delete(t *testing.T) {
	mockService := new(MockProductService)
	h := NewProductHandler(mockService, zerolog.Nop())

	mockService.On("Delete", mock.Anything, "p1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	h.Delete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
