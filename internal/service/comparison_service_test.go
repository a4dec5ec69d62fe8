package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"product-intel/internal/compare"
	"product-intel/internal/config"
	"product-intel/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newComparisonService(t *testing.T, products *MockProductRepository, vendors *MockVendorRepository, categories *MockCategoryRepository, renderer *MockRenderer, outputDir string) ComparisonService {
	t.Helper()
	return NewComparisonService(products, vendors, categories, testRegistry(t), renderer, config.PDFConfig{
		OutputDir:   outputDir,
		ExpiryHours: 24,
	}, zerolog.Nop())
}

func comparisonFixtures() []model.Product {
	p1 := newProductFixture("p1")
	p2 := newProductFixture("p2")
	p2.VendorID = "v2"
	return []model.Product{p1, p2}
}

func TestComparisonService_Create(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mockProducts := new(MockProductRepository)
	mockVendors := new(MockVendorRepository)
	mockCategories := new(MockCategoryRepository)
	mockRenderer := new(MockRenderer)
	svc := newComparisonService(t, mockProducts, mockVendors, mockCategories, mockRenderer, dir)

	mockProducts.On("GetByIDs", ctx, []string{"p2", "p1"}).Return(comparisonFixtures(), nil)
	mockCategories.On("GetByID", ctx, "wireless_ap").
		Return(&model.Category{ID: "wireless_ap", Name: "Wireless Access Points"}, nil)
	mockVendors.On("GetAll", ctx).
		Return([]model.Vendor{{ID: "v1", Name: "Aruba"}, {ID: "v2", Name: "Ubiquiti"}}, nil)
	mockRenderer.On("Render", mock.AnythingOfType("*compare.Table")).Return([]byte("%PDF-stub"), nil)

	resp, err := svc.Create(ctx, compare.Request{ProductIDs: []string{"p2", "p1"}})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ComparisonID)
	assert.Equal(t, "/api/comparisons/"+resp.ComparisonID+"/pdf", resp.PDFURL)
	assert.Equal(t, 2, resp.ProductsCompared)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), resp.ExpiresAt, time.Minute)

	// the document landed on disk and resolves through PDFPath
	path, expired, err := svc.PDFPath(resp.ComparisonID)
	require.NoError(t, err)
	assert.False(t, expired)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), data)

	// product order in the table follows the request, not storage
	table := mockRenderer.Calls[0].Arguments.Get(0).(*compare.Table)
	assert.Equal(t, []string{"AP p2", "AP p1"}, table.Header)
}

func TestComparisonService_Build_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		ids      []string
		found    []model.Product
		wantCode string
	}{
		{
			name:     "too few products",
			ids:      []string{"p1"},
			wantCode: model.ErrCodeInvalidComparisonSize,
		},
		{
			name:     "duplicate ids",
			ids:      []string{"p1", "p1"},
			wantCode: model.ErrCodeDuplicateProducts,
		},
		{
			name:     "all missing ids reported",
			ids:      []string{"p1", "ghost1", "ghost2"},
			found:    comparisonFixtures()[:1],
			wantCode: model.ErrCodeProductNotFound,
		},
		{
			name: "mixed categories rejected",
			ids:  []string{"p1", "p2"},
			found: func() []model.Product {
				ps := comparisonFixtures()
				ps[1].CategoryID = "switch"
				return ps
			}(),
			wantCode: model.ErrCodeMixedCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProducts := new(MockProductRepository)
			svc := newComparisonService(t, mockProducts, new(MockVendorRepository), new(MockCategoryRepository), new(MockRenderer), t.TempDir())

			if tt.found != nil {
				mockProducts.On("GetByIDs", ctx, tt.ids).Return(tt.found, nil)
			}

			_, err := svc.Build(ctx, compare.Request{ProductIDs: tt.ids})
			require.Error(t, err)

			var de *model.DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantCode, de.Code)
		})
	}
}

func TestComparisonService_Build_MissingIDsListsEveryOne(t *testing.T) {
	ctx := context.Background()

	mockProducts := new(MockProductRepository)
	svc := newComparisonService(t, mockProducts, new(MockVendorRepository), new(MockCategoryRepository), new(MockRenderer), t.TempDir())

	ids := []string{"p1", "ghost1", "ghost2"}
	mockProducts.On("GetByIDs", ctx, ids).Return(comparisonFixtures()[:1], nil)

	_, err := svc.Build(ctx, compare.Request{ProductIDs: ids})
	var de *model.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"ghost1", "ghost2"}, de.Details["missingIds"])
}

func TestComparisonService_PDFPath_Missing(t *testing.T) {
	svc := newComparisonService(t, new(MockProductRepository), new(MockVendorRepository), new(MockCategoryRepository), new(MockRenderer), t.TempDir())

	_, _, err := svc.PDFPath("nope")
	var de *model.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, model.ErrCodeNotFound, de.Code)
}

func TestComparisonService_PDFPath_Expired(t *testing.T) {
	dir := t.TempDir()
	svc := newComparisonService(t, new(MockProductRepository), new(MockVendorRepository), new(MockCategoryRepository), new(MockRenderer), dir)

	stale := time.Now().UTC().Add(-48 * time.Hour).Format("20060102150405")
	name := "11111111-1111-1111-1111-111111111111_" + stale + ".pdf"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old"), 0o644))

	_, expired, err := svc.PDFPath("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)
	assert.True(t, expired)

	// expired documents are removed on access
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestComparisonService_CleanupExpired(t *testing.T) {
	dir := t.TempDir()
	svc := newComparisonService(t, new(MockProductRepository), new(MockVendorRepository), new(MockCategoryRepository), new(MockRenderer), dir)

	now := time.Now().UTC()
	fresh := "22222222-2222-2222-2222-222222222222_" + now.Format("20060102150405") + ".pdf"
	stale := "33333333-3333-3333-3333-333333333333_" + now.Add(-30*time.Hour).Format("20060102150405") + ".pdf"
	malformed := "not-a-comparison.pdf"
	for _, name := range []string{fresh, stale, malformed} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed := svc.CleanupExpired()
	assert.Equal(t, 2, removed)

	_, err := os.Stat(filepath.Join(dir, fresh))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, stale))
	assert.True(t, os.IsNotExist(err))
}
