package seed

import (
	"context"
	"testing"

	"product-intel/internal/model"
	"product-intel/internal/query"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVendorRepo struct{ mock.Mock }

func (m *mockVendorRepo) GetAll(ctx context.Context) ([]model.Vendor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vendor), args.Error(1)
}

func (m *mockVendorRepo) GetByID(ctx context.Context, id string) (*model.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vendor), args.Error(1)
}

func (m *mockVendorRepo) Upsert(ctx context.Context, v *model.Vendor) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVendorRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockCategoryRepo struct{ mock.Mock }

func (m *mockCategoryRepo) GetAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *mockCategoryRepo) Upsert(ctx context.Context, c *model.Category) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Query(ctx context.Context, f *query.CompiledFilter) ([]model.Product, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *mockProductRepo) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProductRepo) Update(ctx context.Context, p *model.Product) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type staticSource []byte

func (s staticSource) Fetch(_ context.Context) ([]byte, error) {
	return []byte(s), nil
}

const seedDoc = `{
	"vendors": [
		{"id": "v1", "name": "Aruba", "website": "https://arubanetworks.com"}
	],
	"categories": [
		{
			"id": "wireless_ap",
			"name": "Wireless Access Points",
			"attribute_schema": {
				"properties": {
					"wifi_standard": {"type": "string", "enum": ["wifi6", "wifi6e"]},
					"max_throughput_mbps": {"type": "integer"}
				}
			}
		}
	],
	"products": [
		{
			"sku": "AP-650",
			"vendor_id": "v1",
			"category_id": "wireless_ap",
			"name": "AP 650",
			"list_price": "899.00",
			"attributes": {"wifi_standard": "wifi6e", "max_throughput_mbps": 5400}
		}
	]
}`

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	vendors := new(mockVendorRepo)
	categories := new(mockCategoryRepo)
	products := new(mockProductRepo)

	vendors.On("Upsert", ctx, mock.AnythingOfType("*model.Vendor")).Return(nil)
	categories.On("Upsert", ctx, mock.AnythingOfType("*model.Category")).Return(nil)
	products.On("GetBySKU", ctx, "AP-650").Return(nil, nil)

	var created *model.Product
	products.On("Create", ctx, mock.AnythingOfType("*model.Product")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.Product) }).
		Return(nil)

	loader := NewLoader(vendors, categories, products, zerolog.Nop())
	require.NoError(t, loader.Load(ctx, staticSource(seedDoc)))

	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, model.LifecycleActive, created.LifecycleStatus)
	// attributes pass through coercion, so the JSON number lands as int64
	assert.Equal(t, int64(5400), created.Attributes["max_throughput_mbps"])
	require.NotNil(t, created.ListPrice)
	assert.Equal(t, "899", created.ListPrice.String())

	vendors.AssertExpectations(t)
	categories.AssertExpectations(t)
	products.AssertExpectations(t)
}

func TestLoader_Load_UpdatesExistingBySKU(t *testing.T) {
	ctx := context.Background()

	vendors := new(mockVendorRepo)
	categories := new(mockCategoryRepo)
	products := new(mockProductRepo)

	vendors.On("Upsert", ctx, mock.Anything).Return(nil)
	categories.On("Upsert", ctx, mock.Anything).Return(nil)

	existing := &model.Product{ID: "existing-id", SKU: "AP-650"}
	products.On("GetBySKU", ctx, "AP-650").Return(existing, nil)

	var updated *model.Product
	products.On("Update", ctx, mock.AnythingOfType("*model.Product")).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*model.Product) }).
		Return(true, nil)

	loader := NewLoader(vendors, categories, products, zerolog.Nop())
	require.NoError(t, loader.Load(ctx, staticSource(seedDoc)))

	require.NotNil(t, updated)
	assert.Equal(t, "existing-id", updated.ID)
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoader_Load_RejectsInvalidProductAttributes(t *testing.T) {
	ctx := context.Background()

	vendors := new(mockVendorRepo)
	categories := new(mockCategoryRepo)
	products := new(mockProductRepo)

	vendors.On("Upsert", ctx, mock.Anything).Return(nil)
	categories.On("Upsert", ctx, mock.Anything).Return(nil)

	doc := `{
		"vendors": [],
		"categories": [
			{"id": "wireless_ap", "name": "APs", "attribute_schema": {"properties": {"wifi_standard": {"type": "string", "enum": ["wifi6"]}}}}
		],
		"products": [
			{"sku": "BAD-1", "vendor_id": "v1", "category_id": "wireless_ap", "name": "Bad", "attributes": {"wifi_standard": "wifi9"}}
		]
	}`

	loader := NewLoader(vendors, categories, products, zerolog.Nop())
	err := loader.Load(ctx, staticSource(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD-1")
	products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLoader_Load_MalformedDocument(t *testing.T) {
	loader := NewLoader(new(mockVendorRepo), new(mockCategoryRepo), new(mockProductRepo), zerolog.Nop())
	err := loader.Load(context.Background(), staticSource(`{"vendors": [}`))
	assert.Error(t, err)
}
