package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"product-intel/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the
// catalogue schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedCatalog inserts a small fixed catalogue: two vendors, one category with
// an attribute schema and four wireless access points.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	vendors := []struct{ id, name string }{
		{"v-aruba", "Aruba"},
		{"v-ubiquiti", "Ubiquiti"},
	}
	for _, v := range vendors {
		_, err := pool.Exec(ctx,
			"INSERT INTO vendors (id, name) VALUES ($1, $2)",
			v.id, v.name,
		)
		if err != nil {
			t.Fatalf("failed to seed vendor %s: %v", v.id, err)
		}
	}

	categorySchema := `{
		"properties": {
			"wifi_standard": {"type": "string", "enum": ["wifi5", "wifi6", "wifi6e"]},
			"max_throughput_mbps": {"type": "integer", "label": "Max Throughput (Mbps)"},
			"poe_support": {"type": "boolean"}
		}
	}`
	_, err := pool.Exec(ctx,
		"INSERT INTO categories (id, name, attribute_schema) VALUES ($1, $2, $3)",
		"wireless_ap", "Wireless Access Points", []byte(categorySchema),
	)
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	products := []struct {
		id, sku, vendorID, name string
		price                   string
		attrs                   string
	}{
		{"p1", "AP-650", "v-aruba", "AP 650", "899.00",
			`{"wifi_standard": "wifi6e", "max_throughput_mbps": 5400, "poe_support": true}`},
		{"p2", "AP-505", "v-aruba", "AP 505", "419.00",
			`{"wifi_standard": "wifi6", "max_throughput_mbps": 1774, "poe_support": true}`},
		{"p3", "U6-LR", "v-ubiquiti", "U6 Long Range", "179.00",
			`{"wifi_standard": "wifi6", "max_throughput_mbps": 3000, "poe_support": true}`},
		{"p4", "U6-LITE", "v-ubiquiti", "U6 Lite", "99.00",
			`{"wifi_standard": "wifi6", "max_throughput_mbps": 1500, "poe_support": false}`},
	}
	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, sku, vendor_id, category_id, name, list_price, attributes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.id, p.sku, p.vendorID, "wireless_ap", p.name, p.price, []byte(p.attrs),
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"products", "categories", "vendors"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
