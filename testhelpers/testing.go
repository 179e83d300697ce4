package testhelpers

import (
	"context"
	"os"
	"testing"

	"spinecrm/internal/models"
	"spinecrm/internal/repositories"
	"spinecrm/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, applies the schema and empties
// the CRM tables. The test is skipped in -short mode or without a database.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE prospect_products, prospects, products RESTART IDENTITY CASCADE`); err != nil {
		pool.Close()
		t.Fatalf("Failed to truncate test tables: %v", err)
	}

	return &TestDB{Pool: pool, Cleanup: pool.Close}
}

// SetupTestProduct inserts a product directly through the repository
func SetupTestProduct(t *testing.T, db *TestDB, itemNumber, name string) *models.Product {
	t.Helper()

	product := &models.Product{ItemNumber: itemNumber, Name: name}
	if err := repositories.NewProductRepository(db.Pool).Create(context.Background(), product); err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *TestDB, table string) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
