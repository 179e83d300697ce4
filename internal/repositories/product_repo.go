package repositories

import (
	"context"

	"spinecrm/internal/models"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, item_number, name, short_description, created_at, updated_at`

var productUpdatable = map[string]bool{
	"item_number":       true,
	"name":              true,
	"short_description": true,
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	ExistsByItemNumber(ctx context.Context, itemNumber string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id int64, changes map[string]any) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	FindMissing(ctx context.Context, ids []int64) ([]int64, error)
	ListByProspect(ctx context.Context, prospectID int64) ([]*models.Product, error)
}

type productRepo struct {
	db DBTX
}

func NewProductRepository(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (item_number, name, short_description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, product.ItemNumber, product.Name, product.ShortDescription).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) ExistsByItemNumber(ctx context.Context, itemNumber string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE item_number = $1)`
	err := r.db.QueryRow(ctx, query, itemNumber).Scan(&exists)
	return exists, err
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// Update applies only the given columns. An empty change set performs no
// write and returns the stored row.
func (r *productRepo) Update(ctx context.Context, id int64, changes map[string]any) (*models.Product, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}
	query, args, err := buildUpdate("products", productUpdatable, changes, id, productColumns)
	if err != nil {
		return nil, err
	}
	return scanProduct(r.db.QueryRow(ctx, query, args...))
}

// Delete removes the product; its prospect links go with it through the
// ON DELETE CASCADE foreign key. Returns pgx.ErrNoRows when nothing matched.
func (r *productRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FindMissing returns the ids, in input order, that have no product row
func (r *productRepo) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// ListByProspect returns the products a prospect is linked to, in the order
// the links were made
func (r *productRepo) ListByProspect(ctx context.Context, prospectID int64) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.item_number, p.name, p.short_description, p.created_at, p.updated_at
		FROM products p
		JOIN prospect_products pp ON pp.product_id = p.id
		WHERE pp.prospect_id = $1
		ORDER BY pp.id ASC
	`
	rows, err := r.db.Query(ctx, query, prospectID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.ItemNumber, &product.Name, &product.ShortDescription,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func collectProducts(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
