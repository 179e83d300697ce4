package repositories

import (
	"context"

	"spinecrm/internal/models"
)

type ProspectProductRepository interface {
	Create(ctx context.Context, link *models.ProspectProduct) error
	Exists(ctx context.Context, prospectID, productID int64) (bool, error)
	ListByProspect(ctx context.Context, prospectID int64) ([]*models.ProspectProduct, error)
}

type prospectProductRepo struct {
	db DBTX
}

func NewProspectProductRepository(db DBTX) ProspectProductRepository {
	return &prospectProductRepo{db: db}
}

func (r *prospectProductRepo) Create(ctx context.Context, link *models.ProspectProduct) error {
	query := `
		INSERT INTO prospect_products (prospect_id, product_id, notes)
		VALUES ($1, $2, $3)
		RETURNING id, added_at
	`
	return r.db.QueryRow(ctx, query, link.ProspectID, link.ProductID, link.Notes).
		Scan(&link.ID, &link.AddedAt)
}

func (r *prospectProductRepo) Exists(ctx context.Context, prospectID, productID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM prospect_products WHERE prospect_id = $1 AND product_id = $2)`
	err := r.db.QueryRow(ctx, query, prospectID, productID).Scan(&exists)
	return exists, err
}

func (r *prospectProductRepo) ListByProspect(ctx context.Context, prospectID int64) ([]*models.ProspectProduct, error) {
	query := `
		SELECT id, prospect_id, product_id, added_at, notes
		FROM prospect_products
		WHERE prospect_id = $1
		ORDER BY id ASC
	`
	rows, err := r.db.Query(ctx, query, prospectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*models.ProspectProduct, 0)
	for rows.Next() {
		link := &models.ProspectProduct{}
		if err := rows.Scan(&link.ID, &link.ProspectID, &link.ProductID, &link.AddedAt, &link.Notes); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}
