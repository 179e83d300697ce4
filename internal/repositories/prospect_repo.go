package repositories

import (
	"context"
	"fmt"
	"strings"

	"spinecrm/internal/models"

	"github.com/jackc/pgx/v5"
)

const prospectColumns = `id, first_name, last_name, email, phone_number, position, company_name, ` +
	`company_size, market, source, source_notes, status, created_at, updated_at`

var prospectUpdatable = map[string]bool{
	"first_name":   true,
	"last_name":    true,
	"email":        true,
	"phone_number": true,
	"position":     true,
	"company_name": true,
	"company_size": true,
	"market":       true,
	"source":       true,
	"source_notes": true,
	"status":       true,
}

type ProspectRepository interface {
	Create(ctx context.Context, prospect *models.Prospect) error
	GetByID(ctx context.Context, id int64) (*models.Prospect, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.ProspectFilter) ([]*models.Prospect, error)
	Update(ctx context.Context, id int64, changes map[string]any) (*models.Prospect, error)
	Delete(ctx context.Context, id int64) error
}

type prospectRepo struct {
	db DBTX
}

func NewProspectRepository(db DBTX) ProspectRepository {
	return &prospectRepo{db: db}
}

func (r *prospectRepo) Create(ctx context.Context, prospect *models.Prospect) error {
	query := `
		INSERT INTO prospects (first_name, last_name, email, phone_number, position, company_name,
			company_size, market, source, source_notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		prospect.FirstName, prospect.LastName, prospect.Email, prospect.PhoneNumber, prospect.Position,
		prospect.CompanyName, prospect.CompanySize, prospect.Market, string(prospect.Source),
		prospect.SourceNotes, string(prospect.Status),
	).Scan(&prospect.ID, &prospect.CreatedAt, &prospect.UpdatedAt)
}

func (r *prospectRepo) GetByID(ctx context.Context, id int64) (*models.Prospect, error) {
	query := `SELECT ` + prospectColumns + ` FROM prospects WHERE id = $1`
	return scanProspect(r.db.QueryRow(ctx, query, id))
}

func (r *prospectRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM prospects WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *prospectRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM prospects WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *prospectRepo) List(ctx context.Context, filter models.ProspectFilter) ([]*models.Prospect, error) {
	var conditions []string
	var args []any

	if filter.Source != nil {
		args = append(args, string(*filter.Source))
		conditions = append(conditions, fmt.Sprintf("source = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, filter.Limit, filter.Skip)
	query := fmt.Sprintf("SELECT %s FROM prospects%s ORDER BY id ASC LIMIT $%d OFFSET $%d",
		prospectColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prospects := make([]*models.Prospect, 0)
	for rows.Next() {
		prospect, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, prospect)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prospects, nil
}

func (r *prospectRepo) Update(ctx context.Context, id int64, changes map[string]any) (*models.Prospect, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}
	query, args, err := buildUpdate("prospects", prospectUpdatable, changes, id, prospectColumns)
	if err != nil {
		return nil, err
	}
	return scanProspect(r.db.QueryRow(ctx, query, args...))
}

// Delete removes the prospect and, through the cascading foreign key, all
// of its product links. Returns pgx.ErrNoRows when nothing matched.
func (r *prospectRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProspect(row pgx.Row) (*models.Prospect, error) {
	p := &models.Prospect{}
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PhoneNumber, &p.Position,
		&p.CompanyName, &p.CompanySize, &p.Market, &p.Source, &p.SourceNotes, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
