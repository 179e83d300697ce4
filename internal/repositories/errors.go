package repositories

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names declared in the schema
const (
	ConstraintProductItemNumber = "products_item_number_key"
	ConstraintProspectEmail     = "prospects_email_key"
	ConstraintProspectProduct   = "uix_prospect_product"
	ConstraintLinkProspectFK    = "prospect_products_prospect_id_fkey"
	ConstraintLinkProductFK     = "prospect_products_product_id_fkey"
)

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// UniqueViolation reports whether err is a unique constraint violation and
// which constraint was hit
func UniqueViolation(err error) (string, bool) {
	return pgErrorWithCode(err, pgerrcode.UniqueViolation)
}

// ForeignKeyViolation reports whether err is a foreign key violation and
// which constraint was hit
func ForeignKeyViolation(err error) (string, bool) {
	return pgErrorWithCode(err, pgerrcode.ForeignKeyViolation)
}

func pgErrorWithCode(err error, code string) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr.ConstraintName, true
	}
	return "", false
}
