package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"spinecrm/internal/repositories"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_ExecutesSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS products")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, Migrate(context.Background(), mock))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	err = Migrate(context.Background(), mock)
	assert.ErrorContains(t, err, "apply schema")
}

func TestSchema_DeclaresConstraintsUsedByRepositories(t *testing.T) {
	ddl := Schema()
	for _, name := range []string{
		repositories.ConstraintProductItemNumber,
		repositories.ConstraintProspectEmail,
		repositories.ConstraintProspectProduct,
		repositories.ConstraintLinkProspectFK,
		repositories.ConstraintLinkProductFK,
	} {
		assert.True(t, strings.Contains(ddl, name), name)
	}
	assert.Equal(t, 2, strings.Count(ddl, "ON DELETE CASCADE"))
}
