package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"spinecrm/internal/models"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var productRowColumns = []string{"id", "item_number", "name", "short_description", "created_at", "updated_at"}

type ProductRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ProductRepository
	now     time.Time
	context context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepository(mock)
	suite.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) TestCreate_Success() {
	product := &models.Product{ItemNumber: "SP-001", Name: "Spine Board", ShortDescription: stringPtr("Rigid board")}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (item_number, name, short_description) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`)).
		WithArgs(product.ItemNumber, product.Name, product.ShortDescription).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), suite.now, suite.now))

	err := suite.repo.Create(suite.context, product)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), product.ID)
	assert.Equal(suite.T(), suite.now, product.CreatedAt)
}

func (suite *ProductRepoTestSuite) TestCreate_DatabaseError() {
	product := &models.Product{ItemNumber: "SP-001", Name: "Spine Board"}

	suite.mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(product.ItemNumber, product.Name, product.ShortDescription).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, product)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *ProductRepoTestSuite) TestGetByID_Success() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + productColumns + ` FROM products WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(productRowColumns).
			AddRow(int64(3), "SP-003", "Collar", (*string)(nil), suite.now, suite.now))

	result, err := suite.repo.GetByID(suite.context, 3)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SP-003", result.ItemNumber)
	assert.Equal(suite.T(), "Collar", result.Name)
	assert.Nil(suite.T(), result.ShortDescription)
}

func (suite *ProductRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, 404)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.True(suite.T(), IsNoRows(err))
	assert.Nil(suite.T(), result)
}

func (suite *ProductRepoTestSuite) TestExistsByItemNumber() {
	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM products WHERE item_number = $1)`)).
		WithArgs("SP-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.ExistsByItemNumber(suite.context, "SP-001")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *ProductRepoTestSuite) TestList_Success() {
	rows := pgxmock.NewRows(productRowColumns).
		AddRow(int64(1), "A-1", "First", stringPtr("one"), suite.now, suite.now).
		AddRow(int64(2), "A-2", "Second", (*string)(nil), suite.now, suite.now)

	suite.mock.ExpectQuery(`SELECT .* FROM products ORDER BY id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	result, err := suite.repo.List(suite.context, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), "First", result[0].Name)
	assert.Equal(suite.T(), "one", *result[0].ShortDescription)
	assert.Equal(suite.T(), int64(2), result[1].ID)
}

func (suite *ProductRepoTestSuite) TestList_EmptyResult() {
	suite.mock.ExpectQuery(`SELECT .* FROM products ORDER BY id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(0, 5).
		WillReturnRows(pgxmock.NewRows(productRowColumns))

	result, err := suite.repo.List(suite.context, 0, 5)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), result)
	assert.Empty(suite.T(), result)
}

func (suite *ProductRepoTestSuite) TestUpdate_OnlyChangedColumns() {
	changes := map[string]any{"short_description": (*string)(nil), "name": "Renamed"}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products SET name = $1, short_description = $2, updated_at = NOW() WHERE id = $3 RETURNING ` + productColumns)).
		WithArgs("Renamed", (*string)(nil), int64(4)).
		WillReturnRows(pgxmock.NewRows(productRowColumns).
			AddRow(int64(4), "SP-004", "Renamed", (*string)(nil), suite.now, suite.now.Add(time.Minute)))

	result, err := suite.repo.Update(suite.context, 4, changes)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Renamed", result.Name)
	assert.Nil(suite.T(), result.ShortDescription)
}

func (suite *ProductRepoTestSuite) TestUpdate_EmptyChangesReadsRow() {
	suite.mock.ExpectQuery(`SELECT .* FROM products WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(productRowColumns).
			AddRow(int64(4), "SP-004", "Unchanged", (*string)(nil), suite.now, suite.now))

	result, err := suite.repo.Update(suite.context, 4, map[string]any{})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.now, result.UpdatedAt)
}

func (suite *ProductRepoTestSuite) TestUpdate_RejectsUnknownColumn() {
	result, err := suite.repo.Update(suite.context, 4, map[string]any{"id": int64(9)})
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

func (suite *ProductRepoTestSuite) TestDelete_Success() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, 5)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestDelete_NotFound() {
	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, 5)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *ProductRepoTestSuite) TestFindMissing_PreservesInputOrder() {
	ids := []int64{9, 1, 4}

	suite.mock.ExpectQuery(regexp.QuoteMeta(`SELECT id FROM products WHERE id = ANY($1)`)).
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))

	missing, err := suite.repo.FindMissing(suite.context, ids)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int64{9, 4}, missing)
}

func (suite *ProductRepoTestSuite) TestFindMissing_NoIDs() {
	missing, err := suite.repo.FindMissing(suite.context, nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), missing)
}

func (suite *ProductRepoTestSuite) TestListByProspect_OrderedByLink() {
	rows := pgxmock.NewRows(productRowColumns).
		AddRow(int64(8), "B-8", "Later id", (*string)(nil), suite.now, suite.now).
		AddRow(int64(2), "B-2", "Earlier id", (*string)(nil), suite.now, suite.now)

	suite.mock.ExpectQuery(`FROM products p JOIN prospect_products pp ON pp.product_id = p.id WHERE pp.prospect_id = \$1 ORDER BY pp.id ASC`).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	result, err := suite.repo.ListByProspect(suite.context, 11)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), int64(8), result[0].ID)
	assert.Equal(suite.T(), int64(2), result[1].ID)
}

func (suite *ProductRepoTestSuite) TestContextCancellation() {
	cancelledCtx, cancel := context.WithCancel(suite.context)
	cancel()

	suite.mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnError(context.Canceled)

	err := suite.repo.Delete(cancelledCtx, 1)
	assert.Equal(suite.T(), context.Canceled, err)
}

func stringPtr(s string) *string {
	return &s
}
