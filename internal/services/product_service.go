package services

import (
	"context"
	"fmt"

	"spinecrm/internal/common"
	"spinecrm/internal/logger"
	"spinecrm/internal/metrics"
	"spinecrm/internal/models"
	"spinecrm/internal/repositories"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProductService interface {
	Create(ctx context.Context, in *models.ProductCreate) (*models.Product, error)
	List(ctx context.Context, skip, limit int) ([]*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Update(ctx context.Context, id int64, in *models.ProductUpdate) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	db      repositories.TxStarter
	metrics *metrics.Metrics
}

// NewProductService creates the product service. m may be nil.
func NewProductService(db repositories.TxStarter, m *metrics.Metrics) ProductService {
	return &productService{db: db, metrics: m}
}

func (s *productService) Create(ctx context.Context, in *models.ProductCreate) (*models.Product, error) {
	product := &models.Product{
		ItemNumber:       in.ItemNumber,
		Name:             in.Name,
		ShortDescription: in.ShortDescription,
	}

	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		repo := repositories.NewProductRepository(tx)

		exists, err := repo.ExistsByItemNumber(ctx, in.ItemNumber)
		if err != nil {
			return fmt.Errorf("check item number: %w", err)
		}
		if exists {
			return s.itemNumberConflict(in.ItemNumber)
		}

		if err := repo.Create(ctx, product); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.translate(err, in.ItemNumber)
	}

	s.metrics.ProductCreated()
	logger.FromContext(ctx).Info("product created",
		zap.Int64("product_id", product.ID),
		zap.String("item_number", product.ItemNumber),
	)
	return product, nil
}

func (s *productService) List(ctx context.Context, skip, limit int) ([]*models.Product, error) {
	if err := checkPage(skip, limit); err != nil {
		return nil, err
	}
	return repositories.NewProductRepository(s.db).List(ctx, limit, skip)
}

func (s *productService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := repositories.NewProductRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, productNotFound(id)
		}
		return nil, err
	}
	return product, nil
}

// Update writes only the fields present in the request. A request without
// fields returns the stored product unchanged.
func (s *productService) Update(ctx context.Context, id int64, in *models.ProductUpdate) (*models.Product, error) {
	changes := in.Changes()

	var product *models.Product
	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		product, err = repositories.NewProductRepository(tx).Update(ctx, id, changes)
		if repositories.IsNoRows(err) {
			return productNotFound(id)
		}
		return err
	})
	if err != nil {
		return nil, s.translate(err, in.ItemNumber.Value)
	}

	if len(changes) > 0 {
		logger.FromContext(ctx).Info("product updated",
			zap.Int64("product_id", id),
			zap.Strings("fields", changedFields(changes)),
		)
	}
	return product, nil
}

// Delete removes the product together with every prospect link to it
func (s *productService) Delete(ctx context.Context, id int64) error {
	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := repositories.NewProductRepository(tx).Delete(ctx, id)
		if repositories.IsNoRows(err) {
			return productNotFound(id)
		}
		return err
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *productService) itemNumberConflict(itemNumber string) error {
	s.metrics.Conflict("product")
	return common.Conflict("Product with item number %s already exists", itemNumber)
}

// translate turns storage failures into domain errors. Unique violations
// reach here when a concurrent request won the race past the pre-check.
func (s *productService) translate(err error, itemNumber string) error {
	if isAppError(err) {
		return err
	}
	if constraint, ok := repositories.UniqueViolation(err); ok && constraint == repositories.ConstraintProductItemNumber {
		return s.itemNumberConflict(itemNumber)
	}
	return err
}

func productNotFound(id int64) error {
	return common.NotFound("Product with ID %d not found", id)
}
