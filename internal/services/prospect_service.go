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

type ProspectService interface {
	Create(ctx context.Context, in *models.ProspectCreate) (*models.Prospect, error)
	List(ctx context.Context, filter models.ProspectFilter) ([]*models.Prospect, error)
	GetByID(ctx context.Context, id int64) (*models.Prospect, error)
	Update(ctx context.Context, id int64, in *models.ProspectUpdate) (*models.Prospect, error)
	Delete(ctx context.Context, id int64) error
	LinkProduct(ctx context.Context, prospectID int64, in *models.ProspectProductLink) (*models.ProspectProduct, error)
	ListProducts(ctx context.Context, prospectID int64) ([]*models.Product, error)
}

type prospectService struct {
	db      repositories.TxStarter
	metrics *metrics.Metrics
}

// NewProspectService creates the prospect service. m may be nil.
func NewProspectService(db repositories.TxStarter, m *metrics.Metrics) ProspectService {
	return &prospectService{db: db, metrics: m}
}

// Create stores the prospect and its product interests in one transaction.
// If any interest refers to a missing product nothing is stored.
func (s *prospectService) Create(ctx context.Context, in *models.ProspectCreate) (*models.Prospect, error) {
	prospect := &models.Prospect{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Position:    in.Position,
		CompanyName: in.CompanyName,
		CompanySize: in.CompanySize,
		Market:      in.Market,
		Source:      in.Source,
		SourceNotes: in.SourceNotes,
		Status:      models.StatusNew,
	}
	productIDs := uniqueIDs(in.ProductInterestIDs)

	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		prospects := repositories.NewProspectRepository(tx)

		exists, err := prospects.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return s.emailConflict(in.Email)
		}

		if err := prospects.Create(ctx, prospect); err != nil {
			return err
		}
		if len(productIDs) == 0 {
			return nil
		}

		missing, err := repositories.NewProductRepository(tx).FindMissing(ctx, productIDs)
		if err != nil {
			return fmt.Errorf("check product interests: %w", err)
		}
		if len(missing) > 0 {
			return common.NotFound("Product with ID %d does not exist", missing[0])
		}

		links := repositories.NewProspectProductRepository(tx)
		for _, productID := range productIDs {
			link := &models.ProspectProduct{ProspectID: prospect.ID, ProductID: productID}
			if err := links.Create(ctx, link); err != nil {
				if _, ok := repositories.ForeignKeyViolation(err); ok {
					return common.NotFound("Product with ID %d does not exist", productID)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.translate(err, in.Email)
	}

	s.metrics.ProspectCreated(string(prospect.Source))
	s.metrics.LinksCreated(len(productIDs))
	logger.FromContext(ctx).Info("prospect created",
		zap.Int64("prospect_id", prospect.ID),
		zap.String("source", string(prospect.Source)),
		zap.Int("product_interests", len(productIDs)),
	)
	return prospect, nil
}

func (s *prospectService) List(ctx context.Context, filter models.ProspectFilter) ([]*models.Prospect, error) {
	if err := checkPage(filter.Skip, filter.Limit); err != nil {
		return nil, err
	}
	return repositories.NewProspectRepository(s.db).List(ctx, filter)
}

func (s *prospectService) GetByID(ctx context.Context, id int64) (*models.Prospect, error) {
	prospect, err := repositories.NewProspectRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if repositories.IsNoRows(err) {
			return nil, prospectNotFound(id)
		}
		return nil, err
	}
	return prospect, nil
}

// Update writes only the fields present in the request. Status may move
// between any two values.
func (s *prospectService) Update(ctx context.Context, id int64, in *models.ProspectUpdate) (*models.Prospect, error) {
	changes := in.Changes()

	var prospect *models.Prospect
	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		prospect, err = repositories.NewProspectRepository(tx).Update(ctx, id, changes)
		if repositories.IsNoRows(err) {
			return prospectNotFound(id)
		}
		return err
	})
	if err != nil {
		return nil, s.translate(err, in.Email.Value)
	}

	if len(changes) > 0 {
		logger.FromContext(ctx).Info("prospect updated",
			zap.Int64("prospect_id", id),
			zap.Strings("fields", changedFields(changes)),
		)
	}
	return prospect, nil
}

// Delete removes the prospect together with its product links
func (s *prospectService) Delete(ctx context.Context, id int64) error {
	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		err := repositories.NewProspectRepository(tx).Delete(ctx, id)
		if repositories.IsNoRows(err) {
			return prospectNotFound(id)
		}
		return err
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("prospect deleted", zap.Int64("prospect_id", id))
	return nil
}

func (s *prospectService) LinkProduct(ctx context.Context, prospectID int64, in *models.ProspectProductLink) (*models.ProspectProduct, error) {
	link := &models.ProspectProduct{ProspectID: prospectID, ProductID: in.ProductID, Notes: in.Notes}

	err := repositories.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		exists, err := repositories.NewProspectRepository(tx).Exists(ctx, prospectID)
		if err != nil {
			return err
		}
		if !exists {
			return prospectNotFound(prospectID)
		}

		missing, err := repositories.NewProductRepository(tx).FindMissing(ctx, []int64{in.ProductID})
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return productNotFound(in.ProductID)
		}

		links := repositories.NewProspectProductRepository(tx)
		linked, err := links.Exists(ctx, prospectID, in.ProductID)
		if err != nil {
			return err
		}
		if linked {
			return s.linkConflict(prospectID, in.ProductID)
		}

		return links.Create(ctx, link)
	})
	if err != nil {
		return nil, s.translateLink(err, prospectID, in.ProductID)
	}

	s.metrics.LinksCreated(1)
	logger.FromContext(ctx).Info("prospect linked to product",
		zap.Int64("prospect_id", prospectID),
		zap.Int64("product_id", in.ProductID),
	)
	return link, nil
}

// ListProducts returns the prospect's products of interest in the order
// they were linked
func (s *prospectService) ListProducts(ctx context.Context, prospectID int64) ([]*models.Product, error) {
	exists, err := repositories.NewProspectRepository(s.db).Exists(ctx, prospectID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, prospectNotFound(prospectID)
	}
	return repositories.NewProductRepository(s.db).ListByProspect(ctx, prospectID)
}

func (s *prospectService) emailConflict(email string) error {
	s.metrics.Conflict("prospect")
	return common.Conflict("Prospect with email %s already exists", email)
}

func (s *prospectService) linkConflict(prospectID, productID int64) error {
	s.metrics.Conflict("prospect_product")
	return common.Conflict("Prospect with ID %d is already linked to product with ID %d", prospectID, productID)
}

func (s *prospectService) translate(err error, email string) error {
	if isAppError(err) {
		return err
	}
	if constraint, ok := repositories.UniqueViolation(err); ok && constraint == repositories.ConstraintProspectEmail {
		return s.emailConflict(email)
	}
	return err
}

func (s *prospectService) translateLink(err error, prospectID, productID int64) error {
	if isAppError(err) {
		return err
	}
	if constraint, ok := repositories.UniqueViolation(err); ok && constraint == repositories.ConstraintProspectProduct {
		return s.linkConflict(prospectID, productID)
	}
	if constraint, ok := repositories.ForeignKeyViolation(err); ok {
		if constraint == repositories.ConstraintLinkProspectFK {
			return prospectNotFound(prospectID)
		}
		return productNotFound(productID)
	}
	return err
}

func prospectNotFound(id int64) error {
	return common.NotFound("Prospect with ID %d not found", id)
}
