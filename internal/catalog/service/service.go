package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"storefront_backend/internal/catalog/domain"
	"storefront_backend/internal/catalog/repository"
	"storefront_backend/internal/catalog/transport"
	"storefront_backend/platform/logger"
)

// Service provides business logic for the catalog.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FindByCode resolves a product by its stable code. Absence is reported as
// apperr.NotFound; callers that treat a miss as a normal negative result
// (the page classifier) test the error kind.
func (s *Service) FindByCode(ctx context.Context, code string) (domain.Product, error) {
	return s.repo.GetByCode(ctx, code)
}

// FindAll returns the full catalog in creation order.
func (s *Service) FindAll(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// GetProductByID retrieves a product by ID.
func (s *Service) GetProductByID(ctx context.Context, id uuid.UUID) (transport.ProductResponse, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

// ListProducts retrieves all products.
func (s *Service) ListProducts(ctx context.Context) (transport.ProductListResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return transport.ProductListResponse{}, err
	}

	items := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p))
	}
	return transport.ProductListResponse{Items: items, Total: len(items)}, nil
}

// CreateProduct creates a new product.
func (s *Service) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (transport.ProductResponse, error) {
	product, err := s.repo.Create(ctx, repository.CreateProductParams{
		Code:        strings.TrimSpace(req.Code),
		Description: strings.TrimSpace(req.Description),
		Tiers:       toTiers(req.Tiers),
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product created", "id", product.ID, "code", product.Code)
	return toProductResponse(product), nil
}

// UpdateProduct updates an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req transport.UpdateProductRequest) (transport.ProductResponse, error) {
	description := req.Description
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		description = &trimmed
	}

	var tiers []domain.PriceTier
	if req.Tiers != nil {
		tiers = toTiers(req.Tiers)
	}

	product, err := s.repo.Update(ctx, repository.UpdateProductParams{
		ID:          id,
		Description: description,
		Tiers:       tiers,
	})
	if err != nil {
		return transport.ProductResponse{}, err
	}

	s.log.Info("product updated", "id", product.ID, "code", product.Code)
	return toProductResponse(product), nil
}

// DeleteProduct deletes a product.
func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", "id", id)
	return nil
}

func toTiers(payload []transport.PriceTierPayload) []domain.PriceTier {
	tiers := make([]domain.PriceTier, 0, len(payload))
	for _, t := range payload {
		tiers = append(tiers, domain.PriceTier{MinQuantity: t.MinQuantity, UnitCents: t.UnitCents})
	}
	return tiers
}

func toProductResponse(p domain.Product) transport.ProductResponse {
	tiers := make([]transport.PriceTierPayload, 0, len(p.Tiers))
	for _, t := range p.Tiers {
		tiers = append(tiers, transport.PriceTierPayload{MinQuantity: t.MinQuantity, UnitCents: t.UnitCents})
	}
	return transport.ProductResponse{
		ID:          p.ID.String(),
		Code:        p.Code,
		Description: p.Description,
		Tiers:       tiers,
	}
}
