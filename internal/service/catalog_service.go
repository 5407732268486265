package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"salary-api/internal/domain"
	"salary-api/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CatalogService expone busquedas de solo lectura sobre ofertas y dimensiones.
type CatalogService struct {
	catalog repository.CatalogRepository
}

func NewCatalogService(catalog repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) JobTitles(ctx context.Context) ([]domain.JobTitle, error) {
	return s.catalog.ListJobTitles(ctx)
}

func (s *CatalogService) Regions(ctx context.Context) ([]domain.Region, error) {
	return s.catalog.ListRegions(ctx)
}

func (s *CatalogService) Experiences(ctx context.Context) ([]domain.Experience, error) {
	return s.catalog.ListExperiences(ctx)
}

func (s *CatalogService) Skills(ctx context.Context) ([]domain.Skill, error) {
	return s.catalog.ListSkills(ctx)
}

// SearchOffers normaliza la paginacion y devuelve la pagina junto al total filtrado.
func (s *CatalogService) SearchOffers(ctx context.Context, filter domain.OfferFilter) (domain.OfferPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	offers, total, err := s.catalog.SearchOffers(ctx, filter)
	if err != nil {
		return domain.OfferPage{}, err
	}
	return domain.OfferPage{
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
		Offers: offers,
	}, nil
}

func (s *CatalogService) GetOffer(ctx context.Context, id int64) (domain.Offer, error) {
	offer, err := s.catalog.GetOffer(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Offer{}, ErrOfferNotFound
		}
		return domain.Offer{}, err
	}
	return offer, nil
}
