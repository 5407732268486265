package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"

	"salary-api/internal/domain"
)

type mockCatalogRepo struct {
	offers     map[int64]domain.Offer
	lastFilter domain.OfferFilter
	total      int64
	err        error
}

func (m *mockCatalogRepo) ListJobTitles(context.Context) ([]domain.JobTitle, error) {
	return []domain.JobTitle{{ID: 1, Label: "Data Engineer"}}, m.err
}

func (m *mockCatalogRepo) ListRegions(context.Context) ([]domain.Region, error) {
	return []domain.Region{{ID: 1, Name: "Île-de-France"}}, m.err
}

func (m *mockCatalogRepo) ListExperiences(context.Context) ([]domain.Experience, error) {
	return []domain.Experience{{ID: 1, Label: ExperienceJunior}}, m.err
}

func (m *mockCatalogRepo) ListSkills(context.Context) ([]domain.Skill, error) {
	return []domain.Skill{{ID: 1, Label: "go"}}, m.err
}

func (m *mockCatalogRepo) SearchOffers(_ context.Context, filter domain.OfferFilter) ([]domain.Offer, int64, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	out := make([]domain.Offer, 0, len(m.offers))
	for _, o := range m.offers {
		out = append(out, o)
	}
	return out, m.total, nil
}

func (m *mockCatalogRepo) GetOffer(_ context.Context, id int64) (domain.Offer, error) {
	offer, ok := m.offers[id]
	if !ok {
		return domain.Offer{}, pgx.ErrNoRows
	}
	return offer, nil
}

func TestCatalogService_SearchOffersPagination(t *testing.T) {
	repo := &mockCatalogRepo{offers: map[int64]domain.Offer{1: {ID: 1, Title: "Dev Go"}}, total: 42}
	svc := NewCatalogService(repo)

	page, err := svc.SearchOffers(context.Background(), domain.OfferFilter{Keyword: "go"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Page != 1 || page.Limit != DefaultPageSize {
		t.Fatalf("expected default paging, got page=%d limit=%d", page.Page, page.Limit)
	}
	if page.Total != 42 || len(page.Offers) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if repo.lastFilter.Keyword != "go" || repo.lastFilter.Limit != DefaultPageSize {
		t.Fatalf("filter not forwarded: %+v", repo.lastFilter)
	}

	page, err = svc.SearchOffers(context.Background(), domain.OfferFilter{Page: 3, Limit: 500})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if page.Page != 3 || page.Limit != MaxPageSize {
		t.Fatalf("expected capped limit, got page=%d limit=%d", page.Page, page.Limit)
	}
}

func TestCatalogService_SearchOffersError(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{err: errors.New("db down")})
	if _, err := svc.SearchOffers(context.Background(), domain.OfferFilter{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCatalogService_GetOffer(t *testing.T) {
	repo := &mockCatalogRepo{offers: map[int64]domain.Offer{7: {ID: 7, Title: "Data Analyst"}}}
	svc := NewCatalogService(repo)

	offer, err := svc.GetOffer(context.Background(), 7)
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if offer.Title != "Data Analyst" {
		t.Fatalf("unexpected offer: %+v", offer)
	}
	if _, err := svc.GetOffer(context.Background(), 99); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestCatalogService_Lookups(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{})
	ctx := context.Background()

	if titles, err := svc.JobTitles(ctx); err != nil || len(titles) != 1 {
		t.Fatalf("job titles: %v %v", titles, err)
	}
	if regions, err := svc.Regions(ctx); err != nil || len(regions) != 1 {
		t.Fatalf("regions: %v %v", regions, err)
	}
	if exps, err := svc.Experiences(ctx); err != nil || len(exps) != 1 {
		t.Fatalf("experiences: %v %v", exps, err)
	}
	if skills, err := svc.Skills(ctx); err != nil || len(skills) != 1 {
		t.Fatalf("skills: %v %v", skills, err)
	}
}
