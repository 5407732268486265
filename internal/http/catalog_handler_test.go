package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"salary-api/internal/domain"
)

var errTestSMTP = errors.New("smtp down")

func domainUser(id string) domain.User {
	return domain.User{ID: id, Email: id + "@example.com"}
}

func strPtr(s string) *string { return &s }

func TestCatalogHandlerLookups(t *testing.T) {
	app := newTestApp(nil)
	for _, path := range []string{"/api/search/job-titles", "/api/search/regions", "/api/search/experiences", "/api/search/skills"} {
		rec := performRequest(app.router, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var items []map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil || len(items) == 0 {
			t.Fatalf("%s: expected a JSON list, got %s", path, rec.Body.String())
		}
	}
}

func TestCatalogHandlerSearchOffers(t *testing.T) {
	app := newTestApp(nil)
	app.catalog.offers = []domain.Offer{{ID: 1, Title: "Data Engineer", Region: strPtr("Île-de-France")}}

	rec := performRequest(app.router, http.MethodGet,
		"/api/search/offers?job_title=data&region=france&experience=senior&salary_min=40000&salary_max=80000&keyword=python&page=2&limit=10",
		nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	f := app.catalog.lastFilter
	if f.JobTitle != "data" || f.Region != "france" || f.Experience != "senior" || f.Keyword != "python" {
		t.Fatalf("unexpected text filters: %+v", f)
	}
	if f.SalaryMin == nil || *f.SalaryMin != 40000 || f.SalaryMax == nil || *f.SalaryMax != 80000 {
		t.Fatalf("unexpected salary bounds: %+v", f)
	}
	if f.Page != 2 || f.Limit != 10 {
		t.Fatalf("unexpected paging: %+v", f)
	}

	var page domain.OfferPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 1 || page.Page != 2 || page.Limit != 10 || len(page.Offers) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestCatalogHandlerSearchOffersDefaults(t *testing.T) {
	app := newTestApp(nil)
	rec := performRequest(app.router, http.MethodGet, "/api/search/offers", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	f := app.catalog.lastFilter
	if f.Page != 1 || f.Limit != 20 || f.SalaryMin != nil || f.SalaryMax != nil {
		t.Fatalf("unexpected defaults: %+v", f)
	}
}

func TestCatalogHandlerSearchOffersInvalidQuery(t *testing.T) {
	app := newTestApp(nil)
	for _, query := range []string{"page=0", "page=abc", "limit=0", "limit=101", "salary_min=lots"} {
		rec := performRequest(app.router, http.MethodGet, "/api/search/offers?"+query, nil, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestCatalogHandlerGetOffer(t *testing.T) {
	app := newTestApp(nil)
	app.catalog.offers = []domain.Offer{{ID: 7, Title: "Data Analyst"}}

	rec := performRequest(app.router, http.MethodGet, "/api/search/offers/7", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = performRequest(app.router, http.MethodGet, "/api/search/offers/8", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	rec = performRequest(app.router, http.MethodGet, "/api/search/offers/seven", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
