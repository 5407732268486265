package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salary-api/internal/domain"
	"salary-api/internal/service"
)

// CatalogHandler expone las busquedas del catalogo de ofertas.
type CatalogHandler struct {
	logger  *zap.Logger
	catalog *service.CatalogService
}

func NewCatalogHandler(logger *zap.Logger, catalog *service.CatalogService) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{logger: logger, catalog: catalog}
}

// JobTitles maneja GET /api/search/job-titles.
func (h *CatalogHandler) JobTitles(c *gin.Context) {
	items, err := h.catalog.JobTitles(c.Request.Context())
	h.respondList(c, "list job titles failed", items, err)
}

// Regions maneja GET /api/search/regions.
func (h *CatalogHandler) Regions(c *gin.Context) {
	items, err := h.catalog.Regions(c.Request.Context())
	h.respondList(c, "list regions failed", items, err)
}

// Experiences maneja GET /api/search/experiences.
func (h *CatalogHandler) Experiences(c *gin.Context) {
	items, err := h.catalog.Experiences(c.Request.Context())
	h.respondList(c, "list experiences failed", items, err)
}

// Skills maneja GET /api/search/skills.
func (h *CatalogHandler) Skills(c *gin.Context) {
	items, err := h.catalog.Skills(c.Request.Context())
	h.respondList(c, "list skills failed", items, err)
}

// SearchOffers maneja GET /api/search/offers.
func (h *CatalogHandler) SearchOffers(c *gin.Context) {
	filter, err := parseOfferFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.catalog.SearchOffers(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("search offers failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetOffer maneja GET /api/search/offers/:id.
func (h *CatalogHandler) GetOffer(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	offer, err := h.catalog.GetOffer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("get offer failed", zap.Error(err), zap.Int64("offer_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *CatalogHandler) respondList(c *gin.Context, msg string, items any, err error) {
	if err != nil {
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// parseOfferFilter valida la query; page >= 1 y limit en 1..100.
func parseOfferFilter(c *gin.Context) (domain.OfferFilter, error) {
	filter := domain.OfferFilter{
		JobTitle:   strings.TrimSpace(c.Query("job_title")),
		Region:     strings.TrimSpace(c.Query("region")),
		Experience: strings.TrimSpace(c.Query("experience")),
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		Page:       1,
		Limit:      service.DefaultPageSize,
	}

	var err error
	if filter.SalaryMin, err = optionalFloat(c, "salary_min"); err != nil {
		return filter, err
	}
	if filter.SalaryMax, err = optionalFloat(c, "salary_max"); err != nil {
		return filter, err
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, errors.New("page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > service.MaxPageSize {
			return filter, fmt.Errorf("limit must be between 1 and %d", service.MaxPageSize)
		}
		filter.Limit = limit
	}
	return filter, nil
}

func optionalFloat(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}
