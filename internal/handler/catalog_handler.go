package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gpa-tracker-api/internal/models"
	"github.com/noah-isme/gpa-tracker-api/pkg/response"
)

type catalogService interface {
	Search(query string) []models.CatalogItem
	Size() int
}

// CatalogHandler serves course autocomplete.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Search godoc
// @Summary Search the course catalog
// @Description Ranked by code and name match, at most 8 results. A blank query returns none.
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param q query string false "Query"
// @Success 200 {object} response.Envelope
// @Router /catalog/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	items := h.service.Search(c.Query("q"))
	if items == nil {
		items = []models.CatalogItem{}
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"catalog_size": h.service.Size()})
}
