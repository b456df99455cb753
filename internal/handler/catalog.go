package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cabbook/internal/service"
)

// CatalogHandler handles HTTP requests for the cab-type catalog.
type CatalogHandler struct {
	catalog *service.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *service.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List handles GET /v1/cabtypes
func (h *CatalogHandler) List(c *gin.Context) {
	types := h.catalog.List()

	response := make([]CabTypeResponse, 0, len(types))
	for _, t := range types {
		response = append(response, cabTypeResponse(t))
	}
	respondJSON(c, http.StatusOK, response)
}
