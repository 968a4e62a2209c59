package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"superstrong/workout-api/internal/catalog"

	"github.com/gin-gonic/gin"
)

// CatalogHandler fronts the external exercise catalog.
type CatalogHandler struct {
	catalogService catalog.Service
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// respondRaw relays an upstream JSON payload or maps unavailability to 503.
func respondRaw(c *gin.Context, payload json.RawMessage, err error) {
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "Exercise catalog is unavailable")
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// ListExercises returns the catalog listing, passing paging and search
// straight through.
func (h *CatalogHandler) ListExercises(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	payload, err := h.catalogService.ListExercises(c.Request.Context(), limit, offset, c.Query("search"))
	respondRaw(c, payload, err)
}

// GetExercise returns one catalog exercise.
func (h *CatalogHandler) GetExercise(c *gin.Context) {
	payload, err := h.catalogService.GetExercise(c.Request.Context(), c.Param("exerciseId"))
	respondRaw(c, payload, err)
}

// ListCategories returns the catalog's categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	payload, err := h.catalogService.ListCategories(c.Request.Context())
	respondRaw(c, payload, err)
}

// ListMuscleGroups returns the catalog's muscle groups.
func (h *CatalogHandler) ListMuscleGroups(c *gin.Context) {
	payload, err := h.catalogService.ListMuscleGroups(c.Request.Context())
	respondRaw(c, payload, err)
}

// ExercisesByCategory filters the catalog by category.
func (h *CatalogHandler) ExercisesByCategory(c *gin.Context) {
	payload, err := h.catalogService.ExercisesByCategory(c.Request.Context(), c.Param("category"))
	respondRaw(c, payload, err)
}

// ExercisesByMuscleGroup filters the catalog by muscle group.
func (h *CatalogHandler) ExercisesByMuscleGroup(c *gin.Context) {
	payload, err := h.catalogService.ExercisesByMuscleGroup(c.Request.Context(), c.Param("muscleGroup"))
	respondRaw(c, payload, err)
}

// SearchExercises runs a free-text catalog search.
func (h *CatalogHandler) SearchExercises(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	payload, err := h.catalogService.SearchExercises(c.Request.Context(), query)
	respondRaw(c, payload, err)
}

// Health reports upstream catalog liveness.
func (h *CatalogHandler) Health(c *gin.Context) {
	if err := h.catalogService.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Proxy forwards a request under the catalog's items tree, relaying the
// method, body, upstream status code and response untouched. The session
// token never leaves this service.
func (h *CatalogHandler) Proxy(c *gin.Context) {
	query := c.Request.URL.Query()
	query.Del("token")

	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Failed to read request body")
			return
		}
	}

	result, err := h.catalogService.Proxy(c.Request.Context(), c.Request.Method, c.Param("subpath"), query.Encode(), body)
	if err != nil {
		abortWithError(c, http.StatusServiceUnavailable, "Exercise catalog is unavailable")
		return
	}
	c.Data(result.Status, result.ContentType, result.Body)
}
