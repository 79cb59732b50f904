package reporting

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"intake/internal/logger"
	"intake/internal/store"
	"intake/pkg/errors"
)

// Handler exposes the read path. Records are written only by the processing
// service; this surface never mutates the store.
type Handler struct {
	repos  store.Repositories
	logger logger.Logger
}

func NewHandler(repos store.Repositories, log logger.Logger) *Handler {
	return &Handler{repos: repos, logger: log}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/items/:customerId", h.ListItems)
		v1.GET("/quotes", h.ListQuotes)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	c.JSON(status, errors.ToErrorResponse(err))
}

// ListItems godoc
// @Summary      List processed items for a customer
// @Description  Get all processed item records for the given customer ID
// @Tags         reporting
// @Accept       json
// @Produce      json
// @Param        customerId  path      int  true  "Customer ID"
// @Success      200         {array}   store.ItemRecord
// @Failure      400         {object}  map[string]interface{}
// @Failure      500         {object}  map[string]interface{}
// @Router       /items/{customerId} [get]
func (h *Handler) ListItems(c *gin.Context) {
	customerID, err := strconv.Atoi(c.Param("customerId"))
	if err != nil || customerID <= 0 {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithDetail("message", "invalid customer id")))
		return
	}

	records, err := h.repos.Items.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if records == nil {
		records = []store.ItemRecord{}
	}

	c.JSON(http.StatusOK, records)
}

// ListQuotes godoc
// @Summary      List rated quotes
// @Description  Get rated quote records, optionally filtered by name
// @Tags         reporting
// @Accept       json
// @Produce      json
// @Param        name  query     string  false  "Filter by requester name"
// @Success      200   {array}   store.QuoteRecord
// @Failure      500   {object}  map[string]interface{}
// @Router       /quotes [get]
func (h *Handler) ListQuotes(c *gin.Context) {
	var (
		records []store.QuoteRecord
		err     error
	)

	if name := c.Query("name"); name != "" {
		records, err = h.repos.Quotes.ListByName(c.Request.Context(), name)
	} else {
		records, err = h.repos.Quotes.List(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	if records == nil {
		records = []store.QuoteRecord{}
	}

	c.JSON(http.StatusOK, records)
}
