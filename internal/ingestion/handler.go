package ingestion

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intake/internal/logger"
	"intake/pkg/errors"
	"intake/pkg/models"
)

type Handler struct {
	service *Service
	logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.POST("/items", h.IngestItem)
		v1.POST("/quotes", h.RequestQuote)
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	c.JSON(status, errors.ToErrorResponse(err))
}

// IngestItem godoc
// @Summary      Queue an item for processing
// @Description  Validate an item submission and enqueue it for asynchronous processing
// @Tags         ingestion
// @Accept       json
// @Produce      plain
// @Param        item  body      models.ItemMessage  true  "Item submission"
// @Success      200   {string}  string  "Queued Processing for Customer [id]"
// @Failure      400   {object}  map[string]interface{}
// @Failure      503   {object}  map[string]interface{}
// @Router       /items [post]
func (h *Handler) IngestItem(c *gin.Context) {
	var req models.ItemMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	if _, err := h.service.EnqueueItem(c.Request.Context(), req); err != nil {
		h.handleError(c, err)
		return
	}

	c.String(http.StatusOK, "Queued Processing for Customer [%d]", req.CustomerID)
}

// RequestQuote godoc
// @Summary      Queue a quote request
// @Description  Validate a quote request and enqueue it for rating
// @Tags         ingestion
// @Accept       json
// @Produce      plain
// @Param        quote  body      models.QuoteMessage  true  "Quote request"
// @Success      200    {string}  string  "Queued Processing Quote Request for [name]"
// @Failure      400    {object}  map[string]interface{}
// @Failure      503    {object}  map[string]interface{}
// @Router       /quotes [post]
func (h *Handler) RequestQuote(c *gin.Context) {
	var req models.QuoteMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	if _, err := h.service.EnqueueQuote(c.Request.Context(), req); err != nil {
		h.handleError(c, err)
		return
	}

	c.String(http.StatusOK, "Queued Processing Quote Request for [%s]", req.Name)
}
