package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// publicHandler serves the unauthenticated booking form, contact form and
// client portal.
type publicHandler struct {
	services *portssvc.ServiceContainer
}

func newPublicHandler(services *portssvc.ServiceContainer) *publicHandler {
	return &publicHandler{services: services}
}

// registerPublicRoutes registers the public routes. Form submissions go
// through limit; reads do not.
func registerPublicRoutes(r *gin.Engine, services *portssvc.ServiceContainer, limit gin.HandlerFunc) {
	h := newPublicHandler(services)

	public := r.Group("/public")
	{
		public.POST("/leads", limit, h.submitLead)
		public.POST("/bookings", limit, h.submitBooking)
		public.GET("/portal/:accessId", h.getPortal)
		public.GET("/catalog", h.getCatalog)
	}
}

// submitLead godoc
// @Summary Submit the contact form
// @Tags public
// @Accept  json
// @Produce  json
// @Param   lead body dto.PublicLeadRequest true "Contact form"
// @Success 201 {object} domain.Lead
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /public/leads [post]
func (h *publicHandler) submitLead(c *gin.Context) {
	var req dto.PublicLeadRequest
	if !bindJSON(c, &req, "SubmitPublicLead") {
		return
	}

	lead, err := h.services.Lead.SubmitPublicLead(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to submit form")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Public lead received", slog.String("lead_id", lead.ID))
	c.JSON(http.StatusCreated, lead)
}

// submitBooking godoc
// @Summary Submit the booking form
// @Description Creates a lead and converts it with the same rules as the admin conversion
// @Tags public
// @Accept  json
// @Produce  json
// @Param   booking body dto.PublicBookingRequest true "Booking form"
// @Success 201 {object} dto.PublicBookingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /public/bookings [post]
func (h *publicHandler) submitBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PublicBookingRequest
	if !bindJSON(c, &req, "SubmitBooking") {
		return
	}

	result, err := h.services.Conversion.SubmitBooking(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err, "Failed to submit booking")
		return
	}

	logger.Info("Public booking converted", slog.String("lead_id", result.Lead.ID), slog.String("project_id", result.Project.ID))
	c.JSON(http.StatusCreated, dto.ToPublicBookingResponse(result))
}

// getPortal godoc
// @Summary Client portal
// @Description Projects and payment progress for the holder of the portal link
// @Tags public
// @Produce  json
// @Param   accessId path string true "Portal access ID"
// @Success 200 {object} dto.PortalResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /public/portal/{accessId} [get]
func (h *publicHandler) getPortal(c *gin.Context) {
	portal, err := h.services.Client.GetPortal(c.Request.Context(), c.Param("accessId"))
	if err != nil {
		respondWithError(c, err, "Failed to load portal")
		return
	}
	c.JSON(http.StatusOK, portal)
}

// getCatalog godoc
// @Summary Packages and add-ons for the booking form
// @Tags public
// @Produce  json
// @Success 200 {object} dto.CatalogResponse
// @Failure 500 {object} ErrorResponse
// @Router /public/catalog [get]
func (h *publicHandler) getCatalog(c *gin.Context) {
	ctx := c.Request.Context()
	pkgs, err := h.services.Catalog.ListPackages(ctx)
	if err != nil {
		respondWithError(c, err, "Failed to load catalog")
		return
	}
	addOns, err := h.services.Catalog.ListAddOns(ctx)
	if err != nil {
		respondWithError(c, err, "Failed to load catalog")
		return
	}
	c.JSON(http.StatusOK, dto.CatalogResponse{Packages: pkgs, AddOns: addOns})
}
