package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// leadHandler handles HTTP requests related to leads and their conversion.
type leadHandler struct {
	leadService       portssvc.LeadSvcFacade
	conversionService portssvc.ConversionSvcFacade
}

// newLeadHandler creates a new leadHandler.
func newLeadHandler(ls portssvc.LeadSvcFacade, cs portssvc.ConversionSvcFacade) *leadHandler {
	return &leadHandler{
		leadService:       ls,
		conversionService: cs,
	}
}

// registerLeadRoutes registers routes related to leads.
func registerLeadRoutes(rg *gin.RouterGroup, leadService portssvc.LeadSvcFacade, conversionService portssvc.ConversionSvcFacade) {
	h := newLeadHandler(leadService, conversionService)

	leads := rg.Group("/leads")
	{
		leads.POST("", h.createLead)
		leads.GET("", h.listLeads)
		leads.GET("/stats", h.leadStats)
		leads.GET("/:id", h.getLead)
		leads.PUT("/:id", h.updateLead)
		leads.PATCH("/:id/status", h.moveLead)
		leads.DELETE("/:id", h.deleteLead)
		leads.POST("/:id/convert", h.convertLead)
	}
}

// createLead godoc
// @Summary Create a lead
// @Description Records a prospective client entered manually
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   lead body dto.CreateLeadRequest true "Lead details"
// @Success 201 {object} domain.Lead
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads [post]
func (h *leadHandler) createLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLeadRequest
	if !bindJSON(c, &req, "CreateLead") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lead, err := h.leadService.CreateLead(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create lead")
		return
	}

	logger.Info("Lead created successfully", slog.String("lead_id", lead.ID))
	c.JSON(http.StatusCreated, lead)
}

// listLeads godoc
// @Summary List leads
// @Tags leads
// @Produce  json
// @Success 200 {array} domain.Lead
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads [get]
func (h *leadHandler) listLeads(c *gin.Context) {
	leads, err := h.leadService.ListLeads(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list leads")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// leadStats godoc
// @Summary Lead funnel statistics
// @Tags leads
// @Produce  json
// @Success 200 {object} dto.LeadStatsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads/stats [get]
func (h *leadHandler) leadStats(c *gin.Context) {
	stats, err := h.leadService.LeadStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to compute lead statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getLead godoc
// @Summary Get a lead by ID
// @Tags leads
// @Produce  json
// @Param   id path string true "Lead ID"
// @Success 200 {object} domain.Lead
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads/{id} [get]
func (h *leadHandler) getLead(c *gin.Context) {
	lead, err := h.leadService.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// updateLead godoc
// @Summary Update a lead
// @Description Converted and rejected leads only accept note changes
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   id path string true "Lead ID"
// @Param   lead body dto.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} domain.Lead
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads/{id} [put]
func (h *leadHandler) updateLead(c *gin.Context) {
	var req dto.UpdateLeadRequest
	if !bindJSON(c, &req, "UpdateLead") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lead, err := h.leadService.UpdateLead(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// moveLead godoc
// @Summary Move a lead to another kanban column
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   id path string true "Lead ID"
// @Param   status body dto.MoveLeadRequest true "Target status"
// @Success 200 {object} domain.Lead
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads/{id}/status [patch]
func (h *leadHandler) moveLead(c *gin.Context) {
	var req dto.MoveLeadRequest
	if !bindJSON(c, &req, "MoveLead") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	lead, err := h.leadService.MoveLead(c.Request.Context(), c.Param("id"), req.Status, userID)
	if err != nil {
		respondWithError(c, err, "Failed to move lead")
		return
	}
	c.JSON(http.StatusOK, lead)
}

// deleteLead godoc
// @Summary Delete a lead
// @Tags leads
// @Param   id path string true "Lead ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads/{id} [delete]
func (h *leadHandler) deleteLead(c *gin.Context) {
	if err := h.leadService.DeleteLead(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete lead")
		return
	}
	c.Status(http.StatusNoContent)
}

// convertLead godoc
// @Summary Convert a lead into a client with a booked project
// @Description Creates the client, the project and the optional down payment in one write
// @Tags leads
// @Accept  json
// @Produce  json
// @Param   id path string true "Lead ID"
// @Param   form body dto.ConvertLeadRequest true "Conversion form"
// @Success 201 {object} dto.ConversionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Promo code or lead changed concurrently"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/leads/{id}/convert [post]
func (h *leadHandler) convertLead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertLeadRequest
	if !bindJSON(c, &req, "ConvertLead") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	leadID := c.Param("id")
	logger = logger.With(slog.String("lead_id", leadID))
	logger.Info("Received request to convert lead", slog.String("package_id", req.PackageID))

	result, err := h.conversionService.ConvertLead(c.Request.Context(), leadID, req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to convert lead")
		return
	}

	logger.Info("Lead converted successfully", slog.String("client_id", result.Client.ID), slog.String("project_id", result.Project.ID))
	c.JSON(http.StatusCreated, dto.ToConversionResponse(result))
}
