package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type teamHandler struct {
	teamService portssvc.TeamSvcFacade
}

func newTeamHandler(ts portssvc.TeamSvcFacade) *teamHandler {
	return &teamHandler{teamService: ts}
}

// registerTeamRoutes registers freelancer and team payment routes.
func registerTeamRoutes(rg *gin.RouterGroup, teamService portssvc.TeamSvcFacade) {
	h := newTeamHandler(teamService)

	members := rg.Group("/team-members")
	{
		members.POST("", h.createTeamMember)
		members.GET("", h.listTeamMembers)
		members.GET("/:id/rewards", h.rewardLedger)
	}

	payments := rg.Group("/team-payments")
	{
		payments.GET("", h.listTeamPayments)
		payments.POST("/:id/pay", h.payTeamPayment)
	}
}

// createTeamMember godoc
// @Summary Add a freelancer
// @Tags team
// @Accept  json
// @Produce  json
// @Param   member body dto.CreateTeamMemberRequest true "Member details"
// @Success 201 {object} domain.TeamMember
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/team-members [post]
func (h *teamHandler) createTeamMember(c *gin.Context) {
	var req dto.CreateTeamMemberRequest
	if !bindJSON(c, &req, "CreateTeamMember") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	member, err := h.teamService.CreateTeamMember(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create team member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// listTeamMembers godoc
// @Summary List freelancers with their reward balance
// @Tags team
// @Produce  json
// @Success 200 {array} domain.TeamMember
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/team-members [get]
func (h *teamHandler) listTeamMembers(c *gin.Context) {
	members, err := h.teamService.ListTeamMembers(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list team members")
		return
	}
	c.JSON(http.StatusOK, members)
}

// rewardLedger godoc
// @Summary Reward history of a freelancer
// @Tags team
// @Produce  json
// @Param   id path string true "Team member ID"
// @Success 200 {object} dto.RewardLedgerResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/team-members/{id}/rewards [get]
func (h *teamHandler) rewardLedger(c *gin.Context) {
	ledger, err := h.teamService.RewardLedger(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to load reward ledger")
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// listTeamPayments godoc
// @Summary List team project payments
// @Tags team
// @Produce  json
// @Param   projectId query string false "Filter by project"
// @Param   status query string false "Paid or Unpaid"
// @Success 200 {array} domain.TeamProjectPayment
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/team-payments [get]
func (h *teamHandler) listTeamPayments(c *gin.Context) {
	var params dto.ListTeamPaymentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind query params for ListTeamPayments", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	payments, err := h.teamService.ListTeamPayments(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list team payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// payTeamPayment godoc
// @Summary Pay a freelancer for a project
// @Description Records the fee as an expense on the card and marks the payment Paid
// @Tags team
// @Accept  json
// @Produce  json
// @Param   id path string true "Team payment ID"
// @Param   payout body dto.PayTeamPaymentRequest true "Payout details"
// @Success 200 {object} dto.PayTeamPaymentResponse
// @Failure 400 {object} ErrorResponse "Already paid or invalid input"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/team-payments/{id}/pay [post]
func (h *teamHandler) payTeamPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PayTeamPaymentRequest
	if !bindJSON(c, &req, "PayTeamPayment") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.teamService.PayTeamPayment(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to pay team member")
		return
	}

	logger.Info("Team payment paid", slog.String("payment_id", resp.Payment.ID), slog.String("transaction_id", resp.Transaction.ID))
	c.JSON(http.StatusOK, resp)
}
