package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// financeHandler handles HTTP requests for transactions, cards and pockets.
type financeHandler struct {
	financeService portssvc.FinanceSvcFacade
}

func newFinanceHandler(fs portssvc.FinanceSvcFacade) *financeHandler {
	return &financeHandler{financeService: fs}
}

// registerFinanceRoutes registers the ledger routes.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade) {
	h := newFinanceHandler(financeService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.DELETE("/:id", h.deleteTransaction)
	}

	cards := rg.Group("/cards")
	{
		cards.POST("", h.createCard)
		cards.GET("", h.listCards)
		cards.GET("/:id", h.getCard)
	}

	pockets := rg.Group("/pockets")
	{
		pockets.POST("", h.createPocket)
		pockets.GET("", h.listPockets)
		pockets.GET("/:id", h.getPocket)
		pockets.POST("/:id/transfers", h.transferToPocket)
	}

	finance := rg.Group("/finance")
	{
		finance.GET("/summary", h.summary)
		finance.POST("/reconcile", h.reconcile)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Appends to the ledger and refreshes the affected card, pocket, project and member
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Referenced project, card, pocket or member not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/transactions [post]
func (h *financeHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req, "CreateTransaction") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.financeService.CreateTransaction(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to record transaction")
		return
	}

	logger.Info("Transaction recorded", slog.String("transaction_id", txn.ID), slog.String("amount", txn.Amount.String()))
	c.JSON(http.StatusCreated, txn)
}

// listTransactions godoc
// @Summary List transactions
// @Description Newest first, paginated with an opaque nextToken
// @Tags finance
// @Produce  json
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Param   projectId query string false "Filter by project"
// @Param   cardId query string false "Filter by card"
// @Param   pocketId query string false "Filter by pocket"
// @Param   type query string false "INCOME or EXPENSE"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/transactions [get]
func (h *financeHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.financeService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags finance
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/transactions/{id} [delete]
func (h *financeHandler) deleteTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.financeService.DeleteTransaction(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// createCard godoc
// @Summary Register a card or account
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   card body dto.CreateCardRequest true "Card details"
// @Success 201 {object} domain.Card
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/cards [post]
func (h *financeHandler) createCard(c *gin.Context) {
	var req dto.CreateCardRequest
	if !bindJSON(c, &req, "CreateCard") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	card, err := h.financeService.CreateCard(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create card")
		return
	}
	c.JSON(http.StatusCreated, card)
}

// listCards godoc
// @Summary List cards
// @Tags finance
// @Produce  json
// @Success 200 {array} domain.Card
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/cards [get]
func (h *financeHandler) listCards(c *gin.Context) {
	cards, err := h.financeService.ListCards(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list cards")
		return
	}
	c.JSON(http.StatusOK, cards)
}

// getCard godoc
// @Summary Get a card by ID
// @Tags finance
// @Produce  json
// @Param   id path string true "Card ID"
// @Success 200 {object} domain.Card
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/cards/{id} [get]
func (h *financeHandler) getCard(c *gin.Context) {
	card, err := h.financeService.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve card")
		return
	}
	c.JSON(http.StatusOK, card)
}

// createPocket godoc
// @Summary Create a pocket
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   pocket body dto.CreatePocketRequest true "Pocket details"
// @Success 201 {object} domain.FinancialPocket
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pockets [post]
func (h *financeHandler) createPocket(c *gin.Context) {
	var req dto.CreatePocketRequest
	if !bindJSON(c, &req, "CreatePocket") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	pocket, err := h.financeService.CreatePocket(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create pocket")
		return
	}
	c.JSON(http.StatusCreated, pocket)
}

// listPockets godoc
// @Summary List pockets
// @Tags finance
// @Produce  json
// @Success 200 {array} domain.FinancialPocket
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pockets [get]
func (h *financeHandler) listPockets(c *gin.Context) {
	pockets, err := h.financeService.ListPockets(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list pockets")
		return
	}
	c.JSON(http.StatusOK, pockets)
}

// getPocket godoc
// @Summary Get a pocket by ID
// @Tags finance
// @Produce  json
// @Param   id path string true "Pocket ID"
// @Success 200 {object} domain.FinancialPocket
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pockets/{id} [get]
func (h *financeHandler) getPocket(c *gin.Context) {
	pocket, err := h.financeService.GetPocket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve pocket")
		return
	}
	c.JSON(http.StatusOK, pocket)
}

// transferToPocket godoc
// @Summary Move money from a card into a pocket
// @Tags finance
// @Accept  json
// @Produce  json
// @Param   id path string true "Pocket ID"
// @Param   transfer body dto.TransferToPocketRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/pockets/{id}/transfers [post]
func (h *financeHandler) transferToPocket(c *gin.Context) {
	var req dto.TransferToPocketRequest
	if !bindJSON(c, &req, "TransferToPocket") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.financeService.TransferToPocket(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to transfer to pocket")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// summary godoc
// @Summary Ledger summary
// @Tags finance
// @Produce  json
// @Success 200 {object} dto.SummaryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/finance/summary [get]
func (h *financeHandler) summary(c *gin.Context) {
	resp, err := h.financeService.Summary(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to compute summary")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reconcile godoc
// @Summary Recompute cached balances from the ledger
// @Tags finance
// @Produce  json
// @Success 200 {object} dto.ReconcileResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/finance/reconcile [post]
func (h *financeHandler) reconcile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	updated, err := h.financeService.Reconcile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to reconcile ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ReconcileResponse{Updated: updated})
}
