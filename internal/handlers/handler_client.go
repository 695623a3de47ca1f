package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// clientHandler handles HTTP requests related to clients.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
}

func newClientHandler(cs portssvc.ClientSvcFacade) *clientHandler {
	return &clientHandler{clientService: cs}
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade) {
	h := newClientHandler(clientService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/:id", h.getClient)
		clients.PUT("/:id", h.updateClient)
		clients.DELETE("/:id", h.deleteClient)
	}
}

// createClient godoc
// @Summary Create a client
// @Description Creates a client manually and issues a portal access id
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if !bindJSON(c, &req, "CreateClient") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create client")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// listClients godoc
// @Summary List clients
// @Tags clients
// @Produce  json
// @Success 200 {array} domain.Client
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	clients, err := h.clientService.ListClients(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// getClient godoc
// @Summary Get a client by ID
// @Tags clients
// @Produce  json
// @Param   id path string true "Client ID"
// @Success 200 {object} domain.Client
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/clients/{id} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// updateClient godoc
// @Summary Update a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   id path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} domain.Client
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/clients/{id} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	var req dto.UpdateClientRequest
	if !bindJSON(c, &req, "UpdateClient") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update client")
		return
	}
	c.JSON(http.StatusOK, client)
}

// deleteClient godoc
// @Summary Delete a client
// @Description Rejected while projects still reference the client
// @Tags clients
// @Param   id path string true "Client ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/clients/{id} [delete]
func (h *clientHandler) deleteClient(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete client")
		return
	}
	c.Status(http.StatusNoContent)
}
