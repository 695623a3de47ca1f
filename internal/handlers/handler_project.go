package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// projectHandler handles HTTP requests related to projects and revisions.
type projectHandler struct {
	projectService portssvc.ProjectSvcFacade
}

func newProjectHandler(ps portssvc.ProjectSvcFacade) *projectHandler {
	return &projectHandler{projectService: ps}
}

// registerProjectRoutes registers routes related to projects.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade) {
	h := newProjectHandler(projectService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:id", h.getProject)
		projects.PUT("/:id", h.updateProject)
		projects.PATCH("/:id/status", h.moveProject)
		projects.DELETE("/:id", h.deleteProject)

		revisions := projects.Group("/:id/revisions")
		{
			revisions.POST("", h.addRevision)
			revisions.PATCH("/:revisionId", h.updateRevisionStatus)
		}
	}
}

// createProject godoc
// @Summary Create a project
// @Description Creates a project for an existing client, with optional team assignments
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} domain.Project
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Client, package or team member not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req, "CreateProject") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to create project")
		return
	}

	logger.Info("Project created successfully", slog.String("project_id", project.ID))
	c.JSON(http.StatusCreated, project)
}

// listProjects godoc
// @Summary List projects
// @Description Newest event date first
// @Tags projects
// @Produce  json
// @Success 200 {array} domain.Project
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to list projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

// getProject godoc
// @Summary Get a project by ID
// @Tags projects
// @Produce  json
// @Param   id path string true "Project ID"
// @Success 200 {object} domain.Project
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects/{id} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// updateProject godoc
// @Summary Update a project
// @Description Changes operational fields; a team list rebuilds unpaid team payments
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   project body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} domain.Project
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects/{id} [put]
func (h *projectHandler) updateProject(c *gin.Context) {
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req, "UpdateProject") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// moveProject godoc
// @Summary Move a project to another kanban column
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   status body dto.MoveProjectRequest true "Target status"
// @Success 200 {object} domain.Project
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects/{id}/status [patch]
func (h *projectHandler) moveProject(c *gin.Context) {
	var req dto.MoveProjectRequest
	if !bindJSON(c, &req, "MoveProject") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.MoveProject(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to move project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// deleteProject godoc
// @Summary Delete a project
// @Description Also removes its team payments and transactions
// @Tags projects
// @Param   id path string true "Project ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects/{id} [delete]
func (h *projectHandler) deleteProject(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.projectService.DeleteProject(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondWithError(c, err, "Failed to delete project")
		return
	}
	c.Status(http.StatusNoContent)
}

// addRevision godoc
// @Summary Request a revision
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   revision body dto.AddRevisionRequest true "Revision details"
// @Success 201 {object} domain.Project
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects/{id}/revisions [post]
func (h *projectHandler) addRevision(c *gin.Context) {
	var req dto.AddRevisionRequest
	if !bindJSON(c, &req, "AddRevision") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.AddRevision(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondWithError(c, err, "Failed to add revision")
		return
	}
	c.JSON(http.StatusCreated, project)
}

// updateRevisionStatus godoc
// @Summary Change the status of a revision
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   id path string true "Project ID"
// @Param   revisionId path string true "Revision ID"
// @Param   status body dto.UpdateRevisionStatusRequest true "New status"
// @Success 200 {object} domain.Project
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/projects/{id}/revisions/{revisionId} [patch]
func (h *projectHandler) updateRevisionStatus(c *gin.Context) {
	var req dto.UpdateRevisionStatusRequest
	if !bindJSON(c, &req, "UpdateRevisionStatus") {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	project, err := h.projectService.UpdateRevisionStatus(c.Request.Context(), c.Param("id"), c.Param("revisionId"), req.Status, userID)
	if err != nil {
		respondWithError(c, err, "Failed to update revision")
		return
	}
	c.JSON(http.StatusOK, project)
}
