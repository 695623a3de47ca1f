package services

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// ProjectReaderSvc defines read operations for projects
type ProjectReaderSvc interface {
	// ListProjects returns projects ordered by date, newest first.
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
}

// ProjectWriterSvc defines write operations for projects
type ProjectWriterSvc interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, userID string) (*domain.Project, error)

	// UpdateProject changes operational fields and rebuilds team payments from the team.
	UpdateProject(ctx context.Context, projectID string, req dto.UpdateProjectRequest, userID string) (*domain.Project, error)

	MoveProject(ctx context.Context, projectID string, req dto.MoveProjectRequest, userID string) (*domain.Project, error)

	// DeleteProject removes the project with its team payments and transactions.
	DeleteProject(ctx context.Context, projectID string, userID string) error

	AddRevision(ctx context.Context, projectID string, req dto.AddRevisionRequest, userID string) (*domain.Project, error)
	UpdateRevisionStatus(ctx context.Context, projectID, revisionID string, status domain.RevisionStatus, userID string) (*domain.Project, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}
