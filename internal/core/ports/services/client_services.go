package services

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	"github.com/SscSPs/studio_ops_app/internal/dto"
)

// ClientReaderSvc defines read operations for clients
type ClientReaderSvc interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)

	// GetPortal resolves a portal access id into the client's portal view.
	GetPortal(ctx context.Context, accessID string) (*dto.PortalResponse, error)
}

// ClientWriterSvc defines write operations for clients
type ClientWriterSvc interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error)
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error)

	// DeleteClient fails with a validation error while projects still reference the client.
	DeleteClient(ctx context.Context, clientID string) error
}

// ClientSvcFacade combines all client-related service interfaces
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
}
