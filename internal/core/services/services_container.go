package services

import (
	"sync"

	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...Option) *portssvc.ServiceContainer {
	if cfg.Location != nil {
		opts = append([]Option{WithLocation(cfg.Location)}, opts...)
	}
	opts = append(opts, WithLedgerLock(new(sync.Mutex)))

	return &portssvc.ServiceContainer{
		Lead:       NewLeadService(repos.LeadRepo, opts...),
		Conversion: NewConversionService(repos, cfg.ClientIncomePocketID, opts...),
		Client:     NewClientService(repos, opts...),
		Project:    NewProjectService(repos, opts...),
		Finance:    NewFinanceService(repos, opts...),
		Team:       NewTeamService(repos, opts...),
		Catalog:    NewCatalogService(repos, opts...),
		Auth:       NewAuthService(cfg, opts...),
	}
}
