package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/utils"
	"github.com/SscSPs/studio_ops_app/internal/utils/accounting"
)

type clientService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewClientService creates a new client service.
func NewClientService(repos portsrepo.RepositoryProvider, opts ...Option) portssvc.ClientSvcFacade {
	return &clientService{
		BaseService: newBaseService(opts),
		repos:       repos,
	}
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, userID string) (*domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", apperrors.ErrValidation)
	}
	now := s.Now()
	since, err := dateOr(req.Since, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	clients, err := s.repos.ClientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	portalID, err := uniquePortalAccessID(clients)
	if err != nil {
		return nil, err
	}

	client := domain.Client{
		ID:             newID("CLI"),
		Name:           name,
		Email:          req.Email,
		Phone:          req.Phone,
		Instagram:      req.Instagram,
		Since:          since,
		Status:         domain.ClientActive,
		LastContact:    now,
		PortalAccessID: portalID,
	}
	client.Stamp(actorOrSystem(userID), now)

	if err := s.repos.ClientRepo.Insert(ctx, &client); err != nil {
		s.LogError(ctx, err, "Failed to create client", slog.String("client_name", name))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ID))
	return &client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.repos.ClientRepo.List(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.repos.ClientRepo.Get(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get client %s: %w", clientID, err)
	}
	return client, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, userID string) (*domain.Client, error) {
	now := s.Now()
	updated, err := s.repos.ClientRepo.Update(ctx, clientID, func(c *domain.Client) error {
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: client name cannot be empty", apperrors.ErrValidation)
			}
			c.Name = name
		}
		if req.Email != nil {
			c.Email = *req.Email
		}
		if req.Phone != nil {
			c.Phone = *req.Phone
		}
		if req.Instagram != nil {
			c.Instagram = *req.Instagram
		}
		if req.Status != nil {
			c.Status = *req.Status
		}
		c.LastContact = now
		c.Touch(actorOrSystem(userID), now)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to update client %s: %w", clientID, err)
	}
	return updated, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string) error {
	if _, err := s.repos.ClientRepo.Get(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}

	projects, err := s.repos.ProjectRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	for _, p := range projects {
		if p.ClientID == clientID {
			return fmt.Errorf("%w: client %s still has project %s", apperrors.ErrValidation, clientID, p.ID)
		}
	}

	if err := s.repos.ClientRepo.Remove(ctx, clientID); err != nil {
		s.LogError(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	return nil
}

func (s *clientService) GetPortal(ctx context.Context, accessID string) (*dto.PortalResponse, error) {
	if accessID == "" {
		return nil, fmt.Errorf("%w: portal", apperrors.ErrNotFound)
	}
	clients, err := s.repos.ClientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	var client *domain.Client
	for i := range clients {
		if clients[i].PortalAccessID == accessID {
			client = &clients[i]
			break
		}
	}
	if client == nil {
		return nil, fmt.Errorf("%w: portal", apperrors.ErrNotFound)
	}

	projects, err := s.repos.ProjectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	txns, err := s.repos.TransactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	resp := &dto.PortalResponse{
		Client:   dto.PortalClient{Name: client.Name, Email: client.Email, Phone: client.Phone},
		Projects: make([]dto.PortalProject, 0),
	}
	for _, p := range projects {
		if p.ClientID != client.ID {
			continue
		}
		resp.Projects = append(resp.Projects, toPortalProject(p, txns))
	}
	sort.SliceStable(resp.Projects, func(i, j int) bool {
		return resp.Projects[i].Date.After(resp.Projects[j].Date)
	})
	return resp, nil
}

// toPortalProject derives the payment state from the log rather than the cache
// so the portal never shows a stale balance.
func toPortalProject(p domain.Project, txns []domain.Transaction) dto.PortalProject {
	paid, status := accounting.ProjectPaymentState(p, txns)
	p.AmountPaid = paid
	remaining := p.RemainingBalance()

	payments := make([]dto.PortalPaymentRecord, 0)
	for _, t := range txns {
		if t.ProjectID != p.ID || t.Type != domain.Income {
			continue
		}
		payments = append(payments, dto.PortalPaymentRecord{
			Date:        t.Date,
			Description: t.Description,
			Amount:      t.Amount,
			AmountText:  utils.FormatRupiah(t.Amount),
		})
	}
	sort.SliceStable(payments, func(i, j int) bool { return payments[i].Date.Before(payments[j].Date) })

	addOns := p.AddOns
	if addOns == nil {
		addOns = []domain.AddOn{}
	}
	return dto.PortalProject{
		ID:                   p.ID,
		ProjectName:          p.ProjectName,
		ProjectType:          p.ProjectType,
		PackageName:          p.PackageName,
		AddOns:               addOns,
		Date:                 p.Date,
		Location:             p.Location,
		Status:               p.Status,
		SubStatus:            p.SubStatus,
		Progress:             p.Progress,
		ShippingDetails:      p.ShippingDetails,
		TotalCost:            p.TotalCost,
		DiscountAmount:       p.DiscountAmount,
		AmountPaid:           paid,
		PaymentStatus:        status,
		RemainingBalance:     remaining,
		RemainingBalanceText: utils.FormatRupiah(remaining),
		Revisions:            p.Revisions,
		Payments:             payments,
	}
}
