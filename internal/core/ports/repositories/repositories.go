package repositories

import (
	"context"

	"github.com/SscSPs/studio_ops_app/internal/core/domain"
)

// CollectionReader defines read operations for one entity collection.
type CollectionReader[T any] interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]T, error)

	// Get returns one record or an error wrapping apperrors.ErrNotFound.
	Get(ctx context.Context, id string) (*T, error)
}

// CollectionWriter defines single-record write operations.
type CollectionWriter[T any] interface {
	// Insert fails with apperrors.ErrDuplicate when the id is taken.
	Insert(ctx context.Context, rec *T) error

	// Update reads the record, applies patch and writes it back guarded by
	// the version it was read at. It fails with apperrors.ErrNotFound when absent.
	Update(ctx context.Context, id string, patch func(*T) error) (*T, error)

	// Remove fails with apperrors.ErrNotFound when absent. It never cascades.
	Remove(ctx context.Context, id string) error
}

// CollectionRepository combines reads and writes for a collection.
type CollectionRepository[T any] interface {
	CollectionReader[T]
	CollectionWriter[T]
}

type (
	LeadRepositoryFacade               = CollectionRepository[domain.Lead]
	ClientRepositoryFacade             = CollectionRepository[domain.Client]
	ProjectRepositoryFacade            = CollectionRepository[domain.Project]
	TransactionRepositoryFacade        = CollectionRepository[domain.Transaction]
	CardRepositoryFacade               = CollectionRepository[domain.Card]
	PocketRepositoryFacade             = CollectionRepository[domain.FinancialPocket]
	TeamMemberRepositoryFacade         = CollectionRepository[domain.TeamMember]
	TeamProjectPaymentRepositoryFacade = CollectionRepository[domain.TeamProjectPayment]
	PromoCodeRepositoryFacade          = CollectionRepository[domain.PromoCode]
	PackageRepositoryFacade            = CollectionRepository[domain.Package]
	AddOnRepositoryFacade              = CollectionRepository[domain.AddOn]
)

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UnitOfWork      UnitOfWork
	LeadRepo        LeadRepositoryFacade
	ClientRepo      ClientRepositoryFacade
	ProjectRepo     ProjectRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	CardRepo        CardRepositoryFacade
	PocketRepo      PocketRepositoryFacade
	TeamMemberRepo  TeamMemberRepositoryFacade
	TeamPaymentRepo TeamProjectPaymentRepositoryFacade
	PromoCodeRepo   PromoCodeRepositoryFacade
	PackageRepo     PackageRepositoryFacade
	AddOnRepo       AddOnRepositoryFacade
}
