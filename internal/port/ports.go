// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations: the remote persistence layer, the
// live rate sources, and the notification sink are all collaborators
// consumed through here, never designed here.
package port

import (
	"context"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ItemStore persists ledger items (accounts, debts, receivables, expenses).
type ItemStore interface {
	GetAllItems(ctx context.Context, ownerID string) ([]domain.LedgerItem, error)
	AddItem(ctx context.Context, item domain.LedgerItem) error
	UpdateItem(ctx context.Context, item domain.LedgerItem) error
	DeleteItem(ctx context.Context, id string) error
}

// AssetStore persists physical assets.
type AssetStore interface {
	GetAllAssets(ctx context.Context, ownerID string) ([]domain.PhysicalAsset, error)
	AddAsset(ctx context.Context, asset domain.PhysicalAsset) error
	UpdateAsset(ctx context.Context, asset domain.PhysicalAsset) error
	DeleteAsset(ctx context.Context, id string) error
}

// EventStore persists calendar events.
type EventStore interface {
	GetAllEvents(ctx context.Context, ownerID string) ([]domain.SpecialEvent, error)
	AddEvent(ctx context.Context, event domain.SpecialEvent) error
	UpdateEvent(ctx context.Context, event domain.SpecialEvent) error
	DeleteEvent(ctx context.Context, id string) error
}

// GoalStore persists financial goals. Contributions are applied remotely
// first because the server owns the completion transition.
type GoalStore interface {
	GetAllGoals(ctx context.Context, ownerID string) ([]domain.FinancialGoal, error)
	AddGoal(ctx context.Context, goal domain.FinancialGoal) error
	UpdateGoal(ctx context.Context, goal domain.FinancialGoal) error
	DeleteGoal(ctx context.Context, id string) error
	AddContribution(ctx context.Context, goalID string, amount float64) error
	GetGoalByID(ctx context.Context, id string) (*domain.FinancialGoal, error)
}

// DirectoryStore persists counterparty entities.
type DirectoryStore interface {
	GetAllEntities(ctx context.Context, ownerID string) ([]domain.DirectoryEntity, error)
	AddEntity(ctx context.Context, entity domain.DirectoryEntity) error
	UpdateEntity(ctx context.Context, entity domain.DirectoryEntity) error
	DeleteEntity(ctx context.Context, id string) error
}

// ShoppingStore persists discretionary-spend log entries.
type ShoppingStore interface {
	GetAllShopping(ctx context.Context, ownerID string) ([]domain.ShoppingItem, error)
	AddShopping(ctx context.Context, item domain.ShoppingItem) error
	UpdateShopping(ctx context.Context, item domain.ShoppingItem) error
	DeleteShopping(ctx context.Context, id string) error
}

// PersistenceStore is the full remote persistence surface, one store per
// entity kind. Implemented by the Supabase adapter (or any other backend).
type PersistenceStore interface {
	ItemStore
	AssetStore
	EventStore
	GoalStore
	DirectoryStore
	ShoppingStore
}

// RateStore reads and writes the shared exchange-rate record.
type RateStore interface {
	GetRates(ctx context.Context) (*domain.RateSet, error)
	UpdateRates(ctx context.Context, rates domain.RateSet) error
}

// OfficialRateSource fetches the central-bank rates from the live endpoint.
type OfficialRateSource interface {
	FetchOfficial(ctx context.Context) (*domain.RateSet, error)
}

// ParallelRateSource fetches the peer-market buy/sell averages.
type ParallelRateSource interface {
	FetchParallel(ctx context.Context) (*domain.RateSet, error)
}

// NotificationSink receives discrete events produced by the core.
type NotificationSink interface {
	Publish(n domain.Notification)
}
