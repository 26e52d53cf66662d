package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// Optimistic CRUD for the six collections. The pattern is identical for
// every kind: validate, apply to local state under the lock, then queue
// the remote write. A remote failure lands on the outbox failed list; the
// local change stands.

const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
)

// AddItem creates a ledger item. Assigns an id when the caller did not.
func (s *Store) AddItem(ctx context.Context, item domain.LedgerItem) (domain.LedgerItem, error) {
	if err := item.Validate(); err != nil {
		return domain.LedgerItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return domain.LedgerItem{}, err
	}
	s.items = append(s.items, item)
	s.mu.Unlock()

	it := item
	s.outbox.Enqueue(uuid.NewString(), "item", opAdd, it.ID, func(ctx context.Context) error {
		return s.remote.AddItem(ctx, it)
	})
	return item, nil
}

// UpdateItem replaces a ledger item wholesale.
func (s *Store) UpdateItem(ctx context.Context, item domain.LedgerItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	item.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.items {
		if s.items[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "item", ID: item.ID}
	}
	s.items[idx] = item
	s.mu.Unlock()

	it := item
	s.outbox.Enqueue(uuid.NewString(), "item", opUpdate, it.ID, func(ctx context.Context) error {
		return s.remote.UpdateItem(ctx, it)
	})
	return nil
}

// DeleteItem removes a ledger item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "item", ID: id}
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	s.outbox.Enqueue(uuid.NewString(), "item", opDelete, id, func(ctx context.Context) error {
		return s.remote.DeleteItem(ctx, id)
	})
	return nil
}

// AddAsset creates a physical asset.
func (s *Store) AddAsset(ctx context.Context, asset domain.PhysicalAsset) (domain.PhysicalAsset, error) {
	if err := asset.Validate(); err != nil {
		return domain.PhysicalAsset{}, err
	}
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	asset.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return domain.PhysicalAsset{}, err
	}
	s.assets = append(s.assets, asset)
	s.mu.Unlock()

	a := asset
	s.outbox.Enqueue(uuid.NewString(), "asset", opAdd, a.ID, func(ctx context.Context) error {
		return s.remote.AddAsset(ctx, a)
	})
	return asset, nil
}

// UpdateAsset replaces a physical asset wholesale.
func (s *Store) UpdateAsset(ctx context.Context, asset domain.PhysicalAsset) error {
	if err := asset.Validate(); err != nil {
		return err
	}
	asset.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.assets {
		if s.assets[i].ID == asset.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "asset", ID: asset.ID}
	}
	s.assets[idx] = asset
	s.mu.Unlock()

	a := asset
	s.outbox.Enqueue(uuid.NewString(), "asset", opUpdate, a.ID, func(ctx context.Context) error {
		return s.remote.UpdateAsset(ctx, a)
	})
	return nil
}

// DeleteAsset removes a physical asset.
func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.assets {
		if s.assets[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "asset", ID: id}
	}
	s.assets = append(s.assets[:idx], s.assets[idx+1:]...)
	s.mu.Unlock()

	s.outbox.Enqueue(uuid.NewString(), "asset", opDelete, id, func(ctx context.Context) error {
		return s.remote.DeleteAsset(ctx, id)
	})
	return nil
}

// AddEvent creates a calendar event.
func (s *Store) AddEvent(ctx context.Context, event domain.SpecialEvent) (domain.SpecialEvent, error) {
	if err := event.Validate(); err != nil {
		return domain.SpecialEvent{}, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return domain.SpecialEvent{}, err
	}
	s.events = append(s.events, event)
	s.mu.Unlock()

	e := event
	s.outbox.Enqueue(uuid.NewString(), "event", opAdd, e.ID, func(ctx context.Context) error {
		return s.remote.AddEvent(ctx, e)
	})
	return event, nil
}

// UpdateEvent replaces a calendar event wholesale.
func (s *Store) UpdateEvent(ctx context.Context, event domain.SpecialEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}
	event.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.events {
		if s.events[i].ID == event.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "event", ID: event.ID}
	}
	s.events[idx] = event
	s.mu.Unlock()

	e := event
	s.outbox.Enqueue(uuid.NewString(), "event", opUpdate, e.ID, func(ctx context.Context) error {
		return s.remote.UpdateEvent(ctx, e)
	})
	return nil
}

// DeleteEvent removes a calendar event.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.events {
		if s.events[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "event", ID: id}
	}
	s.events = append(s.events[:idx], s.events[idx+1:]...)
	s.mu.Unlock()

	s.outbox.Enqueue(uuid.NewString(), "event", opDelete, id, func(ctx context.Context) error {
		return s.remote.DeleteEvent(ctx, id)
	})
	return nil
}

// AddGoal creates a goal. New goals always start active.
func (s *Store) AddGoal(ctx context.Context, goal domain.FinancialGoal) (domain.FinancialGoal, error) {
	if err := goal.Validate(); err != nil {
		return domain.FinancialGoal{}, err
	}
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	goal.OwnerID = s.ownerID
	if goal.Status == "" {
		goal.Status = domain.GoalActive
	}

	if err := s.guardWrite(); err != nil {
		return domain.FinancialGoal{}, err
	}
	s.goals = append(s.goals, goal)
	s.mu.Unlock()

	g := goal
	s.outbox.Enqueue(uuid.NewString(), "goal", opAdd, g.ID, func(ctx context.Context) error {
		return s.remote.AddGoal(ctx, g)
	})
	return goal, nil
}

// UpdateGoal replaces a goal wholesale. Contributions go through
// Contribute, never through here.
func (s *Store) UpdateGoal(ctx context.Context, goal domain.FinancialGoal) error {
	if err := goal.Validate(); err != nil {
		return err
	}
	goal.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.goals {
		if s.goals[i].ID == goal.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "goal", ID: goal.ID}
	}
	s.goals[idx] = goal
	s.mu.Unlock()

	g := goal
	s.outbox.Enqueue(uuid.NewString(), "goal", opUpdate, g.ID, func(ctx context.Context) error {
		return s.remote.UpdateGoal(ctx, g)
	})
	return nil
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.goals {
		if s.goals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "goal", ID: id}
	}
	s.goals = append(s.goals[:idx], s.goals[idx+1:]...)
	s.mu.Unlock()

	s.outbox.Enqueue(uuid.NewString(), "goal", opDelete, id, func(ctx context.Context) error {
		return s.remote.DeleteGoal(ctx, id)
	})
	return nil
}

// AddEntity creates a directory counterparty.
func (s *Store) AddEntity(ctx context.Context, entity domain.DirectoryEntity) (domain.DirectoryEntity, error) {
	if err := entity.Validate(); err != nil {
		return domain.DirectoryEntity{}, err
	}
	if entity.ID == "" {
		entity.ID = uuid.NewString()
	}
	entity.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return domain.DirectoryEntity{}, err
	}
	s.entities = append(s.entities, entity)
	s.mu.Unlock()

	e := entity
	s.outbox.Enqueue(uuid.NewString(), "directory", opAdd, e.ID, func(ctx context.Context) error {
		return s.remote.AddEntity(ctx, e)
	})
	return entity, nil
}

// UpdateEntity replaces a directory counterparty wholesale.
func (s *Store) UpdateEntity(ctx context.Context, entity domain.DirectoryEntity) error {
	if err := entity.Validate(); err != nil {
		return err
	}
	entity.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.entities {
		if s.entities[i].ID == entity.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "entity", ID: entity.ID}
	}
	s.entities[idx] = entity
	s.mu.Unlock()

	e := entity
	s.outbox.Enqueue(uuid.NewString(), "directory", opUpdate, e.ID, func(ctx context.Context) error {
		return s.remote.UpdateEntity(ctx, e)
	})
	return nil
}

// DeleteEntity removes a directory counterparty.
func (s *Store) DeleteEntity(ctx context.Context, id string) error {
	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.entities {
		if s.entities[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "entity", ID: id}
	}
	s.entities = append(s.entities[:idx], s.entities[idx+1:]...)
	s.mu.Unlock()

	s.outbox.Enqueue(uuid.NewString(), "directory", opDelete, id, func(ctx context.Context) error {
		return s.remote.DeleteEntity(ctx, id)
	})
	return nil
}

// AddShopping creates a discretionary-spend log entry.
func (s *Store) AddShopping(ctx context.Context, item domain.ShoppingItem) (domain.ShoppingItem, error) {
	if err := item.Validate(); err != nil {
		return domain.ShoppingItem{}, err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return domain.ShoppingItem{}, err
	}
	s.shopping = append(s.shopping, item)
	s.mu.Unlock()

	it := item
	s.outbox.Enqueue(uuid.NewString(), "shopping", opAdd, it.ID, func(ctx context.Context) error {
		return s.remote.AddShopping(ctx, it)
	})
	return item, nil
}

// UpdateShopping replaces a log entry wholesale.
func (s *Store) UpdateShopping(ctx context.Context, item domain.ShoppingItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	item.OwnerID = s.ownerID

	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.shopping {
		if s.shopping[i].ID == item.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "shopping entry", ID: item.ID}
	}
	s.shopping[idx] = item
	s.mu.Unlock()

	it := item
	s.outbox.Enqueue(uuid.NewString(), "shopping", opUpdate, it.ID, func(ctx context.Context) error {
		return s.remote.UpdateShopping(ctx, it)
	})
	return nil
}

// DeleteShopping removes a log entry.
func (s *Store) DeleteShopping(ctx context.Context, id string) error {
	if err := s.guardWrite(); err != nil {
		return err
	}
	idx := -1
	for i := range s.shopping {
		if s.shopping[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return &domain.ErrNotFound{Resource: "shopping entry", ID: id}
	}
	s.shopping = append(s.shopping[:idx], s.shopping[idx+1:]...)
	s.mu.Unlock()

	s.outbox.Enqueue(uuid.NewString(), "shopping", opDelete, id, func(ctx context.Context) error {
		return s.remote.DeleteShopping(ctx, id)
	})
	return nil
}
