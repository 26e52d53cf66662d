package settlement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/store"
)

// nopRemote is a persistence stub; every remote write succeeds.
type nopRemote struct{}

func (nopRemote) GetAllItems(ctx context.Context, ownerID string) ([]domain.LedgerItem, error) {
	return nil, nil
}
func (nopRemote) AddItem(ctx context.Context, item domain.LedgerItem) error    { return nil }
func (nopRemote) UpdateItem(ctx context.Context, item domain.LedgerItem) error { return nil }
func (nopRemote) DeleteItem(ctx context.Context, id string) error              { return nil }
func (nopRemote) GetAllAssets(ctx context.Context, ownerID string) ([]domain.PhysicalAsset, error) {
	return nil, nil
}
func (nopRemote) AddAsset(ctx context.Context, asset domain.PhysicalAsset) error    { return nil }
func (nopRemote) UpdateAsset(ctx context.Context, asset domain.PhysicalAsset) error { return nil }
func (nopRemote) DeleteAsset(ctx context.Context, id string) error                  { return nil }
func (nopRemote) GetAllEvents(ctx context.Context, ownerID string) ([]domain.SpecialEvent, error) {
	return nil, nil
}
func (nopRemote) AddEvent(ctx context.Context, event domain.SpecialEvent) error    { return nil }
func (nopRemote) UpdateEvent(ctx context.Context, event domain.SpecialEvent) error { return nil }
func (nopRemote) DeleteEvent(ctx context.Context, id string) error                 { return nil }
func (nopRemote) GetAllGoals(ctx context.Context, ownerID string) ([]domain.FinancialGoal, error) {
	return nil, nil
}
func (nopRemote) AddGoal(ctx context.Context, goal domain.FinancialGoal) error    { return nil }
func (nopRemote) UpdateGoal(ctx context.Context, goal domain.FinancialGoal) error { return nil }
func (nopRemote) DeleteGoal(ctx context.Context, id string) error                 { return nil }
func (nopRemote) AddContribution(ctx context.Context, goalID string, amount float64) error {
	return nil
}
func (nopRemote) GetGoalByID(ctx context.Context, id string) (*domain.FinancialGoal, error) {
	return nil, &domain.ErrNotFound{Resource: "goal", ID: id}
}
func (nopRemote) GetAllEntities(ctx context.Context, ownerID string) ([]domain.DirectoryEntity, error) {
	return nil, nil
}
func (nopRemote) AddEntity(ctx context.Context, entity domain.DirectoryEntity) error    { return nil }
func (nopRemote) UpdateEntity(ctx context.Context, entity domain.DirectoryEntity) error { return nil }
func (nopRemote) DeleteEntity(ctx context.Context, id string) error                     { return nil }
func (nopRemote) GetAllShopping(ctx context.Context, ownerID string) ([]domain.ShoppingItem, error) {
	return nil, nil
}
func (nopRemote) AddShopping(ctx context.Context, item domain.ShoppingItem) error    { return nil }
func (nopRemote) UpdateShopping(ctx context.Context, item domain.ShoppingItem) error { return nil }
func (nopRemote) DeleteShopping(ctx context.Context, id string) error                { return nil }

type captureNotifier struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (c *captureNotifier) Publish(n domain.Notification) {
	c.mu.Lock()
	c.notifications = append(c.notifications, n)
	c.mu.Unlock()
}

func newProcessor(t *testing.T) (*Processor, *store.Store) {
	t.Helper()
	metrics := observability.NewMetrics()
	s := store.NewStore("owner-1", nopRemote{}, &captureNotifier{}, metrics, zap.NewNop())
	t.Cleanup(s.Close)
	p := NewProcessor(s, &captureNotifier{}, metrics, zap.NewNop())
	return p, s
}

func seedAccount(t *testing.T, s *store.Store, name string, amount float64, currency domain.Currency) domain.LedgerItem {
	t.Helper()
	item, err := s.AddItem(context.Background(), domain.LedgerItem{
		Name: name, Amount: amount, Currency: currency,
		Category: domain.CategoryBank, Kind: domain.KindAsset,
	})
	if err != nil {
		t.Fatalf("seeding account: %v", err)
	}
	return item
}

func seedDebt(t *testing.T, s *store.Store, name string, amount float64, currency domain.Currency) domain.LedgerItem {
	t.Helper()
	item, err := s.AddItem(context.Background(), domain.LedgerItem{
		Name: name, Amount: amount, Currency: currency,
		Category: domain.CategoryDebt, Kind: domain.KindLiability,
	})
	if err != nil {
		t.Fatalf("seeding debt: %v", err)
	}
	return item
}

func seedReceivable(t *testing.T, s *store.Store, name string, amount float64, currency domain.Currency) domain.LedgerItem {
	t.Helper()
	item, err := s.AddItem(context.Background(), domain.LedgerItem{
		Name: name, Amount: amount, Currency: currency,
		Category: domain.CategoryReceivable, Kind: domain.KindAsset,
	})
	if err != nil {
		t.Fatalf("seeding receivable: %v", err)
	}
	return item
}

func TestPartialMoneySettlementShrinksDebtAndDebitsAccount(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 1000, domain.USD)
	debt := seedDebt(t, s, "Loan", 300, domain.USD)

	res, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodMoney, Amount: 100, AccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SettledAmount != 100 || res.Remaining != 200 || res.Deleted {
		t.Fatalf("unexpected result: %+v", res)
	}

	got, _ := s.ItemByID(debt.ID)
	if got.Amount != 200 {
		t.Fatalf("expected remaining debt 200, got %v", got.Amount)
	}
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 900 {
		t.Fatalf("expected account 900, got %v", acc.Amount)
	}
}

func TestFullMoneySettlementDeletesDebt(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 1000, domain.USD)
	debt := seedDebt(t, s, "Loan", 200, domain.USD)

	res, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodMoney, AccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Deleted || res.SettledAmount != 200 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := s.ItemByID(debt.ID); err == nil {
		t.Fatal("fully settled debt must be deleted")
	}
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 800 {
		t.Fatalf("expected account 800, got %v", acc.Amount)
	}
}

func TestOverpayingSettlesInFullOnly(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 1000, domain.USD)
	debt := seedDebt(t, s, "Loan", 150, domain.USD)

	res, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodMoney, Amount: 500, AccountID: account.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SettledAmount != 150 || !res.Deleted {
		t.Fatalf("settlement must be capped at the item amount: %+v", res)
	}
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 850 {
		t.Fatalf("expected account 850, got %v", acc.Amount)
	}
}

func TestMoneySettlementCreditsAccountForReceivable(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 100, domain.USD)
	recv := seedReceivable(t, s, "Friend owes me", 50, domain.USD)

	if _, err := p.Settle(context.Background(), Request{
		ItemID: recv.ID, Method: MethodMoney, AccountID: account.ID,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 150 {
		t.Fatalf("collecting a receivable must credit the account, got %v", acc.Amount)
	}
}

func TestMoneySettlementRejectsInsufficientFunds(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 50, domain.USD)
	debt := seedDebt(t, s, "Loan", 300, domain.USD)

	_, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodMoney, Amount: 100, AccountID: account.ID,
	})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	// Nothing moved.
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 50 {
		t.Fatalf("rejected settlement must not touch the account, got %v", acc.Amount)
	}
	d, _ := s.ItemByID(debt.ID)
	if d.Amount != 300 {
		t.Fatalf("rejected settlement must not touch the debt, got %v", d.Amount)
	}
}

func TestMoneySettlementRejectsCurrencyMismatch(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Bolivares", 10000, domain.VES)
	debt := seedDebt(t, s, "Loan", 300, domain.USD)

	_, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodMoney, AccountID: account.ID,
	})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSettleRejectsNonSettleableItem(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 1000, domain.USD)

	_, err := p.Settle(context.Background(), Request{
		ItemID: account.ID, Method: MethodForgive,
	})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestForgiveDeletesDebtWithoutSideEffect(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 1000, domain.USD)
	debt := seedDebt(t, s, "Loan", 300, domain.USD)

	res, err := p.Settle(context.Background(), Request{ItemID: debt.ID, Method: MethodForgive})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Deleted {
		t.Fatalf("forgiven debt must be deleted: %+v", res)
	}
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 1000 {
		t.Fatalf("forgiveness must not touch accounts, got %v", acc.Amount)
	}
}

func TestAssetInCreatesAssetValuedAtSettledAmount(t *testing.T) {
	p, s := newProcessor(t)
	recv := seedReceivable(t, s, "Friend owes me", 50, domain.USD)

	res, err := p.Settle(context.Background(), Request{
		ItemID: recv.ID, Method: MethodAssetIn, AssetName: "Phone",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Deleted {
		t.Fatalf("full asset_in settlement must delete the receivable: %+v", res)
	}

	assets := s.Assets()
	if len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(assets))
	}
	if assets[0].Name != "Phone" || assets[0].EstimatedValue != 50 || assets[0].Currency != domain.USD {
		t.Fatalf("unexpected asset: %+v", assets[0])
	}
}

func TestAssetOutSurrendersAssetAgainstDebt(t *testing.T) {
	p, s := newProcessor(t)
	debt := seedDebt(t, s, "Loan", 300, domain.USD)
	asset, err := s.AddAsset(context.Background(), domain.PhysicalAsset{
		Name: "Laptop", EstimatedValue: 400, Currency: domain.USD,
	})
	if err != nil {
		t.Fatalf("seeding asset: %v", err)
	}

	res, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodAssetOut, AssetID: asset.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Deleted {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, err := s.AssetByID(asset.ID); err == nil {
		t.Fatal("surrendered asset must leave the inventory")
	}
}

func TestAssetInRejectedForDebt(t *testing.T) {
	p, s := newProcessor(t)
	debt := seedDebt(t, s, "Loan", 300, domain.USD)

	_, err := p.Settle(context.Background(), Request{
		ItemID: debt.ID, Method: MethodAssetIn, AssetName: "Phone",
	})
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLiquidateCreditsAccountAndRemovesAsset(t *testing.T) {
	p, s := newProcessor(t)
	account := seedAccount(t, s, "Checking", 100, domain.USD)
	asset, err := s.AddAsset(context.Background(), domain.PhysicalAsset{
		Name: "Monitor", EstimatedValue: 200, Currency: domain.USD,
	})
	if err != nil {
		t.Fatalf("seeding asset: %v", err)
	}

	if err := p.Liquidate(context.Background(), asset.ID, account.ID, 180); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acc, _ := s.ItemByID(account.ID)
	if acc.Amount != 280 {
		t.Fatalf("expected account 280, got %v", acc.Amount)
	}
	if _, err := s.AssetByID(asset.ID); err == nil {
		t.Fatal("liquidated asset must leave the inventory")
	}
}

func TestLiquidateRejectsNonPositivePrice(t *testing.T) {
	p, _ := newProcessor(t)
	err := p.Liquidate(context.Background(), "a1", "acc1", 0)
	var ve *domain.ErrValidation
	if !errors.As(err, &ve) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
