package repositories_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories lists every Entity Store implementation the contract tests run against.
var storeFactories = map[string]func(t *testing.T) *repositories.Stores{
	"memory": func(t *testing.T) *repositories.Stores {
		return repositories.NewMemoryStores()
	},
	"sqlite": func(t *testing.T) *repositories.Stores {
		stores, err := repositories.OpenStores(repositories.DriverSQLite, "file::memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = stores.Close() })
		return stores
	},
}

func forEachStore(t *testing.T, fn func(t *testing.T, stores *repositories.Stores)) {
	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func createProduct(t *testing.T, stores *repositories.Stores, name string, quantity int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Quantity:      quantity,
		UnitCost:      decimal.RequireFromString("5.00"),
		MinStockLevel: 2,
	}
	require.NoError(t, stores.Products.Create(context.Background(), p))
	require.NotEmpty(t, p.ID)
	return p
}

func newSale(productID string, qty int) *models.Sale {
	price := decimal.RequireFromString("7.50")
	return &models.Sale{
		ID:           uuid.New().String(),
		ProductID:    productID,
		UnitPrice:    price,
		QuantitySold: qty,
		TotalPrice:   price.Mul(decimal.NewFromInt(int64(qty))),
		SaleDate:     time.Now(),
	}
}

func newPurchase(productID string, qty int) *models.Purchase {
	price := decimal.RequireFromString("4.00")
	return &models.Purchase{
		ID:                uuid.New().String(),
		ProductID:         productID,
		UnitPrice:         price,
		QuantityPurchased: qty,
		TotalPrice:        price.Mul(decimal.NewFromInt(int64(qty))),
		PurchaseDate:      time.Now(),
	}
}

func TestProductRepository_CRUD(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		keyboard := createProduct(t, stores, "Keyboard", 25)
		createProduct(t, stores, "Cable", 3)

		products, err := stores.Products.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Cable", products[0].Name)
		assert.Equal(t, "Keyboard", products[1].Name)

		fetched, err := stores.Products.GetByID(ctx, keyboard.ID)
		require.NoError(t, err)
		assert.Equal(t, 25, fetched.Quantity)
		assert.True(t, decimal.RequireFromString("5").Equal(fetched.UnitCost))

		fetched.Name = "Mechanical Keyboard"
		fetched.MinStockLevel = 5
		fetched.Quantity = 999 // ignored by Update
		require.NoError(t, stores.Products.Update(ctx, fetched))
		assert.Equal(t, 25, fetched.Quantity)
		assert.Equal(t, "Mechanical Keyboard", fetched.Name)

		require.NoError(t, stores.Products.Delete(ctx, keyboard.ID))
		_, err = stores.Products.GetByID(ctx, keyboard.ID)
		assert.True(t, models.IsNotFoundError(err))

		err = stores.Products.Delete(ctx, keyboard.ID)
		assert.True(t, models.IsNotFoundError(err))

		err = stores.Products.Update(ctx, &models.Product{ID: "missing", Name: "Ghost", UnitCost: decimal.NewFromInt(1)})
		assert.True(t, models.IsNotFoundError(err))
	})
}

func TestProductRepository_DuplicateName(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		createProduct(t, stores, "Widget", 1)
		gadget := createProduct(t, stores, "Gadget", 1)

		err := stores.Products.Create(ctx, &models.Product{Name: "Widget", UnitCost: decimal.NewFromInt(1)})
		assert.True(t, models.IsDuplicateNameError(err))

		rename := *gadget
		rename.Name = "Widget"
		err = stores.Products.Update(ctx, &rename)
		assert.True(t, models.IsDuplicateNameError(err))

		unchanged, err := stores.Products.GetByID(ctx, gadget.ID)
		require.NoError(t, err)
		assert.Equal(t, "Gadget", unchanged.Name)
	})
}

func TestLedgerRepository_ApplySale(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 10)

		sale := newSale(p.ID, 3)
		updated, err := stores.Ledger.ApplySale(ctx, sale)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
		assert.Equal(t, "Widget", sale.ProductName)

		_, err = stores.Ledger.ApplySale(ctx, newSale(p.ID, 8))
		require.Error(t, err)
		var insufficient *models.InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, "Widget", insufficient.ProductName)
		assert.Equal(t, 7, insufficient.Available)
		assert.Equal(t, 8, insufficient.Requested)

		current, err := stores.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, current.Quantity)

		sales, err := stores.Ledger.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.True(t, decimal.RequireFromString("22.50").Equal(sales[0].TotalPrice))

		_, err = stores.Ledger.ApplySale(ctx, newSale("missing", 1))
		assert.True(t, models.IsNotFoundError(err))
	})
}

func TestLedgerRepository_ApplyPurchaseAndAdjustment(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 0)

		purchase := newPurchase(p.ID, 12)
		updated, err := stores.Ledger.ApplyPurchase(ctx, purchase)
		require.NoError(t, err)
		assert.Equal(t, 12, updated.Quantity)
		assert.Equal(t, "Widget", purchase.ProductName)

		_, err = stores.Ledger.ApplyPurchase(ctx, newPurchase("missing", 1))
		assert.True(t, models.IsNotFoundError(err))

		adj := &models.StockAdjustment{
			ID:          uuid.New().String(),
			ProductID:   p.ID,
			NewQuantity: 4,
			Reason:      "cycle count",
			AdjustedAt:  time.Now(),
		}
		updated, err = stores.Ledger.ApplyAdjustment(ctx, adj)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Quantity)
		assert.Equal(t, 12, adj.PreviousQuantity)
		assert.Equal(t, "Widget", adj.ProductName)

		adjustments, err := stores.Ledger.ListAdjustments(ctx)
		require.NoError(t, err)
		require.Len(t, adjustments, 1)
		assert.Equal(t, -8, adjustments[0].Delta())

		purchases, err := stores.Ledger.ListPurchases(ctx)
		require.NoError(t, err)
		require.Len(t, purchases, 1)
		assert.Equal(t, 12, purchases[0].QuantityPurchased)
	})
}

func TestLedgerRepository_PurchaseCannotOverflowStock(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 10)

		_, err := stores.Ledger.ApplyPurchase(ctx, newPurchase(p.ID, math.MaxInt))
		var invalid *models.ValidationError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "quantityPurchased", invalid.Field)
		assert.Contains(t, invalid.Error(), "Widget")

		current, err := stores.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, current.Quantity)

		purchases, err := stores.Ledger.ListPurchases(ctx)
		require.NoError(t, err)
		assert.Empty(t, purchases)

		// Filling up to the limit exactly is allowed
		updated, err := stores.Ledger.ApplyPurchase(ctx, newPurchase(p.ID, math.MaxInt-10))
		require.NoError(t, err)
		assert.Equal(t, math.MaxInt, updated.Quantity)

		_, err = stores.Ledger.ApplyPurchase(ctx, newPurchase(p.ID, 1))
		assert.True(t, models.IsValidationError(err))
	})
}

func TestLedgerRepository_AdjustmentToCurrentQuantityIsNotRecorded(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 7)

		adj := &models.StockAdjustment{
			ID:          uuid.New().String(),
			ProductID:   p.ID,
			NewQuantity: 7,
			AdjustedAt:  time.Now(),
		}
		updated, err := stores.Ledger.ApplyAdjustment(ctx, adj)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)
		assert.Equal(t, 7, adj.PreviousQuantity)
		assert.Equal(t, 0, adj.Delta())

		adjustments, err := stores.Ledger.ListAdjustments(ctx)
		require.NoError(t, err)
		assert.Empty(t, adjustments)
	})
}

func TestLedgerRepository_ListsNewestFirst(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 10)

		older := newSale(p.ID, 1)
		older.SaleDate = time.Now().Add(-time.Hour)
		newer := newSale(p.ID, 2)

		_, err := stores.Ledger.ApplySale(ctx, newer)
		require.NoError(t, err)
		_, err = stores.Ledger.ApplySale(ctx, older)
		require.NoError(t, err)

		sales, err := stores.Ledger.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, newer.ID, sales[0].ID)
		assert.Equal(t, older.ID, sales[1].ID)
	})
}

func TestLedgerRepository_HistorySurvivesProductDeletion(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 10)
		_, err := stores.Ledger.ApplySale(ctx, newSale(p.ID, 2))
		require.NoError(t, err)

		require.NoError(t, stores.Products.Delete(ctx, p.ID))

		sales, err := stores.Ledger.ListSales(ctx)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, "Widget", sales[0].ProductName)
		assert.Equal(t, p.ID, sales[0].ProductID)
	})
}

func TestLedgerRepository_ConcurrentSalesNeverOversell(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		const size = 5
		const attempts = 20
		p := createProduct(t, stores, "Widget", size)

		var (
			wg           sync.WaitGroup
			mu           sync.Mutex
			successes    int
			insufficient int
		)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := stores.Ledger.ApplySale(ctx, newSale(p.ID, size))
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
				} else if models.IsInsufficientStockError(err) {
					insufficient++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, attempts-1, insufficient)

		current, err := stores.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, current.Quantity)
	})
}

func TestLedgerRepository_ConcurrentPurchasesDoNotLoseUpdates(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		p := createProduct(t, stores, "Widget", 0)

		var wg sync.WaitGroup
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := stores.Ledger.ApplyPurchase(ctx, newPurchase(p.ID, 2))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		current, err := stores.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 50, current.Quantity)
	})
}

func TestInMemoryStore_CanceledContext(t *testing.T) {
	store := repositories.NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ApplySale(ctx, newSale("any", 1))
	assert.ErrorIs(t, err, context.Canceled)

	products, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOpenStores_UnsupportedDriver(t *testing.T) {
	_, err := repositories.OpenStores("oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewInMemoryUserRepository()

	user := &models.User{Username: "operator", Email: "op@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "operator")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.GetByEmail(ctx, "op@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "nope")
	assert.True(t, models.IsNotFoundError(err))

	err = repo.Create(ctx, &models.User{Username: "operator", Email: "other@example.com"})
	assert.ErrorIs(t, err, models.ErrAccountExists)
}

func TestUserRepository_DuplicateIsAccountExists(t *testing.T) {
	forEachStore(t, func(t *testing.T, stores *repositories.Stores) {
		ctx := context.Background()
		require.NoError(t, stores.Users.Create(ctx, &models.User{Username: "operator", Email: "op@example.com", Password: "hash"}))

		err := stores.Users.Create(ctx, &models.User{Username: "operator", Email: "other@example.com", Password: "hash"})
		assert.ErrorIs(t, err, models.ErrAccountExists)

		err = stores.Users.Create(ctx, &models.User{Username: "someone", Email: "op@example.com", Password: "hash"})
		assert.ErrorIs(t, err, models.ErrAccountExists)
	})
}
