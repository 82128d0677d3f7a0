package catalog

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ayyubpromptcoder/sellerbot/internal/sheet"
)

func newTestService(t *testing.T) (*Service, *sheet.MemoryStore) {
	store := sheet.NewMemoryStore()
	return NewService(store, zaptest.NewLogger(t)), store
}

func seedStock(store *sheet.MemoryStore, sellerID, productID, quantity int, price float64) {
	total := price * float64(quantity)
	store.Append(context.Background(), sheet.TableStock, []string{
		"",
		strconv.Itoa(sellerID),
		strconv.Itoa(productID),
		strconv.Itoa(quantity),
		strconv.FormatFloat(price, 'f', -1, 64),
		strconv.FormatFloat(total, 'f', -1, 64),
		"2024-01-01 10:00:00",
	})
}

func TestSellerStockAggregation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedStock(store, 1, 7, 10, 100)
	seedStock(store, 1, 7, 5, 100)
	seedStock(store, 1, 7, -3, 100)
	seedStock(store, 2, 7, 50, 100) // other seller, must not leak in

	stock := svc.SellerStock(ctx, 1)
	require.Contains(t, stock, 7)
	assert.Equal(t, 12, stock[7].Quantity)
	assert.Equal(t, 100.0, stock[7].Price)
}

func TestSellerStockDropsNonPositive(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedStock(store, 1, 7, 5, 100)
	seedStock(store, 1, 7, -5, 100)
	seedStock(store, 1, 8, 2, 50)

	stock := svc.SellerStock(ctx, 1)
	assert.NotContains(t, stock, 7, "zero balance must be omitted")
	assert.Contains(t, stock, 8)
}

func TestSellerStockLastPriceWins(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedStock(store, 1, 7, 10, 100)
	seedStock(store, 1, 7, 5, 120)

	stock := svc.SellerStock(ctx, 1)
	require.Contains(t, stock, 7)
	assert.Equal(t, 15, stock[7].Quantity)
	assert.Equal(t, 120.0, stock[7].Price, "price of the last ledger row is reported")
}

func TestProductByNameIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.AddProduct(ctx, "Apple", 100))

	for _, name := range []string{"Apple", " apple ", "APPLE"} {
		p := svc.ProductByName(ctx, name)
		require.NotNil(t, p, "lookup %q", name)
		assert.Equal(t, 1, p.ID)
		assert.Equal(t, "Apple", p.Name)
	}
	assert.Nil(t, svc.ProductByName(ctx, "Pear"))
}

func TestProductNameByIDFallback(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	svc.AddProduct(ctx, "Apple", 100)
	assert.Equal(t, "Apple", svc.ProductNameByID(ctx, 1))
	assert.Equal(t, "ID: 42", svc.ProductNameByID(ctx, 42))
}

func TestIDAssignmentFollowsRowCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id1, ok := svc.AddProductID(ctx, "Apple", 100)
	require.True(t, ok)
	id2, ok := svc.AddProductID(ctx, "Pear", 80)
	require.True(t, ok)
	assert.Equal(t, 1, id1)
	assert.Equal(t, 2, id2)

	require.True(t, svc.AddSeller(ctx, "Ali", "Chilonzor", "+99890", "s3cret"))
	sl := svc.SellerByID(ctx, 1)
	require.NotNil(t, sl)
	assert.Equal(t, "Ali", sl.Name)
}

func TestSellerByPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.AddSeller(ctx, "Ali", "Chilonzor", "+99890", "s3cret"))

	sl := svc.SellerByPassword(ctx, "s3cret")
	require.NotNil(t, sl)
	assert.Equal(t, "Ali", sl.Name)

	assert.Nil(t, svc.SellerByPassword(ctx, "S3CRET"), "password match is case-sensitive")
	assert.Nil(t, svc.SellerByPassword(ctx, "wrong"))
}

func TestResetSellerPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.AddSeller(ctx, "Ali", "Chilonzor", "+99890", "s3cret"))
	require.True(t, svc.AddSeller(ctx, "Vali", "Yunusobod", "+99891", "p4ssword"))

	sl := svc.SellerByID(ctx, 2)
	require.NotNil(t, sl)
	require.True(t, svc.ResetSellerPassword(ctx, sl, "123456"))

	assert.Nil(t, svc.SellerByPassword(ctx, "p4ssword"))
	updated := svc.SellerByPassword(ctx, "123456")
	require.NotNil(t, updated)
	assert.Equal(t, "Vali", updated.Name)
}

func TestFailSoftOnUnreachableStore(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	store.Fail = true

	assert.Empty(t, svc.Products(ctx))
	assert.Empty(t, svc.Sellers(ctx))
	assert.Empty(t, svc.SellerStock(ctx, 1))
	assert.False(t, svc.AddProduct(ctx, "Apple", 100))
	assert.False(t, svc.AddSeller(ctx, "Ali", "Chilonzor", "+99890", "s3cret"))
	assert.False(t, svc.IssueStock(ctx, 1, 1, 5, 100))
}
