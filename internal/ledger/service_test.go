package ledger

import (
	"context"
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

func TestRecordSaleRowShape(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.True(t, svc.RecordSale(ctx, 1, 7, 4, 100))

	rows := store.Rows(ctx, sheet.TableSales)
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "", row[0], "id column stays blank")
	assert.Equal(t, "1", row[1])
	assert.Equal(t, "7", row[2])
	assert.Equal(t, "4", row[3])
	assert.Equal(t, "100", row[4])
	assert.Equal(t, "400", row[5])
	assert.NotEmpty(t, row[6])
}

func seedSale(store *sheet.MemoryStore, sellerID string, qty, total, stamp string) {
	store.Append(context.Background(), sheet.TableSales, []string{
		"", sellerID, "7", qty, "10", total, stamp,
	})
}

func TestSellerSummaryDateFilter(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedSale(store, "1", "1", "10", "2024-01-01")
	seedSale(store, "1", "2", "20", "2024-01-15 09:30:00")
	seedSale(store, "1", "3", "30", "2024-02-01")
	seedSale(store, "2", "9", "90", "2024-01-10") // other seller

	sum := svc.SellerSummary(ctx, 1, "2024-01-01", "2024-01-31")
	assert.Equal(t, 3, sum.Quantity)
	assert.Equal(t, 30.0, sum.Revenue)
}

func TestSellerSummaryOpenRange(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedSale(store, "1", "1", "10", "2024-01-01")
	seedSale(store, "1", "3", "30", "2024-02-01")

	all := svc.SellerSummary(ctx, 1, "", "")
	assert.Equal(t, 4, all.Quantity)
	assert.Equal(t, 40.0, all.Revenue)

	from := svc.SellerSummary(ctx, 1, "2024-02-01", "")
	assert.Equal(t, 3, from.Quantity)
	assert.Equal(t, 30.0, from.Revenue)
}

func TestSellerSummaryUnparsableTimestampBypassesFilter(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedSale(store, "1", "2", "20", "not-a-date")

	sum := svc.SellerSummary(ctx, 1, "2024-01-01", "2024-01-31")
	assert.Equal(t, 2, sum.Quantity, "rows without a parsable date are not excluded")
	assert.Equal(t, 20.0, sum.Revenue)
}

func TestSellerSummaryRoundsRevenue(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	seedSale(store, "1", "1", "10.005", "2024-01-01")
	seedSale(store, "1", "1", "10.002", "2024-01-02")

	sum := svc.SellerSummary(ctx, 1, "", "")
	assert.Equal(t, 20.01, sum.Revenue)
}

func TestSellerSummaryEmptyOnUnreachableStore(t *testing.T) {
	svc, store := newTestService(t)
	store.Fail = true

	sum := svc.SellerSummary(context.Background(), 1, "", "")
	assert.Zero(t, sum.Quantity)
	assert.Zero(t, sum.Revenue)
	assert.False(t, svc.RecordSale(context.Background(), 1, 7, 4, 100))
}
