// Package ledger records sale events in the append-only Sales table and
// derives per-seller summaries from it. SaleRecord rows are never updated
// or deleted; every query is a full scan plus in-memory accumulation.
package ledger

import (
	"context"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/internal/catalog"
	"github.com/ayyubpromptcoder/sellerbot/internal/sheet"
)

// DateLayout is the fallback layout for date-only filter bounds and for
// sale timestamps written without a time component.
const DateLayout = "2006-01-02"

// Summary is the accumulated result of a seller's sales over a date range.
type Summary struct {
	Quantity int
	Revenue  float64
}

// Service records and summarizes sales.
type Service struct {
	store  sheet.Store
	logger *zap.Logger
}

// NewService creates a new sales ledger Service.
func NewService(store sheet.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// RecordSale appends one sale row with total = price * quantity. The
// compensating negative stock movement is the caller's responsibility; the
// two writes are sequential, not atomic.
func (s *Service) RecordSale(ctx context.Context, sellerID, productID, quantity int, price float64) bool {
	total := price * float64(quantity)
	ok := s.store.Append(ctx, sheet.TableSales, []string{
		"",
		strconv.Itoa(sellerID),
		strconv.Itoa(productID),
		strconv.Itoa(quantity),
		strconv.FormatFloat(price, 'f', -1, 64),
		strconv.FormatFloat(total, 'f', -1, 64),
		time.Now().Format(catalog.TimeLayout),
	})
	if ok {
		s.logger.Info("sale recorded",
			zap.Int("seller_id", sellerID),
			zap.Int("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Float64("total", total))
	}
	return ok
}

// SellerSummary accumulates quantity and revenue over the seller's sales.
// from and to are inclusive "2006-01-02" bounds; either may be empty. Rows
// whose timestamp cannot be parsed bypass the date filter instead of being
// dropped. Revenue is rounded to two decimals.
func (s *Service) SellerSummary(ctx context.Context, sellerID int, from, to string) Summary {
	fromDay, haveFrom := parseDay(from)
	toDay, haveTo := parseDay(to)

	var sum Summary
	for _, row := range s.store.Rows(ctx, sheet.TableSales) {
		if len(row) < 7 {
			continue
		}
		id, err := strconv.Atoi(row[1])
		if err != nil || id != sellerID {
			continue
		}
		if day, ok := parseStamp(row[6]); ok {
			if haveFrom && day.Before(fromDay) {
				continue
			}
			if haveTo && day.After(toDay) {
				continue
			}
		}
		qty, _ := strconv.Atoi(row[3])
		total, _ := strconv.ParseFloat(row[5], 64)
		sum.Quantity += qty
		sum.Revenue += total
	}
	sum.Revenue = math.Round(sum.Revenue*100) / 100
	return sum
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseStamp tries the full timestamp layout first, then date-only, and
// truncates to the day for inclusive range comparison.
func parseStamp(s string) (time.Time, bool) {
	if t, err := time.Parse(catalog.TimeLayout, s); err == nil {
		return t.Truncate(24 * time.Hour), true
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
