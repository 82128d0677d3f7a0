package catalog

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ayyubpromptcoder/sellerbot/internal/sheet"
)

// Service provides seller, product and stock operations on top of the row
// store. It inherits the store's fail-soft behavior: lookups on an
// unreachable store come back empty and writes report false.
type Service struct {
	store  sheet.Store
	logger *zap.Logger
}

// NewService creates a new catalog Service.
func NewService(store sheet.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// nextID assigns the next row ID as the current data-row count plus one.
// This is the legacy scheme carried over from the spreadsheet workflow:
// two concurrent writers can observe the same count and produce duplicate
// IDs. Accepted for the low-concurrency trusted-operator setting.
func (s *Service) nextID(ctx context.Context, table sheet.Table) int {
	return len(s.store.Rows(ctx, table)) + 1
}

// AddSeller registers a new seller row.
func (s *Service) AddSeller(ctx context.Context, name, region, phone, password string) bool {
	id := s.nextID(ctx, sheet.TableSellers)
	ok := s.store.Append(ctx, sheet.TableSellers, []string{
		strconv.Itoa(id), name, region, phone, password, now(),
	})
	if ok {
		s.logger.Info("seller added", zap.Int("seller_id", id), zap.String("name", name))
	}
	return ok
}

// Sellers returns all registered sellers in sheet order.
func (s *Service) Sellers(ctx context.Context) []Seller {
	rows := s.store.Rows(ctx, sheet.TableSellers)
	sellers := make([]Seller, 0, len(rows))
	for i, row := range rows {
		if len(row) < 5 {
			continue
		}
		sl := Seller{
			ID:       parseInt(row[0]),
			Name:     row[1],
			Region:   row[2],
			Phone:    row[3],
			Password: row[4],
			Row:      i,
		}
		if len(row) > 5 {
			sl.CreatedAt = row[5]
		}
		sellers = append(sellers, sl)
	}
	return sellers
}

// SellerByID finds a seller by ID. Linear scan, first match wins.
func (s *Service) SellerByID(ctx context.Context, id int) *Seller {
	for _, sl := range s.Sellers(ctx) {
		if sl.ID == id {
			return &sl
		}
	}
	return nil
}

// SellerByPassword finds the first seller whose stored password matches
// exactly (case-sensitive). Used as the seller authentication gate.
func (s *Service) SellerByPassword(ctx context.Context, password string) *Seller {
	for _, sl := range s.Sellers(ctx) {
		if sl.Password == password {
			return &sl
		}
	}
	return nil
}

// ResetSellerPassword overwrites the seller's password cell in place.
func (s *Service) ResetSellerPassword(ctx context.Context, seller *Seller, password string) bool {
	ok := s.store.UpdateCell(ctx, sheet.TableSellers, seller.Row, 4, password)
	if ok {
		s.logger.Info("seller password reset", zap.Int("seller_id", seller.ID))
	}
	return ok
}

// AddProduct registers a new product row.
func (s *Service) AddProduct(ctx context.Context, name string, price float64) bool {
	_, ok := s.AddProductID(ctx, name, price)
	return ok
}

// AddProductID registers a new product row and returns the assigned ID.
func (s *Service) AddProductID(ctx context.Context, name string, price float64) (int, bool) {
	id := s.nextID(ctx, sheet.TableProducts)
	ok := s.store.Append(ctx, sheet.TableProducts, []string{
		strconv.Itoa(id), name, formatFloat(price),
	})
	if !ok {
		return 0, false
	}
	s.logger.Info("product added", zap.Int("product_id", id), zap.String("name", name))
	return id, true
}

// Products returns all catalog products in sheet order.
func (s *Service) Products(ctx context.Context) []Product {
	rows := s.store.Rows(ctx, sheet.TableProducts)
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		products = append(products, Product{
			ID:    parseInt(row[0]),
			Name:  row[1],
			Price: parseFloat(row[2]),
		})
	}
	return products
}

// ProductByName finds a product by its name, trimmed and case-insensitive.
// First hit wins.
func (s *Service) ProductByName(ctx context.Context, name string) *Product {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, p := range s.Products(ctx) {
		if strings.ToLower(strings.TrimSpace(p.Name)) == want {
			return &p
		}
	}
	return nil
}

// ProductNameByID resolves a product name for display. Unknown IDs come
// back as a placeholder rather than an error, so stock listings still
// render when the catalog and ledger disagree.
func (s *Service) ProductNameByID(ctx context.Context, id int) string {
	for _, p := range s.Products(ctx) {
		if p.ID == id {
			return p.Name
		}
	}
	return "ID: " + strconv.Itoa(id)
}

// IssueStock appends one signed movement to the stock ledger. Negative
// quantities record consumption (the stock half of a sale).
func (s *Service) IssueStock(ctx context.Context, sellerID, productID, quantity int, price float64) bool {
	total := price * float64(quantity)
	ok := s.store.Append(ctx, sheet.TableStock, []string{
		"",
		strconv.Itoa(sellerID),
		strconv.Itoa(productID),
		strconv.Itoa(quantity),
		formatFloat(price),
		formatFloat(total),
		now(),
	})
	if ok {
		s.logger.Info("stock issued",
			zap.Int("seller_id", sellerID),
			zap.Int("product_id", productID),
			zap.Int("quantity", quantity))
	}
	return ok
}

// StockEntries returns the full stock ledger in sheet row order.
func (s *Service) StockEntries(ctx context.Context) []StockEntry {
	rows := s.store.Rows(ctx, sheet.TableStock)
	entries := make([]StockEntry, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		e := StockEntry{
			SellerID:  parseInt(row[1]),
			ProductID: parseInt(row[2]),
			Quantity:  parseInt(row[3]),
			Price:     parseFloat(row[4]),
		}
		if len(row) > 5 {
			e.Total = parseFloat(row[5])
		}
		if len(row) > 6 {
			e.Timestamp = row[6]
		}
		entries = append(entries, e)
	}
	return entries
}

// SellerStock aggregates the stock ledger for one seller: quantities are
// summed per product in sheet row order and products whose sum is not
// positive are dropped. The reported price is the one on the last ledger
// row seen for the product. Legacy behavior, kept as is; not a
// "current price" feature.
func (s *Service) SellerStock(ctx context.Context, sellerID int) map[int]StockLine {
	stock := make(map[int]StockLine)
	for _, e := range s.StockEntries(ctx) {
		if e.SellerID != sellerID {
			continue
		}
		line := stock[e.ProductID]
		line.Quantity += e.Quantity
		line.Price = e.Price
		stock[e.ProductID] = line
	}
	for id, line := range stock {
		if line.Quantity <= 0 {
			delete(stock, id)
		}
	}
	return stock
}
