package catalog

import (
	"strconv"
	"time"
)

// TimeLayout is how timestamps are written into the spreadsheet.
const TimeLayout = "2006-01-02 15:04:05"

// Seller is a registered seller. The password doubles as the login
// credential for the seller-facing bot session.
type Seller struct {
	ID        int
	Name      string
	Region    string
	Phone     string
	Password  string
	CreatedAt string
	// Row is the 0-based data-row index the seller was read from,
	// needed for in-place password updates.
	Row int
}

// Product is a catalog entry. Name is the operator-facing lookup key
// (case-insensitive); ID is the join key in the Stock and Sales ledgers.
type Product struct {
	ID    int
	Name  string
	Price float64
}

// StockEntry is one signed movement in the append-only stock ledger.
// A seller's current stock of a product is the sum of its quantities.
type StockEntry struct {
	SellerID  int
	ProductID int
	Quantity  int
	Price     float64
	Total     float64
	Timestamp string
}

// StockLine is the aggregated position for one product: the summed
// quantity and the unit price of the last ledger row seen for it.
type StockLine struct {
	Quantity int
	Price    float64
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func now() string {
	return time.Now().Format(TimeLayout)
}
