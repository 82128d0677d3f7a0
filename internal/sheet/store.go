package sheet

import "context"

// Table names one of the four worksheets used as append-only tables.
type Table string

const (
	TableSellers  Table = "Sellers"
	TableProducts Table = "Products"
	TableStock    Table = "Stock"
	TableSales    Table = "Sales"
)

// headers holds the fixed header row written when a worksheet is first created.
var headers = map[Table][]string{
	TableSellers:  {"id", "name", "region", "phone", "password", "created_at"},
	TableProducts: {"id", "name", "price"},
	TableStock:    {"id", "seller_id", "product_id", "quantity", "unit_price", "total", "timestamp"},
	TableSales:    {"id", "seller_id", "product_id", "quantity", "unit_price", "total", "timestamp"},
}

// Header returns the header schema for a table.
func Header(t Table) []string {
	return headers[t]
}

// Store is the row-level contract over the spreadsheet. All values are the
// raw cell strings. The implementations are fail-soft: a transport or auth
// error is logged and surfaces as an empty read or a false write, never as
// an error value. Callers must treat an empty result as ambiguous between
// "no rows" and "store unreachable".
type Store interface {
	// Rows returns all data rows of the table, header excluded.
	Rows(ctx context.Context, table Table) [][]string

	// Append adds one row at the end of the table, creating the worksheet
	// with its header first if it does not exist yet.
	Append(ctx context.Context, table Table, row []string) bool

	// UpdateCell overwrites a single cell. row is the 0-based data-row
	// index (header excluded), col the 0-based column index.
	UpdateCell(ctx context.Context, table Table, row, col int, value string) bool
}
