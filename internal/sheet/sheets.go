package sheet

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// GoogleStore is the Store implementation backed by the Google Sheets API.
// One spreadsheet, one worksheet per table.
type GoogleStore struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.Logger

	mu    sync.Mutex
	known map[Table]bool // worksheets already confirmed to exist
}

// NewGoogleStore builds a Sheets client from injected service-account JSON.
// It fails only on credential/client construction; per-call errors are
// swallowed by the fail-soft Store contract.
func NewGoogleStore(ctx context.Context, spreadsheetID string, credentialsJSON []byte, logger *zap.Logger) (*GoogleStore, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &GoogleStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		logger:        logger,
		known:         make(map[Table]bool),
	}, nil
}

func (g *GoogleStore) Rows(ctx context.Context, table Table) [][]string {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, string(table)).Context(ctx).Do()
	if err != nil {
		g.logger.Error("sheets read failed", zap.String("table", string(table)), zap.Error(err))
		return nil
	}
	if len(resp.Values) <= 1 {
		return nil
	}
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func (g *GoogleStore) Append(ctx context.Context, table Table, row []string) bool {
	if !g.ensureWorksheet(ctx, table) {
		return false
	}
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	_, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, string(table), &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		g.logger.Error("sheets append failed", zap.String("table", string(table)), zap.Error(err))
		return false
	}
	return true
}

func (g *GoogleStore) UpdateCell(ctx context.Context, table Table, row, col int, value string) bool {
	// +2: past the header row, and A1 notation is 1-based.
	cell := fmt.Sprintf("%s!%s%d", table, columnName(col), row+2)
	_, err := g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, cell, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		g.logger.Error("sheets update failed", zap.String("range", cell), zap.Error(err))
		return false
	}
	return true
}

// ensureWorksheet lazily creates the worksheet with its header row. Creation
// is idempotent; confirmed worksheets are cached for the process lifetime.
func (g *GoogleStore) ensureWorksheet(ctx context.Context, table Table) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.known[table] {
		return true
	}

	meta, err := g.svc.Spreadsheets.Get(g.spreadsheetID).Context(ctx).Do()
	if err != nil {
		g.logger.Error("sheets metadata read failed", zap.Error(err))
		return false
	}
	for _, ws := range meta.Sheets {
		if ws.Properties != nil && ws.Properties.Title == string(table) {
			g.known[table] = true
			return true
		}
	}

	_, err = g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: string(table)},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		g.logger.Error("sheets worksheet create failed", zap.String("table", string(table)), zap.Error(err))
		return false
	}

	header := make([]interface{}, 0, len(Header(table)))
	for _, h := range Header(table) {
		header = append(header, h)
	}
	_, err = g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, string(table), &sheets.ValueRange{Values: [][]interface{}{header}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		g.logger.Error("sheets header write failed", zap.String("table", string(table)), zap.Error(err))
		return false
	}

	g.logger.Info("worksheet created", zap.String("table", string(table)))
	g.known[table] = true
	return true
}

// columnName converts a 0-based column index to its A1 letter form.
func columnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}
