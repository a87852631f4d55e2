// Package sheets mirrors the finance ledger into a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/birdo/internal/config"
)

var errNoRange = errors.New("sheet range must not be empty")

// Ledger appends and reads ledger rows of one spreadsheet.
type Ledger struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	logger        *zap.Logger
}

// NewLedger authenticates with the service account file of cfg. Extra client
// options are appended after the credentials.
func NewLedger(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.CredentialsPath != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(cfg.CredentialsPath)}, opts...)
	}
	opts = append(opts, option.WithScopes(sheetsapi.SpreadsheetsScope))

	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init sheets client: %w", err)
	}

	return &Ledger{
		values:        sheetsapi.NewSpreadsheetsValuesService(svc),
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendRows writes rows after the last filled row of sheetRange. Cells are
// stored raw so ids and dates are not reinterpreted by the spreadsheet.
func (l *Ledger) AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error {
	if sheetRange == "" {
		return errNoRange
	}
	if len(rows) == 0 {
		return nil
	}

	resp, err := l.values.Append(l.spreadsheetID, sheetRange, &sheetsapi.ValueRange{
		MajorDimension: "ROWS",
		Values:         rows,
	}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d ledger rows to %s: %w", len(rows), sheetRange, err)
	}

	updated := int64(len(rows))
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRows
	}
	l.logger.Debug("ledger rows appended", zap.String("range", sheetRange), zap.Int64("rows", updated))
	return nil
}

// ReadRange returns the unformatted cells of sheetRange, row by row.
func (l *Ledger) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, errNoRange
	}

	resp, err := l.values.Get(l.spreadsheetID, sheetRange).
		MajorDimension("ROWS").
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read ledger range %s: %w", sheetRange, err)
	}
	return resp.Values, nil
}
