package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client wraps a service-account authorized Sheets API client.
type Client struct {
	svc *sheets.Service
}

func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Open returns a handle on one worksheet. An empty sheetName selects the
// spreadsheet's first worksheet.
func (c *Client) Open(spreadsheetID, sheetName string) Sheet {
	return &googleSheet{
		svc:           c.svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

type googleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
}

// readRange covers every populated cell in the data columns.
const readRange = "A:Z"

func (s *googleSheet) Rows(ctx context.Context) ([][]string, error) {
	rangeRef := readRange
	if s.sheetName != "" {
		rangeRef = fmt.Sprintf("%s!%s", s.sheetName, readRange)
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeRef).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read sheet values: %w", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (s *googleSheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	cellRef := fmt.Sprintf("%s%d", columnLetter(col), row)
	if s.sheetName != "" {
		cellRef = fmt.Sprintf("%s!%s", s.sheetName, cellRef)
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cellRef, &sheets.ValueRange{
		Values: [][]any{{value}},
	}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update cell %s: %w", cellRef, err)
	}
	return nil
}

// columnLetter converts a 1-based column index to its A1 letter form.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
