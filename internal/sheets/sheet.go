// Package sheets reads and updates spreadsheet rows through the Google
// Sheets API.
package sheets

import "context"

// Sheet is one worksheet. Rows and columns are 1-based, matching
// spreadsheet convention.
type Sheet interface {
	Rows(ctx context.Context) ([][]string, error)
	UpdateCell(ctx context.Context, row, col int, value string) error
}
