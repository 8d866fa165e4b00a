package shift

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// весь первый лист: колонки ищутся по заголовку и могут стоять где угодно
const sheetRange = "A:Z"

var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// SheetsReader читает строки таблицы по её URL.
type SheetsReader interface {
	ReadRows(ctx context.Context, sheetURL string) ([][]string, error)
}

type GoogleSheetsReader struct {
	credentialsFile string
}

func NewGoogleSheetsReader(credentialsFile string) *GoogleSheetsReader {
	return &GoogleSheetsReader{credentialsFile: credentialsFile}
}

func SpreadsheetID(sheetURL string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(sheetURL)
	if len(matches) < 2 {
		return "", errors.New("invalid Google Sheets URL")
	}
	return matches[1], nil
}

func (g *GoogleSheetsReader) ReadRows(ctx context.Context, sheetURL string) ([][]string, error) {
	spreadsheetID, err := SpreadsheetID(sheetURL)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(g.credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init google sheets client: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", spreadsheetID, err)
	}
	if len(resp.Values) == 0 {
		return nil, errors.New("spreadsheet is empty")
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		strRow := make([]string, 0, len(row))
		for _, cell := range row {
			strRow = append(strRow, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, strRow)
	}
	return rows, nil
}
