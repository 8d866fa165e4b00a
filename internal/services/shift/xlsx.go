package shift

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/evn/eom_hradmin/internal/models"
)

const exportSheet = "Shifts"

var exportHeader = []interface{}{"ID", "Name", "Start", "End", "Duration", "Description", "Active"}

// WriteXLSX пишет смены в книгу Excel.
func WriteXLSX(w io.Writer, shifts []models.Shift) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, s := range shifts {
		active := "no"
		if s.IsActive {
			active = "yes"
		}
		row := []interface{}{
			s.ID,
			s.Name,
			s.StartTime,
			s.EndTime,
			DurationMinutes(s.StartTime, s.EndTime),
			s.Description,
			active,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(exportSheet, "B", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(exportSheet, "F", "F", 40); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

// ReadXLSX читает строки первого листа (или листа Shifts, если он есть).
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, exportSheet) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// ParseRows превращает строки таблицы в смены. Первая строка считается заголовком.
// Колонки: name, start_time, end_time, description; если заголовок совпадает
// с экспортом, колонки берутся по именам.
func ParseRows(rows [][]string) ([]*models.Shift, error) {
	if len(rows) < 2 {
		return nil, errors.New("file must contain a header and at least one row")
	}

	cols := columnIndex(rows[0])
	var shifts []*models.Shift
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		req := models.ShiftRequest{
			Name:        cellAt(row, cols.name),
			StartTime:   cellAt(row, cols.start),
			EndTime:     cellAt(row, cols.end),
			Description: cellAt(row, cols.description),
		}
		s, err := Normalize(req)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		shifts = append(shifts, s)
	}

	if len(shifts) == 0 {
		return nil, errors.New("no shifts found")
	}
	return shifts, nil
}

type columns struct {
	name, start, end, description int
}

func columnIndex(header []string) columns {
	c := columns{name: 0, start: 1, end: 2, description: 3}
	found := columns{name: -1, start: -1, end: -1, description: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			found.name = i
		case "start", "start_time":
			found.start = i
		case "end", "end_time":
			found.end = i
		case "description":
			found.description = i
		}
	}
	if found.name >= 0 && found.start >= 0 && found.end >= 0 {
		c = found
	}
	return c
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
