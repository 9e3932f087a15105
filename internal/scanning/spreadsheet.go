package scanning

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/cashmate/internal/extraction"
)

// readXLSX returns one table per non-empty sheet
func readXLSX(data []byte) (*StatementContent, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening XLSX: %v", ErrUnreadableDocument, err)
	}
	defer xl.Close()

	var sheets []extraction.Table
	for _, sheet := range xl.GetSheetList() {
		rows, err := xl.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrUnreadableDocument, sheet, err)
		}
		if table := compactTable(rows); len(table) > 0 {
			sheets = append(sheets, table)
		}
	}
	return spreadsheetContent(sheets), nil
}

// readXLS reads legacy BIFF workbooks, one table per non-empty sheet
func readXLS(data []byte) (content *StatementContent, err error) {
	// the BIFF parser panics on truncated records
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: parsing XLS: %v", ErrUnreadableDocument, r)
		}
	}()

	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: opening XLS: %v", ErrUnreadableDocument, err)
	}

	var sheets []extraction.Table
	for i := 0; i < book.NumSheets(); i++ {
		sheet := book.GetSheet(i)
		if sheet == nil {
			continue
		}

		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		if table := compactTable(rows); len(table) > 0 {
			sheets = append(sheets, table)
		}
	}
	return spreadsheetContent(sheets), nil
}

// readCSV treats the whole file as a single table
func readCSV(data []byte) (*StatementContent, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV: %v", ErrUnreadableDocument, err)
	}

	var sheets []extraction.Table
	if table := compactTable(rows); len(table) > 0 {
		sheets = append(sheets, table)
	}
	return spreadsheetContent(sheets), nil
}

// compactTable trims cells and drops blank rows so the first row left is the header
func compactTable(rows [][]string) extraction.Table {
	var table extraction.Table
	for _, row := range rows {
		cells := make([]string, len(row))
		blank := true
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				blank = false
			}
		}
		if !blank {
			table = append(table, cells)
		}
	}
	return table
}

// spreadsheetContent flattens every row into text, so account details printed
// above the grid still reach the header recognizer, and starts each table at
// its header: the first row with the most filled cells.
func spreadsheetContent(sheets []extraction.Table) *StatementContent {
	content := &StatementContent{}
	var lines []string
	for _, sheet := range sheets {
		for _, row := range sheet {
			lines = append(lines, strings.Join(row, "  "))
		}
		if table := fromHeader(sheet); len(table) >= 2 {
			content.Tables = append(content.Tables, table)
		}
	}
	content.Text = strings.Join(lines, "\n")
	return content
}

func fromHeader(sheet extraction.Table) extraction.Table {
	header, widest := 0, 0
	for i, row := range sheet {
		filled := 0
		for _, cell := range row {
			if cell != "" {
				filled++
			}
		}
		if filled > widest {
			header, widest = i, filled
		}
	}
	return sheet[header:]
}
