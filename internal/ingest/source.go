package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
)

// Row is one postcard as read from the spreadsheet
type Row struct {
	Origin      string
	Destination string
	Text        string
	Date        string
	AltDate     string
}

// column aliases, compared case-insensitively after trimming
var (
	originHeaders      = []string{"откуда", "место отправления", "отправлено из", "origin"}
	destinationHeaders = []string{"куда", "место назначения", "адрес получателя", "destination"}
	textHeaders        = []string{"текст", "текст открытки", "текст письма", "text"}
	dateHeaders        = []string{"дата", "дата написания", "date"}
	altDateHeaders     = []string{"дата по штемпелю", "дата штемпеля", "штемпель", "postmark_date", "postmark"}
)

// ErrNoHeader is returned when no row carries the required column names
var ErrNoHeader = errors.New("no header row with text and place columns")

type columns struct {
	origin, destination, text, date, altDate int
}

// ReadWorkbook reads postcard rows from the first sheet of an xlsx workbook.
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return parseRows(raw)
}

func parseRows(raw [][]string) ([]Row, error) {
	headerAt := -1
	var cols columns
	for i, cells := range raw {
		if c, ok := findColumns(cells); ok {
			headerAt, cols = i, c
			break
		}
	}
	if headerAt < 0 {
		return nil, ErrNoHeader
	}

	rows := make([]Row, 0, len(raw)-headerAt-1)
	for _, cells := range raw[headerAt+1:] {
		row := Row{
			Origin:      cell(cells, cols.origin),
			Destination: cell(cells, cols.destination),
			Text:        strings.TrimSpace(cell(cells, cols.text)),
			Date:        cell(cells, cols.date),
			AltDate:     cell(cells, cols.altDate),
		}
		if row == (Row{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func findColumns(cells []string) (columns, bool) {
	cols := columns{origin: -1, destination: -1, text: -1, date: -1, altDate: -1}
	for i, c := range cells {
		name := cases.Fold().String(strings.TrimSpace(c))
		switch {
		case matches(name, originHeaders) && cols.origin < 0:
			cols.origin = i
		case matches(name, destinationHeaders) && cols.destination < 0:
			cols.destination = i
		case matches(name, textHeaders) && cols.text < 0:
			cols.text = i
		case matches(name, altDateHeaders) && cols.altDate < 0:
			cols.altDate = i
		case matches(name, dateHeaders) && cols.date < 0:
			cols.date = i
		}
	}
	ok := cols.text >= 0 && (cols.origin >= 0 || cols.destination >= 0)
	return cols, ok
}

func matches(name string, aliases []string) bool {
	for _, a := range aliases {
		if name == a {
			return true
		}
	}
	return false
}

// cell returns the trimmed value at i; excelize drops trailing empty cells.
func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}
