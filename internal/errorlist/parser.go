package errorlist

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrTableNotFound is returned when the page does not contain the error list
// table, typically after a firmware update changed the page layout.
var ErrTableNotFound = errors.New("error list table not found in page response")

// recordCells is the number of value cells a data row must carry. Rows with
// any other count are decoration (headers, separators) and are skipped.
const recordCells = 5

// Parse extracts the error list from the raw HTML of the ISG page. The list
// lives in the unique table carrying the "info" class; each data row has five
// value cells in the order number, error code, heat pump, date, time. Output
// preserves document order. Cell text is trimmed but otherwise untouched.
func Parse(page []byte) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	table := doc.Find("table.info").First()
	if table.Length() == 0 {
		return nil, ErrTableNotFound
	}

	var records []Record
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td.value")
		if cells.Length() != recordCells {
			return
		}
		records = append(records, Record{
			Number:   cellText(cells, 0),
			Code:     cellText(cells, 1),
			HeatPump: cellText(cells, 2),
			Date:     cellText(cells, 3),
			Time:     cellText(cells, 4),
		})
	})
	return records, nil
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}
