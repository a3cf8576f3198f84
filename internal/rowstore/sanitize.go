package rowstore

import (
	"strconv"
	"strings"
	"time"

	"github.com/matthurstrsa-droid/fastelavn/internal/engine"
	"github.com/matthurstrsa-droid/fastelavn/pkg/db/models"
	"github.com/matthurstrsa-droid/fastelavn/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// sanitizeRow serializes every field of an activity row into the text
// cells the sheet table stores. Numeric fields are formatted
// explicitly so the write path can never hand the store a value of an
// unexpected kind; the sheet-client bug class this kills is a numeric
// type leaking through and being rejected at the serialization layer.
func sanitizeRow(row engine.ActivityRow) models.SheetRow {
	return models.SheetRow{
		BakeryName:  strings.TrimSpace(row.BakeryName),
		Flavor:      strings.TrimSpace(row.Flavor),
		PhotoURL:    strings.TrimSpace(row.PhotoURL),
		Address:     strings.TrimSpace(row.Address),
		Lat:         formatFloat(row.Lat),
		Lon:         formatFloat(row.Lon),
		Date:        formatDate(row.Date),
		LastUpdated: formatTime(row.LastUpdated),
		Category:    row.Category.String(),
		UserName:    strings.TrimSpace(row.User),
		Rating:      formatFloat(row.Rating),
		Price:       row.Price.String(),
		Stock:       strconv.Itoa(row.Stock),
		BakeryKey:   row.BakeryKey,
		Comment:     strings.TrimSpace(row.Comment),
	}
}

// normalizeRow parses one sheet record into the typed view. Numeric
// cells that fail coercion become zero instead of failing the whole
// fetch; a single malformed row must never take down the view.
func normalizeRow(record models.SheetRow) engine.ActivityRow {
	return engine.ActivityRow{
		Seq:         record.Seq,
		BakeryName:  strings.TrimSpace(record.BakeryName),
		Flavor:      record.Flavor,
		PhotoURL:    record.PhotoURL,
		Address:     record.Address,
		Lat:         parseFloat(record.Lat),
		Lon:         parseFloat(record.Lon),
		Date:        parseDate(record.Date),
		LastUpdated: parseTime(record.LastUpdated),
		Category:    enums.CategoryOrUser(record.Category),
		User:        record.UserName,
		Rating:      parseFloat(record.Rating),
		Price:       parsePrice(record.Price),
		Stock:       parseInt(record.Stock),
		BakeryKey:   record.BakeryKey,
		Comment:     record.Comment,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func parseFloat(cell string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(cell string) int {
	v, err := strconv.Atoi(strings.TrimSpace(cell))
	if err != nil {
		// Merchants occasionally type stock as a decimal.
		return int(parseFloat(cell))
	}
	return v
}

func parsePrice(cell string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(cell))
	if err != nil {
		return decimal.Zero
	}
	return v
}

func parseDate(cell string) time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(cell))
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseTime(cell string) time.Time {
	t, err := time.Parse(timeLayout, strings.TrimSpace(cell))
	if err != nil {
		return time.Time{}
	}
	return t
}
