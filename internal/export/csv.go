// Package export turns the current filtered and sorted view into portable
// artifacts: comma-separated text and a standalone printable document.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoRecords is returned when there is nothing to export. Callers surface
// it as an error notification and write no partial file.
var ErrNoRecords = errors.New("no records to export")

// Column pairs a header label with a field extractor. Each resource has a
// fixed, ordered column set so exports are deterministic.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// EncodeCSV serializes the already filtered and sorted collection. Every
// field is wrapped in double quotes with internal quotes doubled, rows are
// joined by newline, header row first.
func EncodeCSV[T any](records []T, columns []Column[T]) (string, error) {
	if len(records) == 0 {
		return "", ErrNoRecords
	}

	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(&b, col.Header)
	}
	for _, record := range records {
		b.WriteByte('\n')
		for i, col := range columns {
			if i > 0 {
				b.WriteByte(',')
			}
			writeField(&b, col.Value(record))
		}
	}
	return b.String(), nil
}

func writeField(b *strings.Builder, value string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(value, `"`, `""`))
	b.WriteByte('"')
}

// CSVFileName returns the export file name convention,
// {resource}-{YYYY-MM-DD}.csv.
func CSVFileName(resource string, now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", resource, now.Format("2006-01-02"))
}
