package formatter

import (
	"bufio"
	"callcenter-sim/errors"
	"callcenter-sim/models"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Row is a record that knows its csv layout.
type Row interface {
	CSVHeader() []string
	CSVRecord() []string
}

// Encode writes rows to w in the named format: parquet, csv or json (one object per line).
func Encode[T Row](w io.Writer, format string, rows []T) error {
	switch format {
	case "parquet":
		return EncodeParquet(w, rows)
	case "csv":
		return EncodeCSV(w, rows)
	case "json":
		return EncodeJSON(w, rows)
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownFormat, format)
	}
}

// EncodeCSV writes a header line followed by one line per row.
// The header is written even when rows is empty.
func EncodeCSV[T Row](w io.Writer, rows []T) error {
	writer := csv.NewWriter(w)

	var zero T
	if err := writer.Write(zero.CSVHeader()); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.CSVRecord()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// EncodeJSON writes one JSON object per line.
func EncodeJSON[T any](w io.Writer, rows []T) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeParquet writes rows as a single parquet file using the struct's parquet tags.
func EncodeParquet[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		return err
	}
	return writer.Close()
}

// FormatText returns the text representation of a run summary
func FormatText(summary models.RunSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("run %s : %s..%s (%d days)\n", summary.RunID, summary.Start, summary.End, summary.Days))
	sb.WriteString(fmt.Sprintf("  roster    : agents=%d, managers=%d, customers=%d, assignment_segments=%d\n",
		summary.Agents, summary.Managers, summary.Customers, summary.AssignmentSegments))
	sb.WriteString(fmt.Sprintf("  events    : calls=%d, crm=%d, surveys=%d\n",
		summary.Calls, summary.CRM, summary.Surveys))
	sb.WriteString(fmt.Sprintf("  callbacks : scheduled=%d, completed=%d, dropped=%d\n",
		summary.CallbacksScheduled, summary.CallbacksCompleted, summary.CallbacksDropped))

	if summary.CallbacksDropped > 0 {
		sb.WriteString(fmt.Sprintf("  ⚠️  %d callbacks were cut off by the end of the workday\n", summary.CallbacksDropped))
	}
	sb.WriteString(fmt.Sprintf("COMPLETE: simulation took %s\n", summary.Elapsed))

	return sb.String()
}
