// Package writer lands record batches on disk.
//
// Event tables are partitioned by day:
//
//	{root}/{table}/day={YYYY-MM-DD}/part-{NNNN}-{table}.{format}
//
// Each write into a partition takes the next free part number for its
// format, so repeated writes to the same day add files instead of replacing
// them. Seed tables are flat: {dir}/{table}.csv.
package writer

import (
	"callcenter-sim/formatter"
	"callcenter-sim/metrics"
	"callcenter-sim/models"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// Table names.
const (
	TableCalls            = "calls"
	TableCRM              = "crm"
	TableSurveys          = "surveys"
	TableAgents           = "agents"
	TableManagers         = "managers"
	TableCustomers        = "customers"
	TableAgentAssignments = "agent_assignments"
)

// Partitioned writes day-partitioned event files under a root directory.
type Partitioned struct {
	root    string
	formats []string
}

// NewPartitioned returns a writer that emits every batch once per format.
func NewPartitioned(root string, formats []string) *Partitioned {
	return &Partitioned{root: root, formats: formats}
}

func (p *Partitioned) WriteCalls(day civil.Date, rows []models.CallEvent) error {
	return Write(p, rows, TableCalls, day)
}

func (p *Partitioned) WriteCRM(day civil.Date, rows []models.CRMEvent) error {
	return Write(p, rows, TableCRM, day)
}

func (p *Partitioned) WriteSurveys(day civil.Date, rows []models.SurveyEvent) error {
	return Write(p, rows, TableSurveys, day)
}

// PartitionDir returns the directory holding table's files for day.
func (p *Partitioned) PartitionDir(table string, day civil.Date) string {
	return filepath.Join(p.root, table, "day="+day.String())
}

// Write lands rows as a new part file per format. An empty batch is a no-op:
// it creates neither the partition directory nor a part file.
func Write[T formatter.Row](p *Partitioned, rows []T, table string, day civil.Date) error {
	if len(rows) == 0 {
		return nil
	}

	dir := p.PartitionDir(table, day)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating partition %s: %w", dir, err)
	}

	for _, format := range p.formats {
		part, err := NextPart(dir, table, format)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, PartName(part, table, format))
		if err := writeFile(path, func(f *os.File) error {
			return formatter.Encode(f, format, rows)
		}); err != nil {
			return err
		}
		metrics.FilesWrittenTotal.WithLabelValues(table, format).Inc()
	}
	metrics.RowsWrittenTotal.WithLabelValues(table).Add(float64(len(rows)))
	return nil
}

// PartName formats a part file name, e.g. part-0003-calls.parquet.
func PartName(part int, table, format string) string {
	return fmt.Sprintf("part-%04d-%s.%s", part, table, format)
}

// NextPart scans dir and returns one past the highest part number used by
// table in format, or 0 when there is none. Files that do not follow the
// part naming scheme are ignored.
func NextPart(dir, table, format string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("error scanning partition %s: %w", dir, err)
	}

	suffix := "-" + table + "." + format
	next := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "part-") || !strings.HasSuffix(name, suffix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "part-"), suffix))
		if err != nil || n < 0 {
			continue
		}
		next = max(next, n+1)
	}
	return next, nil
}

// WriteSeed writes rows to {dir}/{table}.csv, replacing any previous file.
func WriteSeed[T formatter.Row](dir, table string, rows []T) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating seed directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, table+".csv")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error replacing seed %s: %w", path, err)
	}
	if err := writeFile(path, func(f *os.File) error {
		return formatter.EncodeCSV(f, rows)
	}); err != nil {
		return err
	}
	metrics.FilesWrittenTotal.WithLabelValues(table, "csv").Inc()
	metrics.RowsWrittenTotal.WithLabelValues(table).Add(float64(len(rows)))
	return nil
}

// writeFile creates path (failing if it already exists) and hands it to encode.
func writeFile(path string, encode func(*os.File) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", path, err)
	}
	return nil
}
