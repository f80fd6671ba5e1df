package catalog

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/smcclab/video-stitcher/internal/config"
	"github.com/smcclab/video-stitcher/internal/logging"
)

// Row is one catalog entry after filtering. Rows are value types and never
// mutated after load.
type Row struct {
	ID      string
	Title   string
	Authors string
	Session string
}

// Session groups catalog rows sharing a session code, preserving CSV order.
type Session struct {
	Code string
	Rows []Row
}

// Load reads the catalog CSV at path, applies the configured row filters, and
// returns the surviving rows in file order. Rows with a blank ID are skipped
// with a warning.
func Load(path string, layout config.Catalog, logger *slog.Logger) ([]Row, error) {
	log := logging.WithComponent(logger, "catalog")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", path)
	}

	columns, err := mapColumns(records[0], layout)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	var rows []Row
	for i, record := range records[1:] {
		field := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		if layout.FormatFilter != "" && field(columns.format) != layout.FormatFilter {
			continue
		}
		if layout.PresenceFilter != "" && field(columns.presence) != layout.PresenceFilter {
			continue
		}

		row := Row{
			ID:      field(columns.id),
			Title:   field(columns.title),
			Authors: field(columns.authors),
			Session: field(columns.session),
		}
		if row.ID == "" {
			log.Warn("skipping row with blank id", logging.Int("line", i+2))
			continue
		}
		rows = append(rows, row)
	}

	log.Info("catalog loaded",
		logging.String(logging.FieldPath, path),
		logging.Int("rows", len(rows)),
	)
	return rows, nil
}

// GroupBySession splits rows into sessions. Sessions are sorted by code so
// every run walks them in the same order; rows keep their CSV order.
func GroupBySession(rows []Row) []Session {
	byCode := make(map[string][]Row)
	for _, row := range rows {
		byCode[row.Session] = append(byCode[row.Session], row)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	sessions := make([]Session, 0, len(codes))
	for _, code := range codes {
		sessions = append(sessions, Session{Code: code, Rows: byCode[code]})
	}
	return sessions
}

type columnIndexes struct {
	id       int
	title    int
	authors  int
	session  int
	format   int
	presence int
}

func mapColumns(header []string, layout config.Catalog) (columnIndexes, error) {
	find := func(name string) int {
		for i, column := range header {
			if strings.TrimSpace(column) == name {
				return i
			}
		}
		return -1
	}

	columns := columnIndexes{
		id:       find(layout.IDColumn),
		title:    find(layout.TitleColumn),
		authors:  find(layout.AuthorsColumn),
		session:  find(layout.SessionColumn),
		format:   find(layout.FormatColumn),
		presence: find(layout.PresenceColumn),
	}

	required := map[string]int{
		layout.IDColumn:      columns.id,
		layout.TitleColumn:   columns.title,
		layout.SessionColumn: columns.session,
	}
	if layout.FormatFilter != "" {
		required[layout.FormatColumn] = columns.format
	}
	if layout.PresenceFilter != "" {
		required[layout.PresenceColumn] = columns.presence
	}
	var missing []string
	for name, idx := range required {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return columnIndexes{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}
