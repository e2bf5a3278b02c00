// Package sheet provides a spreadsheet-style store with named worksheets
// addressed by A1 ranges, backed by SQLite. It stands in for a hosted
// spreadsheet backend while keeping the same clear/write/read surface.
package sheet

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the worksheet surface the profile mirror is written through.
type Store interface {
	ClearRange(ctx context.Context, worksheet, rng string) error
	WriteRange(ctx context.Context, worksheet, startCell string, values [][]string) error
	ReadRange(ctx context.Context, worksheet, rng string) ([][]string, error)
	Close() error
}

// SQLiteStore keeps cells in a single table keyed by worksheet, row and
// column. Use ":memory:" for tests.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS cells (
	sheet TEXT NOT NULL,
	row   INTEGER NOT NULL,
	col   INTEGER NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (sheet, row, col)
);`

// Open opens (and initializes) the cell store at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sheet store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing sheet store: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ClearRange deletes every cell inside rng on the worksheet.
func (s *SQLiteStore) ClearRange(ctx context.Context, worksheet, rng string) error {
	r1, c1, r2, c2, err := parseRange(rng)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM cells WHERE sheet = ? AND row BETWEEN ? AND ? AND col BETWEEN ? AND ?`,
		worksheet, r1, r2, c1, c2)
	if err != nil {
		return fmt.Errorf("clearing %s!%s: %w", worksheet, rng, err)
	}
	return nil
}

// WriteRange writes a rectangular block of values with its top-left corner
// at startCell.
func (s *SQLiteStore) WriteRange(ctx context.Context, worksheet, startCell string, values [][]string) error {
	row0, col0, err := parseCell(startCell)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("writing %s!%s: %w", worksheet, startCell, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO cells (sheet, row, col, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("writing %s!%s: %w", worksheet, startCell, err)
	}
	defer stmt.Close()

	for i, rowVals := range values {
		for j, v := range rowVals {
			if _, err := stmt.ExecContext(ctx, worksheet, row0+i, col0+j, v); err != nil {
				return fmt.Errorf("writing %s!%s: %w", worksheet, startCell, err)
			}
		}
	}
	return tx.Commit()
}

// ReadRange returns the populated rows inside rng, each row trimmed to its
// last non-empty cell. Rows beyond the last populated one are omitted.
func (s *SQLiteStore) ReadRange(ctx context.Context, worksheet, rng string) ([][]string, error) {
	r1, c1, r2, c2, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT row, col, value FROM cells
		 WHERE sheet = ? AND row BETWEEN ? AND ? AND col BETWEEN ? AND ?
		 ORDER BY row, col`,
		worksheet, r1, r2, c1, c2)
	if err != nil {
		return nil, fmt.Errorf("reading %s!%s: %w", worksheet, rng, err)
	}
	defer rows.Close()

	cells := map[int]map[int]string{}
	maxRow := -1
	for rows.Next() {
		var row, col int
		var value string
		if err := rows.Scan(&row, &col, &value); err != nil {
			return nil, fmt.Errorf("reading %s!%s: %w", worksheet, rng, err)
		}
		if cells[row] == nil {
			cells[row] = map[int]string{}
		}
		cells[row][col] = value
		if row > maxRow {
			maxRow = row
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s!%s: %w", worksheet, rng, err)
	}
	if maxRow < 0 {
		return [][]string{}, nil
	}

	out := [][]string{}
	for row := r1; row <= maxRow; row++ {
		width := -1
		for col := range cells[row] {
			if col > width {
				width = col
			}
		}
		// Gap rows inside the range come back as empty rows.
		n := width - c1 + 1
		if n < 0 {
			n = 0
		}
		rowVals := make([]string, n)
		for col, v := range cells[row] {
			rowVals[col-c1] = v
		}
		out = append(out, rowVals)
	}
	return out, nil
}

// parseCell converts an A1 reference ("B3") into zero-based row/col.
func parseCell(cell string) (row, col int, err error) {
	cell = strings.ToUpper(strings.TrimSpace(cell))
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(cell) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", cell)
	}
	n, err := strconv.Atoi(cell[i:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", cell)
	}
	return n - 1, col - 1, nil
}

// lastRangeRow bounds column-only ranges like "A:D".
const lastRangeRow = 1<<20 - 1

// parseColumn converts a letters-only column reference ("A", "AD") into a
// zero-based column index.
func parseColumn(ref string) (int, error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	if ref == "" {
		return 0, fmt.Errorf("invalid column reference %q", ref)
	}
	col := 0
	for i := 0; i < len(ref); i++ {
		if ref[i] < 'A' || ref[i] > 'Z' {
			return 0, fmt.Errorf("invalid column reference %q", ref)
		}
		col = col*26 + int(ref[i]-'A') + 1
	}
	return col - 1, nil
}

// parseRange converts "A1:Z1000", a column span "A:D", or a single cell
// into zero-based bounds.
func parseRange(rng string) (r1, c1, r2, c2 int, err error) {
	parts := strings.SplitN(rng, ":", 2)
	if len(parts) == 2 {
		if a, errA := parseColumn(parts[0]); errA == nil {
			b, errB := parseColumn(parts[1])
			if errB != nil {
				return 0, 0, 0, 0, fmt.Errorf("invalid range %q", rng)
			}
			if b < a {
				return 0, 0, 0, 0, fmt.Errorf("inverted range %q", rng)
			}
			return 0, a, lastRangeRow, b, nil
		}
	}
	r1, c1, err = parseCell(parts[0])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(parts) == 1 {
		return r1, c1, r1, c1, nil
	}
	r2, c2, err = parseCell(parts[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if r2 < r1 || c2 < c1 {
		return 0, 0, 0, 0, fmt.Errorf("inverted range %q", rng)
	}
	return r1, c1, r2, c2, nil
}
