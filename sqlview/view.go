// Package sqlview loads a harmonised table into an in-memory SQLite database so that
// dashboard filters can be written as SQL WHERE clauses.
//
// A View is read-only after Open. Mask evaluates a clause and returns the selected
// rows as a present.Mask aligned with the source table, so the result feeds straight
// into the chart adapters.
package sqlview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/present"
)

// RowColumn holds the position of each row in the source table
const RowColumn = "_row"

var (
	// ErrUnknownColumn is returned when a column is not part of the view
	ErrUnknownColumn = errors.New("sqlview: unknown column")
	// ErrClosed is returned by every method after Close
	ErrClosed = errors.New("sqlview: view is closed")
)

// View is a SQLite copy of one table
type View struct {
	mu      sync.Mutex
	db      *sql.DB
	name    string
	rows    int
	columns map[string]model.ColumnType
}

// Open copies t into a fresh in-memory database. Column types follow
// model.InferColumnsInfo; booleans are stored as 0 and 1.
func Open(ctx context.Context, t *model.Table) (*View, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	v := &View{
		db:      db,
		name:    t.Name(),
		rows:    t.Len(),
		columns: make(map[string]model.ColumnType, len(t.Header())),
	}
	if v.name == "" {
		v.name = "survey"
	}
	if err := v.load(ctx, t); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return v, nil
}

func (v *View) load(ctx context.Context, t *model.Table) error {
	info := model.InferColumnsInfo(t)
	defs := make([]string, 0, len(info)+1)
	defs = append(defs, quote(RowColumn)+" INTEGER PRIMARY KEY")
	for _, col := range info {
		defs = append(defs, fmt.Sprintf("%s %s", quote(col.Name), col.Type))
		v.columns[col.Name] = col.Type
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quote(v.name), strings.Join(defs, ", "))
	if _, err := v.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", v.name, err)
	}

	tx, err := v.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(info)+1), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quote(v.name), placeholders))
	if err != nil {
		return errors.Join(err, tx.Rollback())
	}
	defer stmt.Close()

	args := make([]any, len(info)+1)
	for r, rec := range t.Records() {
		if err := ctx.Err(); err != nil {
			return errors.Join(err, tx.Rollback())
		}
		args[0] = r
		for i, cell := range rec {
			args[i+1] = sqlValue(cell, info[i].Type)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.Join(fmt.Errorf("failed to insert row %d: %w", r, err), tx.Rollback())
		}
	}
	return tx.Commit()
}

// Name returns the SQL table name of the view
func (v *View) Name() string {
	return v.name
}

// Mask selects the rows matching a WHERE clause. Placeholders in where are bound to
// args. An empty clause selects every row.
func (v *View) Mask(ctx context.Context, where string, args ...any) (present.Mask, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.db == nil {
		return nil, ErrClosed
	}

	mask := make(present.Mask, v.rows)
	if strings.TrimSpace(where) == "" {
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", quote(RowColumn), quote(v.name), where)
	rows, err := v.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to filter %s: %w", v.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		if r >= 0 && r < len(mask) {
			mask[r] = true
		}
	}
	return mask, rows.Err()
}

// Distinct returns the non-null values of a column in ascending order, rendered the
// way model.Value renders them so they can be passed back to present.Where.
func (v *View) Distinct(ctx context.Context, column string) ([]string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.db == nil {
		return nil, ErrClosed
	}
	typ, ok := v.columns[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}

	col := quote(column)
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY %s", col, quote(v.name), col, col)
	rows, err := v.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var cell any
		if err := rows.Scan(&cell); err != nil {
			return nil, err
		}
		values = append(values, render(cell, typ))
	}
	return values, rows.Err()
}

// Close releases the database. It is safe to call more than once.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.db == nil {
		return nil
	}
	err := v.db.Close()
	v.db = nil
	return err
}

func sqlValue(cell model.Value, typ model.ColumnType) any {
	if cell.IsNull() {
		return nil
	}
	switch typ {
	case model.ColumnTypeBoolean:
		if b, _ := cell.Boolean(); b {
			return int64(1)
		}
		return int64(0)
	case model.ColumnTypeInteger:
		f, _ := cell.Float()
		return int64(f)
	case model.ColumnTypeReal:
		f, _ := cell.Float()
		return f
	default:
		return cell.String()
	}
}

func render(cell any, typ model.ColumnType) string {
	switch c := cell.(type) {
	case int64:
		if typ == model.ColumnTypeBoolean {
			return strconv.FormatBool(c != 0)
		}
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case []byte:
		return string(c)
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
