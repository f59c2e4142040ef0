package harness

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/roach88/focusnav/internal/store"
)

// identifier is the only shape of table or column name interpolated into
// final_state queries. Values always go through placeholders.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	errNoRow        = errors.New("row not found")
	errAmbiguousRow = errors.New("multiple rows matched (assertion is ambiguous)")
)

// rowFilter is the WHERE part of a final_state query, columns sorted.
type rowFilter struct {
	columns []string
	values  []any
}

func newRowFilter(where map[string]interface{}) (rowFilter, error) {
	var f rowFilter
	for _, col := range slices.Sorted(maps.Keys(where)) {
		if !identifier.MatchString(col) {
			return rowFilter{}, fmt.Errorf("invalid column name %q in where clause: must match pattern %s", col, identifier)
		}
		f.columns = append(f.columns, col)
		f.values = append(f.values, sqlArg(where[col]))
	}
	return f, nil
}

// sql renders the filter as a parameterized condition, empty for no columns.
func (f rowFilter) sql() string {
	conds := make([]string, len(f.columns))
	for i, col := range f.columns {
		conds[i] = col + " = ?"
	}
	return strings.Join(conds, " AND ")
}

func (f rowFilter) String() string {
	if len(f.columns) == 0 {
		return "(no conditions)"
	}
	parts := make([]string, len(f.columns))
	for i, col := range f.columns {
		parts[i] = fmt.Sprintf("%s=%v", col, f.values[i])
	}
	return strings.Join(parts, " AND ")
}

func sqlArg(v interface{}) any {
	switch v.(type) {
	case string, int, int64, bool:
		return v
	}
	return fmt.Sprint(v)
}

// selectOne reads the single row of table matching f.
func selectOne(ctx context.Context, st *store.Store, table string, f rowFilter) (map[string]any, []string, error) {
	query := "SELECT * FROM " + table
	if cond := f.sql(); cond != "" {
		query += " WHERE " + cond
	}
	rows, err := st.Query(ctx, query, f.values...)
	if err != nil {
		return nil, nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("get columns: %w", err)
	}
	if !rows.Next() {
		return nil, columns, errNoRow
	}
	row, err := scanMap(rows, columns)
	if err != nil {
		return nil, columns, err
	}
	if rows.Next() {
		return nil, columns, errAmbiguousRow
	}
	return row, columns, rows.Err()
}

func scanMap(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	row := make(map[string]any, len(columns))
	for i, col := range columns {
		row[col] = values[i]
	}
	return row, nil
}

// assertFinalState checks that exactly one row of a store table matches the
// assertion's where clause and that it holds the expected values. Columns
// not named in expect are ignored.
func assertFinalState(ctx context.Context, st *store.Store, assertion Assertion) error {
	if assertion.Table == "" {
		return fmt.Errorf("final_state assertion requires table name")
	}
	if !identifier.MatchString(assertion.Table) {
		return fmt.Errorf("invalid table name %q: must match pattern %s", assertion.Table, identifier)
	}
	filter, err := newRowFilter(assertion.Where)
	if err != nil {
		return err
	}

	row, columns, err := selectOne(ctx, st, assertion.Table, filter)
	switch {
	case errors.Is(err, errNoRow):
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("row in %s where %s", assertion.Table, filter),
			Actual:   err.Error(),
		}
	case errors.Is(err, errAmbiguousRow):
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("exactly one row in %s where %s", assertion.Table, filter),
			Actual:   err.Error(),
		}
	case err != nil:
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("query table %s", assertion.Table),
			Actual:   err.Error(),
		}
	}

	for _, col := range slices.Sorted(maps.Keys(assertion.Expect)) {
		want := assertion.Expect[col]
		got, ok := row[col]
		if !ok {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q to exist", col),
				Actual:   fmt.Sprintf("field %q not present in result columns: %v", col, columns),
			}
		}
		if !stateValuesEqual(want, got) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q = %v (type %T)", col, want, want),
				Actual:   fmt.Sprintf("field %q = %v (type %T)", col, got, got),
			}
		}
	}
	return nil
}

// stateValuesEqual compares a YAML value with a value scanned from sqlite,
// which hands back integers as int64, text as string or []byte, and
// booleans as 0/1 or bool depending on the declared column type.
func stateValuesEqual(expected, actual interface{}) bool {
	return reflect.DeepEqual(storedForm(expected), storedForm(actual))
}

func storedForm(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case []byte:
		return string(x)
	}
	return v
}
