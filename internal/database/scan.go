package database

import "github.com/dbcove/dbcove/internal/errs"

// ScanRows reads all rows from the result set and returns them as a slice
// of maps, where each key is the column name and each value is the Go-native
// representation of the DB value, plus the ordered column names and their
// declared type names.
//
// The returned slice is always non-nil (empty slice on zero rows); the
// column list is empty for an empty result only when the driver reports no
// descriptor. ScanRows always closes the Rows — callers do not call Close().
func ScanRows(rows Rows) ([]map[string]any, []string, []string, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column names", err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		types = make([]string, len(columns))
	}

	result := make([]map[string]any, 0)

	for rows.Next() {
		// Allocate scan targets as *any so the driver can write any type.
		dest := make([]any, len(columns))
		destPtrs := make([]any, len(columns))
		for i := range dest {
			destPtrs[i] = &dest[i]
		}

		if err := rows.Scan(destPtrs...); err != nil {
			return nil, nil, nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan row", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(dest[i])
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, errs.Wrap(errs.ErrKindQueryFailed, "error during row iteration", err)
	}

	return result, columns, types, nil
}

// normalizeValue converts driver-native byte slices into strings so that
// results serialize identically regardless of which driver produced them.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
