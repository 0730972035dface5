package database

import "database/sql"

// Int64Ptr converts a sql.NullInt64 to a pointer (nil if not valid)
func Int64Ptr(n sql.NullInt64) *int64 {
	if n.Valid {
		v := n.Int64
		return &v
	}
	return nil
}
