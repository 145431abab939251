package v1

import (
	"fmt"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// codeFilters applies the filters shared by all code listings.
func codeFilters(db, query *gorm.DB, setFields []string, f CodeQueryFilter) *gorm.DB {
	if f.Code != "" {
		query = query.Where("code = ?", f.Code)
	}

	if f.Parent != "" {
		query = query.Where("parent = ?", f.Parent)
	} else if slices.Contains(setFields, "Parent") {
		query = query.Where("parent IS NULL")
	}

	if f.Alias != "" {
		query = query.Where("alias LIKE ?", fmt.Sprintf("%%%s%%", f.Alias))
	} else if slices.Contains(setFields, "Alias") {
		query = query.Where("alias IS NULL")
	}

	if f.Search != "" {
		query = query.Where(
			db.Where("code LIKE ?", fmt.Sprintf("%%%s%%", f.Search)).Or(
				db.Where("alias LIKE ?", fmt.Sprintf("%%%s%%", f.Search)),
			),
		)
	}

	return query
}

// limit returns the limit for a list query. Defaults to 50.
func limit(setFields []string, l int) int {
	if slices.Contains(setFields, "Limit") {
		return l
	}
	return 50
}
