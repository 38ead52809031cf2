package persistence

import (
	"strings"

	"github.com/fieldops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortableColumns are the only columns accepted in OrderBy, guarding
// against SQL injection through sort parameters.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
	"number":     true,
	"title":      true,
	"status":     true,
	"stage":      true,
	"due_date":   true,
	"due_at":     true,
	"issue_date": true,
	"starts_at":  true,
}

// applyFilter applies search, column filters, ordering, and pagination
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	query = applySearch(query, filter, searchColumns...)
	query = applyOrder(query, filter)
	return applyPagination(query, filter)
}

// applySearch applies the search pattern and exact-match column filters
func applySearch(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		clauses := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, col := range searchColumns {
			clauses[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	for key, value := range filter.Filters {
		if sortableColumns[key] || key == "type" || key == "client_id" || key == "project_id" || key == "assignee_id" {
			query = query.Where(key+" = ?", value)
		}
	}

	return query
}

func applyOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !sortableColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "ASC"
	if strings.ToLower(filter.OrderDir) == "desc" {
		dir = "DESC"
	}
	return query.Order(orderBy + " " + dir)
}

func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
