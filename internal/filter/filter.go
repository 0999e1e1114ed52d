// Package filter provides pure filter, sort, and pagination functions
// for catalog records. All functions are simple: []Record in, []Record
// out. No side effects.
package filter

import (
	"sort"
	"strings"

	"github.com/abelbrown/dexview/internal/catalog"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortByID       SortKey = "id"
	SortByName     SortKey = "name"
	SortByCategory SortKey = "category"
)

// CategoryAll is the sentinel meaning no category filter.
const CategoryAll = "all"

// BySearch keeps records whose name, display name (case-insensitive),
// or padded dex number contains the query as a substring. An empty
// query keeps everything.
func BySearch(records []catalog.Record, query string) []catalog.Record {
	if query == "" {
		return records
	}

	q := strings.ToLower(query)
	result := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(r.Name, q) ||
			strings.Contains(strings.ToLower(r.DisplayName), q) ||
			strings.Contains(r.PaddedNumber, q) {
			result = append(result, r)
		}
	}
	return result
}

// ByCategory keeps records whose category list contains cat exactly
// (case-sensitive). CategoryAll keeps everything.
func ByCategory(records []catalog.Record, cat string) []catalog.Record {
	if cat == CategoryAll || cat == "" {
		return records
	}

	result := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if r.HasCategory(cat) {
			result = append(result, r)
		}
	}
	return result
}

// ByFavorites keeps records whose id satisfies isFavorite.
func ByFavorites(records []catalog.Record, isFavorite func(id int) bool) []catalog.Record {
	result := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if isFavorite(r.ID) {
			result = append(result, r)
		}
	}
	return result
}

// Sort returns a sorted copy of records; the input is left untouched.
//
// SortByID orders by ascending id (unique, no tie-break needed).
// SortByName orders by display name, case-insensitive, id on ties.
// SortByCategory orders by primary category with ascending id breaking
// ties, so equal-category runs have a deterministic order.
func Sort(records []catalog.Record, key SortKey) []catalog.Record {
	result := make([]catalog.Record, len(records))
	copy(result, records)

	switch key {
	case SortByName:
		sort.Slice(result, func(i, j int) bool {
			a := strings.ToLower(result[i].DisplayName)
			b := strings.ToLower(result[j].DisplayName)
			if a != b {
				return a < b
			}
			return result[i].ID < result[j].ID
		})
	case SortByCategory:
		sort.Slice(result, func(i, j int) bool {
			a, b := result[i].PrimaryCategory(), result[j].PrimaryCategory()
			if a != b {
				return a < b
			}
			return result[i].ID < result[j].ID
		})
	default:
		sort.Slice(result, func(i, j int) bool {
			return result[i].ID < result[j].ID
		})
	}
	return result
}

// PageWindow returns the visible prefix for a 1-based page: the first
// page*pageSize records, clamped to the slice length. Pagination grows
// the prefix rather than sliding a window.
func PageWindow(records []catalog.Record, page, pageSize int) []catalog.Record {
	if page < 1 || pageSize < 1 {
		return []catalog.Record{}
	}
	end := page * pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[:end]
}

// MaxPage returns the last page number for the given set, at least 1.
func MaxPage(count, pageSize int) int {
	if pageSize < 1 || count <= 0 {
		return 1
	}
	return (count + pageSize - 1) / pageSize
}
