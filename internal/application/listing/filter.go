// Package listing derives the views an admin or visitor list shows from
// the canonical collection the API returned. Nothing here mutates its input.
package listing

import "github.com/Faseeh100/orphancare-web/internal/domain/entities/content"

// All is the category filter that keeps everything
const All = "all"

// Filter returns the items whose category matches. "all" or "" returns a
// copy of the whole collection in its original order.
func Filter[T any](items []T, category string, categoryOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if category == "" || category == All || categoryOf(item) == category {
			out = append(out, item)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order, prefixed with "all"
func Categories[T any](items []T, categoryOf func(T) string) []string {
	seen := make(map[string]bool, len(items))
	out := []string{All}
	for _, item := range items {
		c := categoryOf(item)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Status filters used by the status tabs
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ByStatus keeps active items for "active", inactive ones for "inactive"
// and everything otherwise
func ByStatus[T any](items []T, status string, isActive func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		switch status {
		case StatusActive:
			if !isActive(item) {
				continue
			}
		case StatusInactive:
			if isActive(item) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// Counts are the tab badges of a status-filtered list
type Counts struct {
	All      int
	Active   int
	Inactive int
}

func CountStatus[T any](items []T, isActive func(T) bool) Counts {
	c := Counts{All: len(items)}
	for _, item := range items {
		if isActive(item) {
			c.Active++
		}
	}
	c.Inactive = c.All - c.Active
	return c
}

// First returns at most n items from the front, as a new slice
func First[T any](items []T, n int) []T {
	n = max(0, min(n, len(items)))
	out := make([]T, n)
	copy(out, items[:n])
	return out
}

func ProgramActive(p content.Program) bool        { return p.IsActive }
func ServiceActive(s content.Service) bool        { return s.IsActive }
func ImageCategory(i content.GalleryImage) string { return i.Category }
func ServiceCategory(s content.Service) string    { return s.Category }

// TotalSize sums image sizes for the gallery summary
func TotalSize(images []content.GalleryImage) int64 {
	var total int64
	for _, img := range images {
		total += img.Size
	}
	return total
}
