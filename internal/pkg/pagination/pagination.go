package pagination

import (
	"strconv"

	"github.com/folio-space/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// The chat log is the only paginated surface; pages stay small.
const (
	defaultSize = 10
	maxSize     = 50
)

// Query holds normalized page/size parameters.
type Query struct {
	Page int
	Size int
}

// FromContext reads page and size from the query string. Missing or
// out-of-range values fall back to defaults instead of erroring.
func FromContext(c *gin.Context) Query {
	page := atoiOr(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	size := atoiOr(c.Query("size"), defaultSize)
	if size < 1 {
		size = defaultSize
	}
	if size > maxSize {
		size = maxSize
	}
	return Query{Page: page, Size: size}
}

// Paginate runs the count and the windowed find for one page, then assembles
// the response metadata.
func Paginate[T any](tx *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}
	if err := tx.Limit(q.Size).Offset((q.Page - 1) * q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	pages := int(total) / q.Size
	if int(total)%q.Size != 0 {
		pages++
	}
	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   pages,
		Size:        q.Size,
		HasNextPage: q.Page < pages,
	}, nil
}

func atoiOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
