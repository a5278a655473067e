package api

import (
	"math"     // Page bound
	"net/http" // HTTP status codes
	"net/url"  // Link building
	"strconv"  // Query parsing

	"foodgram/internal/store" // Page window

	"github.com/gin-gonic/gin" // Gin web framework
)

// PageResponse is the envelope of every paginated listing
type PageResponse struct {
	Count    int64   `json:"count"`    // Total matching rows
	Next     *string `json:"next"`     // Absolute URL of the next page, null on the last
	Previous *string `json:"previous"` // Absolute URL of the previous page, null on the first
	Results  any     `json:"results"`  // The page itself
}

type pagination struct {
	page  int
	limit int
}

// parsePagination reads ?page= (1-based) and ?limit=, answering 404 for a
// malformed page number
func parsePagination(c *gin.Context, deps *Deps) (pagination, bool) {
	p := pagination{page: 1, limit: deps.PageSize}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.limit = min(v, deps.MaxPageSize) // Cap the override
		}
	}
	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		// page*limit must fit an int for the offset and next-link math
		if err != nil || v < 1 || v > math.MaxInt/p.limit {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page"})
			return p, false
		}
		p.page = v
	}
	return p, true
}

func (p pagination) window() store.Page {
	return store.Page{Offset: (p.page - 1) * p.limit, Limit: p.limit}
}

// outOfRange reports a page past the end; the first page is always valid
func (p pagination) outOfRange(total int64) bool {
	return p.page > 1 && int64((p.page-1)*p.limit) >= total
}

func pageURL(c *gin.Context, page int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := url.URL{Scheme: scheme, Host: c.Request.Host, Path: c.Request.URL.Path, RawQuery: q.Encode()}
	s := u.String()
	return &s
}

// respondPage writes the envelope, answering 404 for a page past the end
func respondPage(c *gin.Context, p pagination, total int64, results any) {
	if p.outOfRange(total) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid page"})
		return
	}
	resp := PageResponse{Count: total, Results: results}
	if int64(p.page*p.limit) < total {
		resp.Next = pageURL(c, p.page+1)
	}
	if p.page > 1 {
		resp.Previous = pageURL(c, p.page-1)
	}
	c.JSON(http.StatusOK, resp)
}
