package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page-number pagination: ?page= selects the page, ?limit= overrides the
// page size.
const defaultPageSize = 6

// Page is the paginated list envelope.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func paginationParams(c *gin.Context) (page int, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	return page, limit
}

func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	link := fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, u.RequestURI())
	return &link
}

func buildPage(c *gin.Context, count int64, page, limit int, results interface{}) Page {
	p := Page{Count: count, Results: results}
	if int64(page*limit) < count {
		p.Next = pageLink(c, page+1)
	}
	if page > 1 {
		p.Previous = pageLink(c, page-1)
	}
	return p
}
