package shared

import (
	"net/http"
	"strconv"
)

// Page is a limit/offset window read from ?limit= and ?offset=.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage falls back to def for a missing or bad limit and clamps it to ceiling.
func ParsePage(r *http.Request, def, ceiling int) Page {
	q := r.URL.Query()
	page := Page{Limit: def}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		page.Limit = min(n, ceiling)
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n > 0 {
		page.Offset = n
	}
	return page
}
