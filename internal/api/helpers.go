package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/movelens/internal/errors"
	"github.com/vytor/movelens/internal/models"
)

// intParam reads a non-negative integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.NewValidationError(name, "must be a non-negative integer")
	}
	return v, nil
}

// parseResultFilter reads the filter shared by the listing and aggregate
// endpoints. Pagination uses page and per_page.
func parseResultFilter(r *http.Request) (models.ResultFilter, error) {
	q := r.URL.Query()
	filter := models.ResultFilter{
		Player:   strings.TrimSpace(q.Get("player")),
		Result:   q.Get("result"),
		ECO:      strings.ToUpper(q.Get("eco")),
		RunID:    q.Get("run_id"),
		OrderBy:  q.Get("order_by"),
		OrderDir: strings.ToUpper(q.Get("order_dir")),
	}

	page, err := intParam(r, "page", 1)
	if err != nil {
		return filter, err
	}
	if page == 0 {
		page = 1
	}

	perPage := 25
	switch q.Get("per_page") {
	case "10":
		perPage = 10
	case "50":
		perPage = 50
	case "100":
		perPage = 100
	}

	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage
	return filter, nil
}
