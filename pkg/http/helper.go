package http

import (
	"net/http"
	"strconv"
	"time"

	"roomly/pkg/config"
	apperrors "roomly/pkg/errors"
)

// ExtractPage parses 1-indexed page_no/page_size query parameters, applying
// the configured default and cap. page_no below 1 is an input error rather
// than being silently clamped.
func ExtractPage(r *http.Request, cfg *config.Config) (int, int, error) {
	query := r.URL.Query()

	pageNo := 1
	if s := query.Get("page_no"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page_no parameter: " + s)
		}
		pageNo = v
	}
	if pageNo < 1 {
		return 0, 0, apperrors.InvalidInput("page_no must be at least 1")
	}

	pageSize := 0
	if s := query.Get("page_size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page_size parameter: " + s)
		}
		pageSize = v
	}
	pageSize = cfg.NormalizePageSize(pageSize)

	return pageNo, pageSize, nil
}

// ExtractTime parses an optional RFC3339 query parameter, returning nil when
// the parameter is absent.
func ExtractTime(r *http.Request, name string) (*time.Time, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " format, must be RFC3339")
	}
	return &parsed, nil
}
