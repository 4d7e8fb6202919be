// Package daterange turns YYYY-MM-DD query parameters into inclusive local-day windows.
package daterange

import (
	"fmt"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
)

// Layout is the accepted day format.
const Layout = "2006-01-02"

// Parse builds a half-open range covering whole local days from..to inclusive.
// Empty strings leave the corresponding bound open.
func Parse(from, to string, loc *time.Location) (domain.DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	var r domain.DateRange

	if from != "" {
		start, err := time.ParseInLocation(Layout, from, loc)
		if err != nil {
			return r, fmt.Errorf("%w: invalid from date %q, use YYYY-MM-DD", apperrors.ErrValidation, from)
		}
		r.From = &start
	}
	if to != "" {
		end, err := time.ParseInLocation(Layout, to, loc)
		if err != nil {
			return r, fmt.Errorf("%w: invalid to date %q, use YYYY-MM-DD", apperrors.ErrValidation, to)
		}
		// AddDate keeps local midnight across DST changes, unlike Add(24h).
		next := end.AddDate(0, 0, 1)
		r.To = &next
	}
	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return r, fmt.Errorf("%w: from date must not be after to date", apperrors.ErrValidation)
	}
	return r, nil
}
