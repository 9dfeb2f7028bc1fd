package services

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrRangeFromDateInvalid = errors.New("range invalid from date")
	ErrRangeToDateInvalid   = errors.New("range invalid to date")
	ErrRangeOrderInvalid    = errors.New("range to before from")
)

// ParseDateRange reads optional YYYY-MM-DD bounds used by entry listing and
// export. Missing bounds come back nil.
func ParseDateRange(rawFrom string, rawTo string, location *time.Location) (*time.Time, *time.Time, error) {
	var from *time.Time
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsed, err := ParseDayInLocation(fromRaw, location)
		if err != nil {
			return nil, nil, ErrRangeFromDateInvalid
		}
		from = &parsed
	}

	var to *time.Time
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsed, err := ParseDayInLocation(toRaw, location)
		if err != nil {
			return nil, nil, ErrRangeToDateInvalid
		}
		to = &parsed
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, ErrRangeOrderInvalid
	}
	return from, to, nil
}
