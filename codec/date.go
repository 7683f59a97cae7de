package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// Built-in format names.
const (
	FormatDate     = "date"
	FormatDateTime = "date-time"

	dateLayout = "2006-01-02"
)

// ErrUnsupportedValue is returned by Dump when the value has no string form
// for the format.
var ErrUnsupportedValue = errors.New("codec: unsupported value")

// Date returns the "date" format: any parseable date string loads into a
// time.Time (UTC when no zone is given) and dumps as YYYY-MM-DD.
func Date() Format {
	return Funcs{
		LoadFunc: parseDate,
		DumpFunc: func(v any) (string, error) {
			t, err := asTime(v)
			if err != nil {
				return "", err
			}
			return t.Format(dateLayout), nil
		},
	}
}

// DateTime returns the "date-time" format: any parseable date string loads
// into a time.Time and dumps as RFC3339 with the parsed offset preserved.
func DateTime() Format {
	return Funcs{
		LoadFunc: parseDate,
		DumpFunc: func(v any) (string, error) {
			t, err := asTime(v)
			if err != nil {
				return "", err
			}
			return formatRFC3339(t), nil
		},
	}
}

func parseDate(s string) (any, error) {
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("codec: invalid date %q: %w", s, err)
	}
	return t, nil
}

func asTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %T is not a time", ErrUnsupportedValue, v)
}

// formatRFC3339 keeps the value's own offset; UTC renders as Z. RFC3339Nano
// trims trailing zeros of the fraction.
func formatRFC3339(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
