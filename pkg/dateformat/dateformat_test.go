package dateformat_test

import (
	"errors"
	"testing"
	"time"

	"github.com/opensilex/phis/pkg/dateformat"
)

func TestParseDateOrDateTime(t *testing.T) {
	type When struct {
		Value     string
		IsEndDate bool
	}
	plus2 := time.FixedZone("", 2*60*60)

	for name, testcase := range map[string]struct {
		When When
		Then time.Time
	}{
		"plain date is start of day": {
			When: When{Value: "2017-06-15"},
			Then: time.Date(2017, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		"plain date as end date is end of day": {
			When: When{Value: "2017-06-15", IsEndDate: true},
			Then: time.Date(2017, 6, 15, 23, 59, 59, 0, time.UTC),
		},
		"date-time with colon in offset": {
			When: When{Value: "2017-06-15T10:51:00+02:00", IsEndDate: true},
			Then: time.Date(2017, 6, 15, 10, 51, 0, 0, plus2),
		},
		"date-time without colon in offset": {
			When: When{Value: "2017-06-15T10:51:00+0200"},
			Then: time.Date(2017, 6, 15, 10, 51, 0, 0, plus2),
		},
		"date-time with milliseconds": {
			When: When{Value: "2017-06-15T10:51:00.250+0200"},
			Then: time.Date(2017, 6, 15, 10, 51, 0, 250_000_000, plus2),
		},
		"date-time with space": {
			When: When{Value: "2017-06-15 10:51:00+0200"},
			Then: time.Date(2017, 6, 15, 10, 51, 0, 0, plus2),
		},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := dateformat.ParseDateOrDateTime(testcase.When.Value, testcase.When.IsEndDate)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(testcase.Then) {
				t.Errorf("got %s, expected %s", got, testcase.Then)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := dateformat.ParseDateOrDateTime("15/06/2017", false)
		if !errors.As(err, &dateformat.ErrInvalidDate{}) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestFormat(t *testing.T) {
	d := time.Date(2017, 6, 15, 10, 51, 0, 0, time.FixedZone("", -3*60*60))
	if got := dateformat.FormatDate(d); got != "2017-06-15" {
		t.Errorf("unexpected date: %s", got)
	}
	if got := dateformat.FormatDateTime(d); got != "2017-06-15T10:51:00-0300" {
		t.Errorf("unexpected date-time: %s", got)
	}
	if got := dateformat.StartOfDay(d); !got.Equal(time.Date(2017, 6, 15, 3, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start of day: %s", got)
	}
}
