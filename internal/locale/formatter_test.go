package locale_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-clock/internal/engine"
	"github.com/tartampluch/go-clock/internal/locale"
	"golang.org/x/text/language"
)

// newLocalizer builds a localizer for the requested language from the
// embedded bundle.
func newLocalizer(t *testing.T, lang string) *i18n.Localizer {
	t.Helper()

	bundle, langs, err := locale.NewBundle()
	require.NoError(t, err)
	require.Contains(t, langs, lang, "language must ship with the app")

	return locale.NewLocalizer(bundle, lang)
}

// -----------------------------------------------------------------------------
// Time Formatter
// -----------------------------------------------------------------------------

func TestTimeFormatter_Korean_Afternoon(t *testing.T) {
	f, err := locale.NewTimeFormatter(newLocalizer(t, "ko"))
	require.NoError(t, err)

	// 3:05:09 PM renders in 24-hour mode with two-digit fields.
	moment := time.Date(2024, 1, 1, 15, 5, 9, 0, time.UTC)
	assert.Equal(t, "15:05:09", f.Format(moment))
}

func TestTimeFormatter_Invariants(t *testing.T) {
	// Two digits for hour/minute/second, hour 00-23, no AM/PM marker.
	pattern := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]:[0-5][0-9]$`)

	tests := []struct {
		name   string
		moment time.Time
		want   string
	}{
		{"Midnight", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "00:00:00"},
		{"SingleDigitFields", time.Date(2024, 3, 7, 9, 8, 7, 0, time.UTC), "09:08:07"},
		{"Noon", time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), "12:00:00"},
		{"LastSecondOfDay", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "23:59:59"},
	}

	for _, lang := range []string{"ko", "en"} {
		f, err := locale.NewTimeFormatter(newLocalizer(t, lang))
		require.NoError(t, err)

		for _, tt := range tests {
			t.Run(lang+"_"+tt.name, func(t *testing.T) {
				got := f.Format(tt.moment)
				assert.Equal(t, tt.want, got)
				assert.Regexp(t, pattern, got)
			})
		}
	}
}

// -----------------------------------------------------------------------------
// Date Formatter
// -----------------------------------------------------------------------------

func TestDateFormatter_Korean_Order(t *testing.T) {
	f, err := locale.NewDateFormatter(newLocalizer(t, "ko"))
	require.NoError(t, err)

	// January 1, 2024 is a Monday: year, long month, day, long weekday,
	// in Korean convention.
	moment := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024년 1월 1일 월요일", f.Format(moment))
}

func TestDateFormatter_Korean_TableDriven(t *testing.T) {
	f, err := locale.NewDateFormatter(newLocalizer(t, "ko"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		moment time.Time
		want   string
	}{
		{"NewYear", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024년 1월 1일 월요일"},
		{"LeapDay", time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), "2024년 2월 29일 목요일"},
		{"Hangul_Day", time.Date(2025, 10, 9, 9, 0, 0, 0, time.UTC), "2025년 10월 9일 목요일"},
		{"YearEnd", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "2024년 12월 31일 화요일"},
		{"SundayInJune", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC), "2025년 6월 1일 일요일"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.moment))
		})
	}
}

func TestDateFormatter_English(t *testing.T) {
	f, err := locale.NewDateFormatter(newLocalizer(t, "en"))
	require.NoError(t, err)

	moment := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "Monday, January 1, 2024", f.Format(moment))
}

func TestDateFormatter_Invariants(t *testing.T) {
	// For any moment: four-digit year, a long month name, the day without a
	// leading zero, and a long weekday name all appear in the output.
	f, err := locale.NewDateFormatter(newLocalizer(t, "ko"))
	require.NoError(t, err)

	moments := []time.Time{
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 20, 6, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 3, 18, 45, 0, 0, time.UTC),
	}

	for _, m := range moments {
		got := f.Format(m)
		assert.Contains(t, got, fmt.Sprintf("%d년", m.Year()))
		assert.Contains(t, got, fmt.Sprintf("%d월", int(m.Month())))
		assert.Contains(t, got, fmt.Sprintf("%d일", m.Day()))
		assert.Contains(t, got, "요일")
	}
}

// -----------------------------------------------------------------------------
// Construction Failures
// -----------------------------------------------------------------------------

func TestFormatters_UnavailableLocaleData(t *testing.T) {
	// A bundle with no messages at all: construction must fail with the
	// formatting-unavailable sentinel, never fall back silently.
	empty := i18n.NewBundle(language.Korean)
	loc := i18n.NewLocalizer(empty, "ko")

	_, err := locale.NewTimeFormatter(loc)
	assert.ErrorIs(t, err, engine.ErrFormattingUnavailable)

	_, err = locale.NewDateFormatter(loc)
	assert.ErrorIs(t, err, engine.ErrFormattingUnavailable)
}
