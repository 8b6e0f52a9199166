package locale

import (
	"fmt"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/engine"
)

// TimeFormatter renders the time-of-day portion of a moment: 24-hour mode,
// two-digit hour, minute, and second, no AM/PM marker. The layout comes from
// the locale's format_time message and is resolved once at construction.
type TimeFormatter struct {
	layout string
}

// NewTimeFormatter resolves the locale's time layout. A missing or empty
// layout means the formatting capability is unavailable; there is no
// fallback behavior, so construction fails.
func NewTimeFormatter(loc *i18n.Localizer) (*TimeFormatter, error) {
	layout, err := loc.Localize(&i18n.LocalizeConfig{MessageID: config.TKeyFormatTime})
	if err != nil || layout == "" {
		return nil, fmt.Errorf("%w: %s", engine.ErrFormattingUnavailable, config.TKeyFormatTime)
	}
	return &TimeFormatter{layout: layout}, nil
}

// Format implements engine.Formatter.
func (f *TimeFormatter) Format(t time.Time) string {
	return t.Format(f.layout)
}

// DateFormatter renders the calendar-date portion of a moment: numeric
// four-digit year, long month name, numeric day, long weekday name, ordered
// by the locale's format_date template. Month and weekday name tables are
// resolved once at construction; Format only executes the template.
type DateFormatter struct {
	loc      *i18n.Localizer
	months   [config.MonthCount + 1]string // indexed by time.Month (1..12)
	weekdays [config.WeekdayCount]string   // indexed by time.Weekday (Sunday = 0)
}

// NewDateFormatter resolves the locale's month and weekday name tables and
// probes the date template. Any missing message fails construction.
func NewDateFormatter(loc *i18n.Localizer) (*DateFormatter, error) {
	f := &DateFormatter{loc: loc}

	for m := 1; m <= config.MonthCount; m++ {
		key := fmt.Sprintf(config.FormatIndexedKey, config.TKeyPrefixMonth, m)
		name, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key})
		if err != nil || name == "" {
			return nil, fmt.Errorf("%w: %s", engine.ErrFormattingUnavailable, key)
		}
		f.months[m] = name
	}

	for d := 0; d < config.WeekdayCount; d++ {
		key := fmt.Sprintf(config.FormatIndexedKey, config.TKeyPrefixWeekday, d)
		name, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key})
		if err != nil || name == "" {
			return nil, fmt.Errorf("%w: %s", engine.ErrFormattingUnavailable, key)
		}
		f.weekdays[d] = name
	}

	// Probe the template once so Format cannot fail afterwards.
	if _, err := f.render(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		return nil, fmt.Errorf("%w: %s", engine.ErrFormattingUnavailable, config.TKeyFormatDate)
	}

	return f, nil
}

// Format implements engine.Formatter.
func (f *DateFormatter) Format(t time.Time) string {
	// The template was probed at construction; render cannot fail here.
	text, _ := f.render(t)
	return text
}

func (f *DateFormatter) render(t time.Time) (string, error) {
	return f.loc.Localize(&i18n.LocalizeConfig{
		MessageID: config.TKeyFormatDate,
		TemplateData: map[string]interface{}{
			"Year":    t.Year(),
			"Month":   f.months[t.Month()],
			"Day":     t.Day(),
			"Weekday": f.weekdays[t.Weekday()],
		},
	})
}
