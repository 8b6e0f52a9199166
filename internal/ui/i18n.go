package ui

import (
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/locale"
)

// SetupI18n initializes the translation bundle and detects available
// languages. Failure here is fatal: without locale data neither the UI nor
// the clock formatters can be built.
func (app *GoClockApp) SetupI18n() error {
	bundle, detectedLangs, err := locale.NewBundle()
	if err != nil {
		return err
	}

	app.I18nBundle = bundle
	app.SupportedLanguages = detectedLangs
	app.UpdateLocalizer()
	return nil
}

// UpdateLocalizer refreshes the translator based on the user's language preference.
func (app *GoClockApp) UpdateLocalizer() {
	lang := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = locale.NewLocalizer(app.I18nBundle, lang)
}

// GetMsg is a helper to translate a key safely.
func (app *GoClockApp) GetMsg(key string) string {
	if app.Localizer == nil {
		return key
	}
	msg, err := app.Localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}
