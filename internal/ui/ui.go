package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"github.com/jonboulle/clockwork"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-clock/internal/config"
	"github.com/tartampluch/go-clock/internal/engine"
	"github.com/tartampluch/go-clock/internal/locale"
	"github.com/tartampluch/go-clock/internal/server"
)

//go:embed Icon.png
var appIconData []byte

// GoClockApp encapsulates the UI state, preferences, and the clock updater.
type GoClockApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server *server.TimeServer
	Clock  clockwork.Clock // Injected clock for testability

	TimeDisplay *TimeDisplay
	DateDisplay *DateDisplay

	Tray desktop.App
	Menu *fyne.Menu

	TrayShowItem     *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	settingsWindow fyne.Window

	// The updater's formatters are immutable once built; a locale change
	// swaps the whole updater rather than mutating the running one.
	updaterMu sync.Mutex
	updater   *engine.Updater
}

// NewGoClockApp constructs the application and wires dependencies.
func NewGoClockApp(a fyne.App, ctx context.Context, srv *server.TimeServer) *GoClockApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	return &GoClockApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Clock:              clockwork.NewRealClock(), // Default to real clock in production
		SupportedLanguages: config.SupportedLanguages,
	}
}

// Run launches the application services and the main UI loop. It returns an
// error only for the fatal construction failures: missing locale data or a
// display target that could not be wired.
func (app *GoClockApp) Run() error {
	if err := app.SetupI18n(); err != nil {
		return err
	}

	app.buildClockWindow()

	if err := app.startClock(); err != nil {
		return err
	}

	go func() {
		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.Window.Show()
	app.App.Run()

	app.stopClock()
	return nil
}

// buildClockWindow assembles the main window holding the two display regions.
func (app *GoClockApp) buildClockWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w

	app.TimeDisplay = NewTimeDisplay(config.TimeTextSize)
	app.DateDisplay = NewDateDisplay(config.DateTextSize, app.publishSnapshot)

	content := container.NewVBox(
		layout.NewSpacer(),
		app.TimeDisplay.Object(),
		app.DateDisplay.Object(),
		layout.NewSpacer(),
	)

	w.SetContent(container.NewPadded(content))
	w.Resize(fyne.NewSize(config.ClockWinWidth, config.ClockWinHeight))

	// Closing the window hides the clock; the app lives in the tray.
	w.SetCloseIntercept(func() {
		w.Hide()
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *GoClockApp) setupTrayMenu() {
	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		app.Window.Show()
		app.Window.RequestFocus()
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayShowItem,
		fyne.NewMenuItemSeparator(),
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *GoClockApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// startClock builds the locale formatters and the updater, then starts the
// periodic refresh. Formatter construction failure is fatal: there is no
// fallback formatting behavior.
func (app *GoClockApp) startClock() error {
	timeFormat, err := locale.NewTimeFormatter(app.Localizer)
	if err != nil {
		return err
	}

	dateFormat, err := locale.NewDateFormatter(app.Localizer)
	if err != nil {
		return err
	}

	updater, err := engine.NewUpdater(app.Clock, timeFormat, dateFormat, app.TimeDisplay, app.DateDisplay)
	if err != nil {
		return err
	}

	app.updaterMu.Lock()
	app.updater = updater
	app.updaterMu.Unlock()

	updater.Start(app.Ctx)
	return nil
}

// stopClock deregisters the periodic refresh. Safe to call when no updater
// is running.
func (app *GoClockApp) stopClock() {
	app.updaterMu.Lock()
	updater := app.updater
	app.updater = nil
	app.updaterMu.Unlock()

	if updater != nil {
		updater.Stop()
	}
}

// restartClock replaces the running updater with one built from the current
// locale. Used after a language change, since formatters are immutable.
func (app *GoClockApp) restartClock() error {
	slog.Info(config.MsgClockRestart,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyLang, app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	app.stopClock()
	return app.startClock()
}

// publishSnapshot pushes the widget's current rendering to the HTTP server.
// It runs after the date write, the last write of each tick, so the three
// fields always describe the same moment.
func (app *GoClockApp) publishSnapshot() {
	if app.Server == nil {
		return
	}

	app.Server.Update(server.Snapshot{
		Time:      app.TimeDisplay.Text(),
		Date:      app.DateDisplay.Text(),
		Timestamp: app.TimeDisplay.Timestamp(),
	})
}
