package openhours

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/LerianStudio/lib-openhours/openhours/log"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

var (
	// ErrLoggerNil is returned when the launcher has no logger.
	ErrLoggerNil = errors.New("logger is nil")
	// ErrNilLauncher is returned when a launcher method is called on a nil receiver.
	ErrNilLauncher = errors.New("launcher is nil")
	// ErrEmptyApp is returned when an app name is empty or whitespace.
	ErrEmptyApp = errors.New("app name is empty")
	// ErrNilApp is returned when a nil app instance is provided.
	ErrNilApp = errors.New("app is nil")
	// ErrDuplicateApp is returned when two apps share a name.
	ErrDuplicateApp = errors.New("app already registered")
	// ErrConfigFailed is returned when launcher option application collected errors.
	ErrConfigFailed = errors.New("launcher configuration failed")
)

// App is a long-running component started by the Launcher, e.g. the HTTP server.
type App interface {
	Run(launcher *Launcher) error
}

// LauncherOption configures a Launcher.
type LauncherOption func(l *Launcher)

// WithLogger sets the launcher logger.
func WithLogger(logger log.Logger) LauncherOption {
	return func(l *Launcher) {
		l.Logger = logger
	}
}

// RunApp registers app under name. Registration errors surface from RunWithError.
func RunApp(name string, app App) LauncherOption {
	return func(l *Launcher) {
		if err := l.Add(name, app); err != nil {
			l.configErrors = append(l.configErrors, fmt.Errorf("add app %q: %w", name, err))
		}
	}
}

// Launcher runs every registered App concurrently and waits for all of them.
type Launcher struct {
	Logger       log.Logger
	apps         map[string]App
	configErrors []error
}

// NewLauncher creates a Launcher and applies opts in order.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{apps: make(map[string]App)}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Add registers an application.
func (l *Launcher) Add(appName string, a App) error {
	if l == nil {
		return ErrNilLauncher
	}

	if l.apps == nil {
		l.apps = make(map[string]App)
	}

	if strings.TrimSpace(appName) == "" {
		return ErrEmptyApp
	}

	if a == nil {
		return ErrNilApp
	}

	if _, exists := l.apps[appName]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateApp, appName)
	}

	l.apps[appName] = a

	return nil
}

// RunWithError starts every app in its own goroutine with panic recovery and
// blocks until all return. App failures are joined into the returned error.
func (l *Launcher) RunWithError() error {
	if l == nil {
		return ErrNilLauncher
	}

	if l.Logger == nil {
		return ErrLoggerNil
	}

	if len(l.configErrors) > 0 {
		return errors.Join(append([]error{ErrConfigFailed}, l.configErrors...)...)
	}

	names := make([]string, 0, len(l.apps))
	for name := range l.apps {
		names = append(names, name)
	}

	sort.Strings(names)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []error
	)

	ctx := context.Background()

	l.Logger.Log(ctx, log.LevelInfo, "starting apps", log.Int("count", len(names)))

	for _, name := range names {
		app := l.apps[name]

		wg.Add(1)

		runtime.SafeGoWithContextAndComponent(ctx, l.Logger, "launcher", "run_app_"+name, runtime.KeepRunning,
			func(ctx context.Context) {
				defer wg.Done()

				l.Logger.Log(ctx, log.LevelInfo, "app starting", log.String("app", name))

				if err := app.Run(l); err != nil {
					l.Logger.Log(ctx, log.LevelError, "app error", log.String("app", name), log.Err(err))

					mu.Lock()
					failed = append(failed, fmt.Errorf("app %q: %w", name, err))
					mu.Unlock()
				}

				l.Logger.Log(ctx, log.LevelInfo, "app finished", log.String("app", name))
			})
	}

	wg.Wait()

	l.Logger.Log(ctx, log.LevelInfo, "launcher terminated")

	return errors.Join(failed...)
}
