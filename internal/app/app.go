package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/andy/billdraft/internal/config"
	"github.com/andy/billdraft/internal/domain"
	"github.com/andy/billdraft/internal/draft"
	"github.com/andy/billdraft/internal/export"
	"github.com/andy/billdraft/internal/reactive"
	"github.com/andy/billdraft/internal/service"
	"github.com/andy/billdraft/internal/store"
	"github.com/andy/billdraft/internal/theme"
)

// ThemeConfigFile is the name of the saved theme configuration next to config.yaml
const ThemeConfigFile = "theme.yaml"

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Log    *logrus.Logger

	Store     *store.Store
	Themes    *theme.Manager
	Scheduler *reactive.Scheduler

	// Services
	InvoiceService service.InvoiceService
	Exporter       *export.Exporter

	alarm reactive.Alarm
}

// Option customizes how the App is wired
type Option func(*options)

type options struct {
	alarm     reactive.Alarm
	listener  reactive.Listener
	logOutput io.Writer
	stateHook func(from, to reactive.State)
}

// WithAlarm drives the scheduler's debounce with a. Defaults to a ManualAlarm.
func WithAlarm(a reactive.Alarm) Option {
	return func(o *options) { o.alarm = a }
}

// WithListener receives flush notifications
func WithListener(l reactive.Listener) Option {
	return func(o *options) { o.listener = l }
}

// WithLogOutput redirects log output when no log file is configured
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithStateHook observes scheduler state transitions
func WithStateHook(hook func(from, to reactive.State)) Option {
	return func(o *options) { o.stateHook = hook }
}

// New creates a new App instance from the default config path
func New(ctx context.Context, opts ...Option) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg, opts...)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alarm == nil {
		o.alarm = &reactive.ManualAlarm{}
	}

	log, err := config.NewLogger(cfg.Log, o.logOutput)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	themes := theme.NewManager()
	if err := themes.Apply(cfg.Invoice.DefaultTheme); err != nil {
		return nil, fmt.Errorf("failed to apply default theme: %w", err)
	}

	st := store.New()
	sched := reactive.New(st, o.listener, o.alarm,
		reactive.WithLogger(log.WithField("component", "scheduler")),
		reactive.WithDebounce(cfg.Scheduler.Debounce),
		reactive.WithBudgets(cfg.Scheduler.FlushBudget, cfg.Scheduler.CalcBudget),
		reactive.WithWindow(cfg.Scheduler.Window),
		reactive.WithStateHook(o.stateHook),
	)

	invoiceService := service.NewInvoiceService(st, themes, sched, log.WithField("component", "service"))

	a := &App{
		Config:         cfg,
		Log:            log,
		Store:          st,
		Themes:         themes,
		Scheduler:      sched,
		InvoiceService: invoiceService,
		Exporter:       export.New(log.WithField("component", "export")),
		alarm:          o.alarm,
	}

	if err := a.NewDocument(1); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"theme":    themes.Current(),
		"currency": cfg.Invoice.DefaultCurrency,
		"debounce": sched.Debounce(),
	}).Debug("app initialized")

	return a, nil
}

// NewDocument starts a fresh document numbered from the config prefix
func (a *App) NewDocument(seq int) error {
	doc := domain.NewDocument("", a.Config.Invoice.InvoiceNumber(seq))
	doc.Company = a.Config.Company
	doc.Currency = a.Config.Invoice.DefaultCurrency
	doc.Theme = a.Config.Invoice.DefaultTheme

	if err := a.InvoiceService.Load(*doc); err != nil {
		return fmt.Errorf("failed to start document: %w", err)
	}
	return nil
}

// LoadDraft seeds the document from a YAML draft file
func (a *App) LoadDraft(path string) error {
	d, err := draft.Load(path)
	if err != nil {
		return err
	}
	doc, err := d.Document(a.Config.Invoice.DefaultCurrency, a.Config.Invoice.DefaultTheme)
	if err != nil {
		return err
	}
	if doc.Number == "" {
		doc.Number = a.Config.Invoice.InvoiceNumber(1)
	}
	if doc.Company == (domain.Company{}) {
		doc.Company = a.Config.Company
	}

	if err := a.InvoiceService.Load(doc); err != nil {
		return err
	}
	a.Log.WithField("path", path).Info("draft loaded")
	return nil
}

// Settle flushes any pending update so that totals reflect the document
func (a *App) Settle() error {
	return a.Scheduler.Flush()
}

// Export settles pending updates and writes the document as PDF.
// An empty path writes into the configured output directory.
func (a *App) Export(path string) (string, error) {
	if err := a.Settle(); err != nil {
		return "", fmt.Errorf("failed to settle totals: %w", err)
	}

	doc := a.InvoiceService.Document()
	if path == "" {
		if err := a.Config.EnsureDirectories(); err != nil {
			return "", fmt.Errorf("failed to create directories: %w", err)
		}
		path = filepath.Join(a.Config.Invoice.OutputDir, export.FileName(doc))
	}

	if err := a.Exporter.WriteFile(path, doc, a.InvoiceService.Theme()); err != nil {
		return "", err
	}
	return path, nil
}

// ThemeConfigPath returns the path of the saved theme configuration
func ThemeConfigPath() string {
	return filepath.Join(filepath.Dir(config.DefaultConfigPath()), ThemeConfigFile)
}

// SaveTheme writes the active theme and customizations to path
func (a *App) SaveTheme(path string) error {
	data, err := a.Themes.MarshalConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTheme imports a theme configuration. A missing file is not an error.
func (a *App) LoadTheme(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := a.Themes.UnmarshalConfig(data); err != nil {
		return err
	}
	return a.InvoiceService.ApplyTheme(a.Themes.Current())
}

// Close cancels any pending debounce
func (a *App) Close() error {
	a.alarm.Cancel()
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
