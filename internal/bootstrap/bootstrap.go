package bootstrap

import (
	"context"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	queryinadapter "graphsearch/internal/modules/query/adapter/in"
	queryoutadapter "graphsearch/internal/modules/query/adapter/out"
	queryservice "graphsearch/internal/modules/query/service"
	queryusecase "graphsearch/internal/modules/query/usecase"
	"graphsearch/internal/platform/clock"
	"graphsearch/internal/platform/config"
	"graphsearch/internal/platform/id"
	"graphsearch/internal/platform/logging"
	uiapp "graphsearch/internal/ui/app"
	askview "graphsearch/internal/ui/views/ask"
)

type App struct {
	Config   config.Config
	Log      *slog.Logger
	QueryCLI queryinadapter.CLIHandler
	QueryTUI queryinadapter.TUIHandler

	logCloser io.Closer
}

func New(cfg config.Config) (*App, error) {
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return NewWithLogger(cfg, logger, closer), nil
}

// NewWithLogger wires the application around an existing logger. closer may
// be nil.
func NewWithLogger(cfg config.Config, logger *slog.Logger, closer io.Closer) *App {
	queryUC := queryusecase.NewInteractor(queryservice.NewQueryService(
		clock.SystemClock{},
		id.UUID{},
		queryoutadapter.NewHTTPBackend(cfg.Endpoint, cfg.Timeout),
		queryoutadapter.NewLocalDocumentLoader(),
	))
	return &App{
		Config:    cfg,
		Log:       logger,
		QueryCLI:  queryinadapter.NewCLIHandler(queryUC),
		QueryTUI:  queryinadapter.NewTUIHandler(queryUC),
		logCloser: closer,
	}
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return logging.ToContext(ctx, a.Log)
}

func (a *App) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(app.Context(ctx))
	defer cancel()
	app.Log.Info("tui started", "endpoint", app.Config.Endpoint)
	model := uiapp.NewModel(ctx, app.Config.Endpoint, app.QueryTUI, askview.Options{RenderMarkdown: app.Config.RenderMarkdown})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
