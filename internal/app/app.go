package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/TastyTrail/internal/config"
	"github.com/GoArmGo/TastyTrail/internal/core/ports"
	"github.com/GoArmGo/TastyTrail/internal/handler"
	"github.com/GoArmGo/TastyTrail/internal/metrics"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

// Dependencies — всё, что контейнер собирает для приложения
type Dependencies struct {
	Auth        usecase.AuthUseCase
	Recipes     usecase.RecipeUseCase
	Restaurants usecase.RestaurantUseCase
	Sessions    handler.SessionResolver
	Metrics     *metrics.Registry

	// ReviewConsumer может быть nil, если RabbitMQ не настроен
	ReviewConsumer ports.ReviewEventConsumer

	// Closers закрываются в обратном порядке при Shutdown
	Closers []io.Closer
}

type App struct {
	Config *config.Config
	logger *slog.Logger
	deps   Dependencies
}

func NewApp(cfg *config.Config, logger *slog.Logger, deps Dependencies) *App {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	return &App{
		Config: cfg,
		logger: logger,
		deps:   deps,
	}
}

// LoggerIns возвращает основной логгер приложения
func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM
// или отмены ctx.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting app", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		err = runServer(ctx, a)
	case ModeWorker:
		err = runWorker(ctx, a)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте '%s' или '%s')", mode, ModeServer, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown finished with errors", "error", closeErr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("app stopped")
	return nil
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.deps.Closers) - 1; i >= 0; i-- {
		if err := a.deps.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.deps.Closers = nil
	return errors.Join(errs...)
}
