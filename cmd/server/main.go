package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-print"
	"github.com/ponyexpress/chat"
	"github.com/ponyexpress/chat/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *gconfig.Container[*config.BaseConfig]
	bunDB  *bun.DB
	auth   chat.Authenticator
	auther *chat.RouteAuthenticator
	repo   chat.RepositoryManager
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) Config() *config.BaseConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func (a *App) SetDB(db *bun.DB) {
	a.bunDB = db
}

func (a *App) SetRepository(repo chat.RepositoryManager) {
	a.repo = repo
}

func (a *App) SetAuthenticator(auth chat.Authenticator) {
	a.auth = auth
}

func (a *App) SetHTTPAuth(auther *chat.RouteAuthenticator) {
	a.auther = auther
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("chat"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&config.BaseConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	if err := cfg.Raw().Validate(); err != nil {
		panic(err)
	}

	if cfg.Raw().GetApp().GetDebug() {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
		fmt.Println("============")
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	if err := WithHTTPAuth(ctx, app); err != nil {
		panic(err)
	}

	address := app.Config().GetServer().Address()
	go func() {
		if err := app.srv.Listen(address); err != nil {
			app.GetLogger("server").Error("server stopped", "error", err)
		}
	}()

	WaitExitSignal()

	if err := app.srv.Shutdown(); err != nil {
		app.GetLogger("server").Error("shutdown", "error", err)
	}
}

func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.Config().GetPersistence().GetDSN())
	if err != nil {
		log.Fatal(err)
		return err
	}

	persistence.RegisterModel((*chat.ChatMember)(nil))
	persistence.RegisterModel((*chat.User)(nil))
	persistence.RegisterModel((*chat.Chat)(nil))
	persistence.RegisterModel((*chat.Message)(nil))

	cfg := app.Config().GetPersistence()
	dialect := sqlitedialect.New()
	client, err := persistence.New(cfg, db, dialect)
	if err != nil {
		log.Fatal(err)
		return err
	}

	client.SetLogger(app.GetLogger("persistence"))

	migrationsFS, err := fs.Sub(chat.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}
	client.RegisterDialectMigrations(
		migrationsFS,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)
	if err := client.ValidateDialects(ctx); err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		return err
	}

	if cfg.GetSeed() {
		client.RegisterFixtures(chat.GetFixturesFS()).AddOptions(persistence.WithTrucateTables())
		if err := client.Seed(ctx); err != nil {
			return err
		}
	}

	if report := client.Report(); report != nil && !report.IsZero() {
		fmt.Printf("report: %s\n", report.String())
	}

	app.SetDB(client.DB())
	app.SetRepository(chat.NewRepositoryManager(client.DB()))

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	app.srv = fiber.New(fiber.Config{
		AppName:      app.Config().GetApp().GetName(),
		ErrorHandler: chat.NewErrorHandler(app.GetLogger("http")),
	})

	return nil
}

// userTrackerAdapter narrows the Users repository to what the provider needs.
type userTrackerAdapter struct {
	users chat.Users
}

func (a userTrackerAdapter) GetByIdentifier(ctx context.Context, identifier string) (*chat.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userTrackerAdapter) TrackAttemptedLogin(ctx context.Context, user *chat.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func (a userTrackerAdapter) TrackSuccessfulLogin(ctx context.Context, user *chat.User) error {
	return a.users.TrackSuccessfulLogin(ctx, user)
}

func WithHTTPAuth(ctx context.Context, app *App) error {
	cfg := app.Config().GetAuth()

	if err := app.repo.Validate(); err != nil {
		return err
	}

	userProvider := chat.NewUserProvider(userTrackerAdapter{users: app.repo.Users()})
	userProvider.WithLogger(app.GetLogger("auth:prv"))

	activityLogger := app.GetLogger("auth:activity")
	userProvider.WithActivitySink(chat.ActivitySinkFunc(func(ctx context.Context, event chat.ActivityEvent) error {
		activityLogger.Info("activity", "event", string(event.EventType), "user_id", event.UserID)
		return nil
	}))

	authenticator := chat.NewAuthenticator(userProvider, cfg)
	authenticator.WithLogger(app.GetLogger("auth"))

	app.SetAuthenticator(authenticator)

	httpAuth, err := chat.NewHTTPAuthenticator(authenticator, cfg)
	if err != nil {
		return err
	}
	httpAuth.Logger = app.GetLogger("auth:http")

	app.SetHTTPAuth(httpAuth)

	controller := chat.NewAPIController(
		chat.WithControllerRepo(app.repo),
		chat.WithControllerAuther(httpAuth),
		chat.WithControllerConfig(cfg),
		chat.WithControllerLogger(app.GetLogger("api")),
	)

	chat.RegisterRoutes(app.srv, controller, httpAuth, cfg)

	return nil
}

func WaitExitSignal() os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(
		sigCh,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	return <-sigCh
}
