package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	auth "github.com/goliatone/go-auth-jwt"
	"github.com/goliatone/go-auth-jwt/config"
	"github.com/goliatone/go-auth-jwt/middleware/throttle"
	"github.com/goliatone/go-auth-jwt/repository"
	"github.com/goliatone/go-auth-jwt/server"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/uptrace/bun"
)

func main() {
	configFile := flag.String("config", "config/app.json", "path to a JSON config file")
	envFile := flag.String("env", ".env", "path to a dotenv file")
	flag.Parse()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("app"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := config.Load(
		config.WithFile(*configFile),
		config.WithDotEnv(*envFile),
	)
	if err != nil {
		lgr.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Redacted()))
	fmt.Println("============")

	ctx := context.Background()

	store, db, err := WithPersistence(ctx, cfg.GetPersistence(), lgr.GetLogger("persistence"))
	if err != nil {
		lgr.Error("failed to setup persistence", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	app, err := WithHTTPServer(cfg, store, lgr)
	if err != nil {
		lgr.Error("failed to setup http server", "error", err)
		os.Exit(1)
	}

	srvCfg := cfg.GetServer()
	go func() {
		if err := app.Listen(srvCfg.Address); err != nil {
			lgr.Error("server stopped", "error", err)
		}
	}()
	lgr.Info("listening", "address", srvCfg.Address)

	sig := WaitExitSignal()
	lgr.Info("shutting down", "signal", sig.String())

	if err := app.ShutdownWithTimeout(srvCfg.ShutdownTimeout); err != nil {
		lgr.Error("shutdown", "error", err)
	}
}

// WithPersistence returns the credential store for the configured driver.
// The returned db is nil for the memory driver.
func WithPersistence(ctx context.Context, cfg config.Persistence, logger auth.Logger) (auth.CredentialStore, *bun.DB, error) {
	if cfg.GetDriver() == config.DriverMemory {
		logger.Warn("using in memory store, accounts are lost on restart")
		return auth.NewMemoryStore(), nil, nil
	}

	db, err := repository.Open(cfg.GetDriver(), cfg.GetDSN())
	if err != nil {
		return nil, nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to reach database").
			WithMetadata(map[string]any{"driver": cfg.GetDriver()})
	}

	if cfg.Migrate {
		if err := repository.Migrate(ctx, db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
	}

	return repository.NewUsers(db, repository.WithUsersLogger(logger)), db, nil
}

// WithHTTPServer builds the authenticator and the fiber app serving it
func WithHTTPServer(cfg *config.Config, store auth.CredentialStore, lgr *glog.BaseLogger) (*fiber.App, error) {
	authCfg := cfg.GetAuth()

	auther, err := auth.NewAuthenticator(store, authCfg)
	if err != nil {
		return nil, err
	}
	auther.
		WithLogger(lgr.GetLogger("auth:service")).
		WithPasswordHasher(auth.NewBcryptHasher(authCfg.GetBcryptCost())).
		WithActivitySink(activityLogger(lgr.GetLogger("auth:activity")))

	var guards []fiber.Handler
	if t := cfg.GetThrottle(); t.Enabled {
		guards = append(guards, throttle.New(throttle.Config{
			Rate:   t.Rate,
			Burst:  t.Burst,
			TTL:    t.TTL,
			Logger: lgr.GetLogger("auth:throttle"),
		}))
	}

	srvCfg := cfg.GetServer()

	return server.New(server.Options{
		Auther:         auther,
		Decoder:        auther.TokenService(),
		AuthScheme:     authCfg.GetAuthScheme(),
		ContextKey:     authCfg.GetContextKey(),
		PublicPaths:    srvCfg.PublicPaths,
		PublicPrefixes: srvCfg.PublicPrefixes,
		LoginGuards:    guards,
		Logger:         lgr.GetLogger("app"),
		HTTPLogger:     lgr.GetLogger("auth:http"),
		JWTLogger:      lgr.GetLogger("auth:jwt"),
	}), nil
}

func activityLogger(logger auth.Logger) auth.ActivitySink {
	return auth.ActivitySinkFunc(func(_ context.Context, event auth.ActivityEvent) error {
		logger.Info(string(event.EventType),
			"username", event.Username,
			"occurred_at", event.OccurredAt,
			"metadata", print.MaybePrettyJSON(event.Metadata),
		)
		return nil
	})
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
