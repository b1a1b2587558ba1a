// Package server wires configuration, storage, media and services together
// and runs the HTTP server alongside the upload sweeper.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/logging"
	"github.com/dmitrijs2005/campusmarket/internal/server/auth"
	"github.com/dmitrijs2005/campusmarket/internal/server/config"
	"github.com/dmitrijs2005/campusmarket/internal/server/httpapi"
	"github.com/dmitrijs2005/campusmarket/internal/server/media"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campusmarket/internal/server/services"
	"golang.org/x/sync/errgroup"
)

var (
	sqlOpen    = sql.Open
	newS3Store = media.NewS3Store
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	uploadService  *services.UploadService
	catalogService *services.CatalogService
	httpServer     *httpapi.HTTPServer
}

// NewApp builds every dependency named by c. With the postgres backend it
// opens the database and applies migrations.
func NewApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSONLogger(logOut, c.LogLevel)

	var db *sql.DB
	var rm repomanager.RepositoryManager
	switch c.StorageBackend {
	case config.StoragePostgres:
		var err error
		db, err = sqlOpen("pgx", c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		pm := repomanager.NewPostgresRepositoryManager()
		if err := pm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		rm = pm
	default:
		rm = repomanager.NewMemoryRepositoryManager()
	}

	store, err := newMediaStore(ctx, c)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("media init error: %w", err)
	}

	codec, err := newCodec(ctx, c, logger)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	as, err := services.NewAccountService(db, rm, codec, c)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	us := services.NewUploadService(db, rm, store, c)
	cs := services.NewCatalogService(db, rm, c)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		uploadService:  us,
		catalogService: cs,
		httpServer:     httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, as, us, cs, c.MaxUploadBytes),
	}, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func newMediaStore(ctx context.Context, c *config.Config) (media.Store, error) {
	if c.MediaBackend != config.MediaS3 {
		return media.NewMemoryStore(c.BaseURL), nil
	}
	s3, err := newS3Store(ctx, media.S3Settings{
		User:         c.S3RootUser,
		Password:     c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		URLValidity:  c.MediaURLValidity,
	})
	if err != nil {
		return nil, err
	}
	return s3, nil
}

// newCodec picks the token codec. A jwt codec without a secret gets a
// random one, so tokens do not survive a restart.
func newCodec(ctx context.Context, c *config.Config, logger logging.Logger) (auth.Codec, error) {
	if c.TokenCodec != config.TokenCodecJWT {
		return auth.NewPlainCodec(), nil
	}
	secret := c.SecretKey
	if secret == "" {
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
		logger.Warn(ctx, "no secret key configured, using a random one")
		secret = s
	}
	return auth.NewJWTCodec([]byte(secret), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration), nil
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// runSweeper removes stale uploads every SweepInterval until ctx ends.
func (app *App) runSweeper(ctx context.Context) error {
	ticker := time.NewTicker(app.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			res, err := app.uploadService.Sweep(ctx, now.UTC())
			if err != nil {
				app.logger.Error(ctx, "sweep failed", "error", err.Error())
				continue
			}
			if res.Uploads > 0 || res.Blobs > 0 {
				app.logger.Info(ctx, "swept stale uploads", "uploads", res.Uploads, "blobs", res.Blobs)
			}
		}
	}
}

// Run seeds the catalog, then serves until a signal arrives or ctx ends.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := app.initSignalHandler(ctx)
	defer stop()
	defer closeDB(app.db)

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "media", app.config.MediaBackend)

	if err := app.catalogService.EnsureSeeded(ctx); err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.httpServer.Run(ctx)
	})
	g.Go(func() error {
		return app.runSweeper(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

// Main loads configuration from args and runs the app. It returns the
// process exit code.
func Main(args []string) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	ctx := context.Background()
	app, err := NewApp(ctx, cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
