// Command api serves the blog REST API.
//
//	@title						Blog API
//	@version					1.0
//	@description				Blog backend with access/refresh token authentication.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api"
	"github.com/inkpost/blog-api/internal/api/handler"
	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/ports"
	"github.com/inkpost/blog-api/internal/core/service"
	"github.com/inkpost/blog-api/internal/infrastructure/config"
	"github.com/inkpost/blog-api/internal/infrastructure/db/memory"
	mongodb "github.com/inkpost/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/inkpost/blog-api/internal/infrastructure/db/redis"
	"github.com/inkpost/blog-api/internal/infrastructure/security"
	"github.com/inkpost/blog-api/internal/infrastructure/worker"
	"github.com/inkpost/blog-api/pkg/logger"
)

const serviceName = "blog-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log := logger.Init(logger.Options{Service: serviceName})
		log.Error().Err(err).Msg("server exited")
		stop()
		os.Exit(1)
	}
}

type stores struct {
	users         ports.UserRepository
	refreshTokens ports.RefreshTokenRepository
	blogs         ports.BlogRepository
	close         func()
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	readiness := map[string]handler.Pinger{}

	st, err := openStores(ctx, cfg, readiness, log)
	if err != nil {
		return err
	}
	defer st.close()

	tokens, err := service.NewTokenService(service.TokenConfig{
		AccessSecret:  cfg.Auth.JWTSecret,
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
		Issuer:        cfg.Auth.Issuer,
	}, st.refreshTokens)
	if err != nil {
		return err
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	deps := api.Deps{
		AuthService: service.NewAuthService(st.users, st.refreshTokens, tokens, hasher, logger.Component("auth")),
		BlogService: service.NewBlogService(st.blogs, st.users, logger.Component("blogs")),
		Verifier:    tokens,
		Logger:      logger.Component("http"),
		FrontendURL: cfg.FrontendURL,
		Readiness:   readiness,
		Metrics:     metrics.Registry,
	}

	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		} else {
			defer rdb.Close()
			deps.GlobalLimiter = redisdb.NewSlidingWindowLimiter(rdb, "ratelimit:", cfg.RateLimit.Requests, cfg.RateLimit.Window)
			deps.AuthLimiter = redisdb.NewSlidingWindowLimiter(rdb, "ratelimit:", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)
			readiness["redis"] = redisdb.Pinger{Client: rdb}
		}
	}

	sweeper := worker.NewSweeper(st.refreshTokens, cfg.Sweeper.Interval, cfg.Sweeper.RevokedRetention, logger.Component("sweeper"))
	sweepDone := sweeper.Start(ctx)

	e := api.NewRouter(deps)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server started")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	select {
	case <-sweepDone:
	case <-shutdownCtx.Done():
	}
	log.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, readiness map[string]handler.Pinger, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &stores{
			users:         memory.NewUserRepository(),
			refreshTokens: memory.NewRefreshTokenRepository(),
			blogs:         memory.NewBlogRepository(),
			close:         func() {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}
	closeClient := func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		closeClient()
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	readiness["mongodb"] = mongodb.Pinger{Client: client}

	return &stores{
		users:         mongodb.NewUserRepository(db, cfg.Mongo.Timeout),
		refreshTokens: mongodb.NewRefreshTokenRepository(db, cfg.Mongo.Timeout),
		blogs:         mongodb.NewBlogRepository(db, cfg.Mongo.Timeout),
		close:         closeClient,
	}, nil
}
