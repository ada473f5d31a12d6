package main

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AhmedZafar5533/marbo-go/app/cmd"
	"github.com/AhmedZafar5533/marbo-go/app/configs"
	"github.com/AhmedZafar5533/marbo-go/app/gateway"
	"github.com/AhmedZafar5533/marbo-go/app/handlers"
	"github.com/AhmedZafar5533/marbo-go/app/routes"
	"github.com/AhmedZafar5533/marbo-go/app/services"
	"github.com/AhmedZafar5533/marbo-go/app/store"
	"github.com/AhmedZafar5533/marbo-go/app/utils/renderer"
	sessionsutil "github.com/AhmedZafar5533/marbo-go/app/utils/sessions"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	env := configs.LoadEnv()

	logger, err := newLogger(env)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := env.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	cartStore, err := buildCartStore(env)
	if err != nil {
		logger.Fatal("failed to initialize cart store", zap.Error(err))
	}

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		logger.Fatal("failed to load session keys", zap.Error(err))
	}

	// One HTTP client (and cookie jar) shared by every gateway so the
	// session cookie from OTP verification rides on all cart calls.
	jar, err := cookiejar.New(nil)
	if err != nil {
		logger.Fatal("failed to create cookie jar", zap.Error(err))
	}
	httpClient := &http.Client{Timeout: 10 * time.Second, Jar: jar}

	cartGateway := gateway.NewCartGatewayWithClient(env.APIBaseURL, httpClient, logger)
	orderAPI := gateway.NewOrderAPI(env.APIBaseURL, httpClient, logger)
	authGateway := gateway.NewAuthGateway(env.APIBaseURL, httpClient, logger)

	state := sessionsutil.NewState()
	cookies := sessionsutil.NewCookieSessionStore(keys.AuthKey, keys.EncKey)

	engine, err := services.NewReconciler(context.Background(), cartStore, cartGateway, state, logger)
	if err != nil {
		logger.Fatal("failed to initialize cart engine", zap.Error(err))
	}

	payments := services.NewMidtransProvider(env.MidtransServerKey, env.AppEnv == "production")
	checkout := services.NewCheckoutService(engine, orderAPI, payments, logger)

	render := renderer.New()
	csrfKey := keys.AuthKey
	if env.CSRFKey != "" {
		csrfKey = []byte(env.CSRFKey)
	}

	router := routes.NewRouter(routes.RouterDeps{
		Cart:     handlers.NewCartHandler(engine, render, logger),
		Checkout: handlers.NewCheckoutHandler(engine, checkout, render, logger),
		Auth:     handlers.NewAuthHandler(authGateway, cookies, state, engine, render, logger),
		Cookies:  cookies,
		State:    state,
		CSRFKey:  csrfKey,
		Secure:   env.AppEnv == "production",
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         env.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("storeBackend", env.StoreBackend),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(env configs.ENV) (*zap.Logger, error) {
	if env.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func buildCartStore(env configs.ENV) (store.CartStore, error) {
	switch env.StoreBackend {
	case configs.StoreBackendRedis:
		client, err := configs.OpenRedis(env)
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(client, env.CartProfile), nil
	case configs.StoreBackendMySQL:
		db, err := configs.OpenConnection(env)
		if err != nil {
			return nil, err
		}
		gs := store.NewGormStore(db, env.CartProfile)
		if err := gs.AutoMigrate(); err != nil {
			return nil, err
		}
		return gs, nil
	default:
		return store.NewFileStore(env.CartFilePath), nil
	}
}
