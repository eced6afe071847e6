package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/drstein77/plantcart/internal/catalog"
	"github.com/drstein77/plantcart/internal/checkout"
	"github.com/drstein77/plantcart/internal/config"
	"github.com/drstein77/plantcart/internal/controllers"
	"github.com/drstein77/plantcart/internal/dbkeeper"
	"github.com/drstein77/plantcart/internal/logger"
	"github.com/drstein77/plantcart/internal/models"
	"github.com/drstein77/plantcart/internal/orders"
	"github.com/drstein77/plantcart/internal/storage"
	"go.uber.org/zap"
)

const migrationsDir = "migrations"

type Server struct {
	srv    *http.Server
	ctx    context.Context
	Log    *logger.Logger
	cart   *storage.CartStorage
	keeper *dbkeeper.DBKeeper
}

// NewServer wires the cart, checkout flow and HTTP routes from option.
func NewServer(ctx context.Context, option *config.Options) (*Server, error) {
	if err := option.Validate(); err != nil {
		return nil, err
	}

	nLogger, err := logger.NewLogger(option.LogLevel(), "plantcart")
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	server := &Server{
		ctx: ctx,
		Log: nLogger,
	}

	httpClient := &http.Client{Timeout: option.RequestTimeout()}

	var source storage.Source
	if option.DataBaseDSN() != "" {
		keeper, err := dbkeeper.NewDBKeeper(ctx, option.DataBaseDSN, migrationsDir, nLogger.Named("dbkeeper"))
		if err != nil {
			return nil, fmt.Errorf("open product catalog: %w", err)
		}
		server.keeper = keeper
		source = keeper
	} else {
		source = catalog.NewClient(option.ProductBaseURL, httpClient, nLogger.Named("catalog"))
	}

	server.cart = storage.NewCartStorage(source, option.ProductIDs(), nLogger.Named("cart"))
	submitter := orders.NewClient(option.OrderBaseURL, httpClient, nLogger.Named("orders"))
	flow := checkout.NewFlow(
		server.cart,
		submitter,
		models.OrderVariant(option.OrderPayload()),
		option.CheckoutDelay(),
		nLogger.Named("checkout"),
	)

	basecontr := controllers.NewBaseController(server.cart, flow, nLogger)
	server.srv = &http.Server{
		Addr:              option.RunAddr(),
		Handler:           basecontr.Route(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, nil
}

// Serve loads the cart in the background and blocks serving HTTP until
// Shutdown is called.
func (server *Server) Serve() error {
	go func() {
		if err := server.cart.Load(server.ctx); err != nil {
			server.Log.Error("initial cart load failed", zap.Error(err))
		}
	}()

	server.Log.Info("Server started", zap.String("addr", server.srv.Addr))
	if err := server.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits up to timeout for in-flight
// ones, including checkouts, to finish.
func (server *Server) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.srv.Shutdown(ctx); err != nil {
		server.Log.Error("Server shutdown error", zap.Error(err))
	}
	if server.keeper != nil {
		server.keeper.Close()
	}
	server.Log.Info("Server stopped")
	_ = server.Log.Sync()
}
