package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"

	"medstore/docs"
	"medstore/internal/auth"
	"medstore/internal/broadcast"
	"medstore/internal/cache"
	"medstore/internal/config"
	"medstore/internal/db"
	"medstore/internal/handler"
	"medstore/internal/model"
	"medstore/internal/repository"
	"medstore/internal/router"
	"medstore/internal/service"
	"medstore/internal/upload"
)

//go:generate swag init -g cmd/server/main.go -d ../.. -o ../../docs

const shutdownTimeout = 5 * time.Second

// @title Medicine Store API
// @version 1.0
// @description Medicine catalog, orders and JWT authentication, with real-time broadcast of lookups and orders over WebSocket.
// @host localhost:8000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token, optionally prefixed with "Bearer ".
func main() {
	log.SetLevel(log.INFO)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	models := model.All()
	if cfg.ResetDB {
		log.Info("RESET_DB=true detected, dropping all tables...")
		for i := len(models) - 1; i >= 0; i-- {
			if err := gormDB.Migrator().DropTable(models[i]); err != nil {
				log.Warnf("drop table (may not exist): %v", err)
			}
		}
	}
	if err := gormDB.AutoMigrate(models...); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		log.Warnf("redis unavailable at %s, running without cache and token revocation: %v", cfg.RedisAddr, err)
	}
	cancelPing()

	images, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("upload store: %v", err)
	}

	api := echo.New()
	api.HideBanner = true
	api.Logger.SetLevel(log.INFO)

	ws := echo.New()
	ws.HideBanner = true
	ws.Logger.SetLevel(log.INFO)
	hub := broadcast.NewHub(ws.Logger)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	medicineRepo := repository.NewMedicineRepository(gormDB)
	orderRepo := repository.NewOrderRepository(gormDB)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	catalogService := service.NewCatalogService(medicineRepo, images, cacheClient, hub)
	orderService := service.NewOrderService(orderRepo, medicineRepo, hub)

	router.Register(api, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Catalog: handler.NewCatalogHandler(catalogService),
		Order:   handler.NewOrderHandler(orderService),
	}, auth.Middleware(jwtService, tokenStore), images.Dir())
	router.RegisterWS(ws, hub)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("HTTP API listening on :%s", cfg.ServerPort)
		return start(api, ":"+cfg.ServerPort)
	})
	g.Go(func() error {
		log.Infof("WebSocket broadcast listening on :%s", cfg.WSPort)
		return start(ws, ":"+cfg.WSPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Upgraded connections are hijacked, so Shutdown does not close them.
		hub.Close()
		return errors.Join(api.Shutdown(shutdownCtx), ws.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Infof("stopped, %d broadcast messages delivered", hub.Delivered())
}

func start(e *echo.Echo, addr string) error {
	if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
