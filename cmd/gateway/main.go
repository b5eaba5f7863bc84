package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dwikikusuma/digimall/internal/gateway"
	"github.com/dwikikusuma/digimall/pkg/auth"
	"github.com/dwikikusuma/digimall/pkg/config"
	"github.com/dwikikusuma/digimall/pkg/logger"
	"github.com/dwikikusuma/digimall/pkg/rpc"
	"github.com/dwikikusuma/digimall/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	cc, err := rpc.Dial(cfg.ShopGRPCAddr)
	if err != nil {
		log.Error("dial shop failed", slog.Any("err", err), slog.String("addr", cfg.ShopGRPCAddr))
		os.Exit(1)
	}
	defer cc.Close()

	signer := auth.NewSigner(cfg.JWTSecret, cfg.JWTTTL)
	gw := gateway.New(cc, signer, log, gateway.Options{IssueTokens: cfg.IsDev()})

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("shop", cfg.ShopGRPCAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	if err := shutdown.Graceful(10*time.Second, server.Shutdown, func() { _ = server.Close() }); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
