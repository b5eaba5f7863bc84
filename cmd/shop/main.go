package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/dwikikusuma/digimall/internal/server"
	"github.com/dwikikusuma/digimall/pkg/config"
	"github.com/dwikikusuma/digimall/pkg/logger"
	"github.com/dwikikusuma/digimall/pkg/rpc"
	"github.com/dwikikusuma/digimall/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "shop", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	shop, err := server.New(ctx, cfg, log, server.Options{})
	if err != nil {
		log.Error("shop init failed", slog.Any("err", err), slog.String("store", cfg.StoreDriver))
		os.Exit(1)
	}
	defer shop.Close()

	if cfg.SeedFile != "" {
		switch err := shop.Seed(ctx, cfg.SeedFile, log); {
		case errors.Is(err, fs.ErrNotExist):
			log.Info("no seed file", slog.String("path", cfg.SeedFile))
		case err != nil:
			log.Error("seed failed", slog.Any("err", err), slog.String("path", cfg.SeedFile))
			os.Exit(1)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", addr))
		os.Exit(1)
	}

	grpcServer := rpc.NewServer(log)
	shop.Register(grpcServer)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", slog.String("addr", addr), slog.String("store", cfg.StoreDriver))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	err = shutdown.Graceful(10*time.Second, func(context.Context) error {
		grpcServer.GracefulStop()
		return nil
	}, grpcServer.Stop)
	if err != nil {
		log.Warn("graceful stop timeout, forced stop")
	}

	wg.Wait()
	log.Info("bye")
}
