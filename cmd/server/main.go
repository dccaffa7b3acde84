package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/xtding233/rinksim/internal/api"
	"github.com/xtding233/rinksim/internal/config"
	"github.com/xtding233/rinksim/internal/logger"
	"github.com/xtding233/rinksim/internal/rpc"
	"github.com/xtding233/rinksim/internal/sim"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		logrus.WithError(err).Fatal("load settings")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, nil)
	log := logger.WithComponent("server")

	loader := config.NewLoader(cfg.ConfigDir)
	tuning, err := loader.Tuning(cfg.TuningProfile)
	if err != nil {
		log.WithError(err).Fatal("load tuning")
	}
	engineLog := logger.WithComponent("engine")
	engines := sim.NewHolder(sim.NewEngine(tuning, engineLog))

	watcher := config.NewFileWatcher(loader.Paths(cfg.TuningProfile), cfg.ReloadInterval, func(path string) {
		loader.Invalidate()
		t, err := loader.Tuning(cfg.TuningProfile)
		if err != nil {
			log.WithError(err).WithField("path", path).Warn("tuning reload rejected, keeping previous")
			return
		}
		engines.Set(sim.NewEngine(t, engineLog))
		log.WithField("path", path).Info("tuning reloaded")
	})
	watcher.Start()
	defer watcher.Stop()

	httpSrv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewServer(engines, api.Options{
			MaxTrials:    cfg.MaxTrials,
			MaxBodyBytes: cfg.MaxBodyBytes,
			Log:          logger.WithComponent("http"),
		}).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	rpcLog := logger.WithComponent("grpc")
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(rpc.LoggingInterceptor(rpcLog)))
	rpc.Register(grpcSrv, rpc.NewService(engines, cfg.MaxTrials, rpcLog))
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.WithError(err).Fatal("listen grpc")
	}

	errCh := make(chan error, 2)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		log.WithField("addr", cfg.GRPCAddr).Info("grpc listening")
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.WithError(err).Error("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	grpcSrv.GracefulStop()
}
