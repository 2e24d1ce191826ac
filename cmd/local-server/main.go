package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/faradayfan/instance-power/internal/api"
	"github.com/faradayfan/instance-power/internal/compute"
	"github.com/faradayfan/instance-power/internal/config"
	"github.com/faradayfan/instance-power/internal/control"
	"github.com/faradayfan/instance-power/internal/logging"
)

func main() {
	// .env is optional for local runs
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("[local-server] failed to load config: %v", err)
	}

	log := logging.New(cfg.Log)

	ec2Client, err := compute.NewEC2(cfg.Region)
	if err != nil {
		log.Fatalf("[local-server] failed to create ec2 client: %v", err)
	}

	handler := control.NewHandler(cfg.InstanceID, ec2Client, log)
	srv := api.NewServer(handler, cfg.ListenAddr, log)

	httpSrv := &http.Server{
		Addr:    srv.Addr(),
		Handler: srv.Handler(),
	}

	go func() {
		log.Printf("[local-server] listening on http://%s instance=%s region=%s", httpSrv.Addr, cfg.InstanceID, cfg.Region)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[local-server] http server failed: %v", err)
		}
	}()

	// shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	log.Printf("[local-server] received %v, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("[local-server] http shutdown error: %v", err)
	}

	log.Printf("[local-server] stopped cleanly")
}
