package main

import (
	"anbsupport/app/api"
	"anbsupport/app/client/llm"
	"anbsupport/app/config"
	"anbsupport/app/service/admin"
	"anbsupport/app/service/catalog"
	"anbsupport/app/service/chat"
	"anbsupport/app/service/notify"
	"anbsupport/app/service/scheduler"
	"anbsupport/app/service/state"
	"anbsupport/app/util/mylog"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, llm.New)
	do.Provide(di, state.New)
	do.Provide(di, catalog.New)
	do.Provide(di, notify.New)
	do.Provide(di, chat.New)
	do.Provide(di, admin.New)
	do.Provide(di, scheduler.New)
	do.Provide(di, api.New)

	server := do.MustInvoke[*api.Server](di)

	slog.Info("Service started",
		"port", cfg.Server.Port,
		"llm_provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
	)

	g, ctx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		do.MustInvoke[*scheduler.Service](di).Run(ctx)
		return nil
	})

	g.Go(func() error {
		do.MustInvoke[*notify.Service](di).Run(ctx)
		return nil
	})

	g.Go(func() error {
		return server.Run(ctx)
	})

	if err = g.Wait(); err != nil {
		slog.Error("Service stopped with error", "error", err)
	}

	log.Info("Shutting down...")
}
