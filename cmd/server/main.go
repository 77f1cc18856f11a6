package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LifeXP-create/LifeXP/internal/config"
	"github.com/LifeXP-create/LifeXP/internal/quest"
	"github.com/LifeXP-create/LifeXP/internal/serverapp"
	"github.com/LifeXP-create/LifeXP/internal/state"
	"github.com/LifeXP-create/LifeXP/internal/store"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to lifexp.yml (optional)")
	flag.Parse()

	logger := log.Default()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}
	cfg = config.FromEnv(cfg)

	st, err := store.Open(cfg.Server.DataDir, cfg.Persistence.Debounce, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Printf("close store: %v", err)
		}
	}()

	var gen quest.Generator
	var helper serverapp.QuestHelper
	if cfg.Generator.BaseURL != "" {
		httpGen := quest.NewHTTPGenerator(cfg.Generator.BaseURL)
		httpGen.Timeout = cfg.Generator.Timeout
		gen = httpGen

		help := quest.NewHelpClient(cfg.Generator.BaseURL)
		help.Timeout = cfg.Generator.Timeout
		helper = help
	}

	reconciler := quest.NewReconciler(gen)
	reconciler.CompletionXP = cfg.Leveling.XPPerCompletion
	reconciler.LikeStep = cfg.Quests.LikeStep
	reconciler.HardStep = cfg.Quests.HardStep

	svc := state.NewService(st.Load(), state.Options{
		Store:      st,
		Reconciler: reconciler,
		Logger:     logger,
	})

	handler, err := serverapp.NewHandler(serverapp.Options{
		Service: svc,
		Help:    helper,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatalf("build server: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Print("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("shutdown: %v", err)
	}
}
