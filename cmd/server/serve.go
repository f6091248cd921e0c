package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oatsaysai/letters-to-kopi/internal/assist"
	"github.com/oatsaysai/letters-to-kopi/internal/config"
	"github.com/oatsaysai/letters-to-kopi/internal/db"
	"github.com/oatsaysai/letters-to-kopi/internal/session"
	"github.com/oatsaysai/letters-to-kopi/internal/store"
	"github.com/oatsaysai/letters-to-kopi/internal/web"
	"github.com/oatsaysai/letters-to-kopi/pkg/genai"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web API",
	Long: `Start the letters web API.

Examples:
  kopi serve
  kopi serve --config /etc/kopi/config.yaml
  KOPI_SERVER_PORT=9000 kopi serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	v := config.New()
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}
	defer kv.Close()
	log.Printf("Storage initialized: %s", cfg.Storage.Driver)

	st := store.New(kv)
	st.Load(ctx)
	log.Printf("Loaded %d letters and %d menu items", len(st.Letters()), len(st.Menu()))

	client := genai.NewClient(cfg.GenAI.ApiUrl, cfg.GenAI.Model, config.APIKey(v))
	if cfg.GenAI.ApiKey == "" {
		log.Println("Warning: no generative text API key set; assist calls will return placeholders")
	}
	log.Printf("GenAI client initialized with API URL: %s, model: %s", cfg.GenAI.ApiUrl, cfg.GenAI.Model)

	server := web.NewServer(
		st,
		session.NewGate(cfg.Auth.CreatorSecret, cfg.Auth.RecipientSecret),
		session.NewManager(cfg.Session.IdleTimeout),
		assist.New(client, cfg.GenAI.Timeout),
		web.Options{
			PublicURL:    cfg.Server.PublicURL,
			ErrorDisplay: cfg.Session.ErrorDisplay,
			Mode:         cfg.Server.Mode,
		},
	)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Letters to Kopi is now serving on %s (%s)", httpServer.Addr, cfg.Server.PublicURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Received termination signal, shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
