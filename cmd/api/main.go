package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/linzhe/interview-forge/internal/bank"
	"github.com/linzhe/interview-forge/internal/config"
	"github.com/linzhe/interview-forge/internal/handler"
	"github.com/linzhe/interview-forge/internal/service/generator"
	"github.com/linzhe/interview-forge/internal/service/resume"
	"github.com/linzhe/interview-forge/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	questionBank, err := loadBank(cfg.Bank)
	if err != nil {
		log.Fatalf("failed to load question bank: %v", err)
	}

	gen := generator.NewService(ctx, questionBank, cfg.AI, generator.Config{
		Cooldown: cfg.Generator.Cooldown,
	})

	store, err := storage.NewEngine(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize question storage: %v", err)
	}

	parser := resume.NewParser(gen)

	router := handler.NewRouter(gen, store, parser)

	startServer(ctx, cfg.Server, router)
}

// loadBank builds the question bank from the built-in seed, or from a YAML
// file when one is configured.
func loadBank(cfg config.BankConfig) (*bank.Bank, error) {
	if cfg.File == "" {
		return bank.New(bank.Seed()), nil
	}
	log.Printf("loading question bank from %s", cfg.File)
	return bank.LoadFile(cfg.File)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("interview-forge API listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
