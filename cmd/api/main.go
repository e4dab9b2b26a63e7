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

	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/handler"
	"github.com/surajkumar989/NeuralSync/internal/service/ai"
	"github.com/surajkumar989/NeuralSync/internal/service/chat"
	"github.com/surajkumar989/NeuralSync/internal/service/stats"
	"github.com/surajkumar989/NeuralSync/internal/store"
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

	turns, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to open conversation store: %v", err)
	}
	defer turns.Close()
	log.Printf("conversation store ready at %s", cfg.Database.Path)

	// Pick the responder: Ark-backed model when credentials are
	// present, echo bot otherwise.
	var responder ai.Responder = ai.NewEchoResponder()
	if cfg.AI.Enabled() {
		llm, err := ai.NewLLMResponder(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI responder: %v", err)
			log.Println("continuing with the echo responder")
		} else {
			responder = llm
			log.Println("AI responder initialized successfully")
		}
	} else {
		log.Println("Ark credentials not configured, using the echo responder")
	}

	chatSvc := chat.NewService(turns, responder)
	statsSvc := stats.NewService(turns)

	router := handler.NewRouter(turns, chatSvc, statsSvc)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("NeuralSync backend listening on %s", addr)
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
