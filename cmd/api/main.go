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

	"github.com/luokai/emberroom/backend/internal/clock"
	"github.com/luokai/emberroom/backend/internal/config"
	"github.com/luokai/emberroom/backend/internal/handler"
	roomhandler "github.com/luokai/emberroom/backend/internal/handler/room"
	roommodel "github.com/luokai/emberroom/backend/internal/model/room"
	"github.com/luokai/emberroom/backend/internal/service/ai"
	roomservice "github.com/luokai/emberroom/backend/internal/service/room"
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

	clk := clock.System()
	store := roommodel.NewStore(clk)
	hub := roomhandler.NewHub()

	summarizer, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize summarization service: %v", err)
	}
	log.Println("summarization service initialized successfully")

	svc := roomservice.New(store, hub, summarizer, roomservice.Config{
		MaxMessages:     cfg.Room.MaxMessages,
		MaxMessageChars: cfg.Room.MaxMessageChars,
		CloseGraceDelay: cfg.Room.CloseGraceDelay,
	}, clk)

	reaper := roomservice.NewReaper(store, cfg.Room.ReapInterval, cfg.Room.IdleTimeout, clk)
	go reaper.Run(ctx)

	router := handler.NewRouter(store, svc, hub)

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

	log.Printf("Emberroom backend listening on %s", addr)
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
