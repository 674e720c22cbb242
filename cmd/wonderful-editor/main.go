package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryota-okonogi/wonderful-editor/internal/config"
	articlehandler "github.com/ryota-okonogi/wonderful-editor/internal/http-server/handlers/article"
	authhandler "github.com/ryota-okonogi/wonderful-editor/internal/http-server/handlers/auth"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/logger"
	"github.com/ryota-okonogi/wonderful-editor/internal/lib/logger/sl"
	articleservice "github.com/ryota-okonogi/wonderful-editor/internal/service/article"
	userservice "github.com/ryota-okonogi/wonderful-editor/internal/service/user"
	"github.com/ryota-okonogi/wonderful-editor/internal/storage/sqlite"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
)

func main() {
	routes := flag.Bool("routes", false, "generate router documentation")

	cfg := config.MustLoad()

	log := logger.New(cfg.Env)

	log.Debug("initializing server...", slog.String("addr", cfg.Address))

	// Init storage
	storage, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("error opening storage", sl.Error(err))
		return
	}

	// Init service layer
	usrService := userservice.New(log, storage, cfg.TokenTTL)
	artService := articleservice.New(log, storage)

	// Handlers and middleware
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// Init handlers
	auth := authhandler.New(log, usrService, cfg.Secret)
	art := articlehandler.New(log, artService, cfg.Secret)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", auth.Register())
		r.Route("/articles", art.Register())
		r.Route("/current", art.RegisterCurrent())
	})

	if *routes {
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/ryota-okonogi/wonderful-editor",
			Intro:       "wonderful-editor API routes.",
		}))
		return
	}

	srv := http.Server{
		Handler:      r,
		Addr:         cfg.Address,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	log.Debug("server initialized")
	log.Info("server is running...")

	// Gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Error("error starting server", sl.Error(err))
		}
	}()

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	srv.Shutdown(ctx)

	log.Info("server stopped")
}
