package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
	"github.com/CoolizzLuo/graphql-demo/internal/config"
	"github.com/CoolizzLuo/graphql-demo/internal/middleware"
	"github.com/CoolizzLuo/graphql-demo/internal/social"
	"github.com/CoolizzLuo/graphql-demo/internal/store"
)

func newStore(ctx context.Context, cfg *config.Config) (store.EntityStore, func(), error) {
	switch cfg.StoreBackend {
	case "memory", "":
		st := store.NewMemoryStore()
		if cfg.SeedDemoData {
			if err := store.SeedDemoData(ctx, st); err != nil {
				return nil, nil, err
			}
		}
		return st, func() {}, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		st := store.NewPostgresStore(pool)
		if err := st.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		return st, pool.Close, nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		st := store.NewMongoStore(client.Database(cfg.MongoDB))
		if err := st.EnsureIndexes(ctx); err != nil {
			client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return st, func() { client.Disconnect(ctx) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if cfg.TokenSecret == "" {
		log.Fatal("TOKEN_SECRET must be set")
	}

	st, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}
	defer closeStore()

	codec := auth.NewJWTCodec(cfg.TokenSecret)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	svc := social.NewService(st, hasher, codec, cfg.TokenTTL)
	handler := social.NewHandler(svc)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", middleware.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Session(codec))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	handler.Routes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s (store: %s)", cfg.Port, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
