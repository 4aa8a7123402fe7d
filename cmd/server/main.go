package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"authflow/internal/auth"
	"authflow/internal/config"
	"authflow/internal/database"
	"authflow/internal/email"
	"authflow/internal/logging"
	redisx "authflow/internal/redis"
	"authflow/internal/server"
)

const maxLogFileBytes = 10 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		w, err := logging.NewRotatingFileWriter(cfg.LogFile, maxLogFileBytes)
		if err != nil {
			log.Fatalf("log setup error: %v", err)
		}
		defer w.Close()
		logOutput = io.MultiWriter(os.Stdout, w)
	}
	log.SetOutput(logOutput)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lshortfile)

	var store auth.AccountStore
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database error: %v", err)
		}
		defer db.Close()
		store = auth.NewPostgresStore(db)
	} else {
		log.Printf("DATABASE_URL not set; using in-memory account store")
		store = auth.NewMemoryStore()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := email.NewSender(cfg.Email)
	var queue email.Queue
	if cfg.RedisURL != "" {
		client, err := redisx.New(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		defer client.Close()
		rq := email.NewRedisQueue(client, "", sender)
		go rq.Run(ctx)
		queue = rq
	} else {
		mq := email.NewMemoryQueue(sender, 128)
		go mq.Run(ctx)
		queue = mq
	}

	hasher := auth.NewBcryptHasher()
	sessions := auth.NewSessionIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)
	lifecycle := auth.NewLifecycle(store, hasher, sessions, queue, cfg.BaseURL, cfg.OTPTTL)

	api := server.NewServer(cfg, lifecycle, sessions)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.Router(),
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	log.Printf("Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
