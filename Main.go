package main

import (
	"LiquorStore/config"
	"LiquorStore/events"
	"LiquorStore/logger"
	"LiquorStore/routers"
	"LiquorStore/session"
	"LiquorStore/store"
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const producerName = "liquorstore"

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("load config: " + err.Error())
	}

	log, err := logger.Init(cfg.Server.LogMode)
	if err != nil {
		panic("init logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := config.SetupDatabase(cfg.Database)
	if err != nil {
		log.Fatal("connect database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb, err := config.SetupRedisConnection(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, catalog cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher events.Publisher = events.Nop{}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, producerName, cfg.Kafka.Buffer)
		kafkaPublisher.Start()
		publisher = kafkaPublisher
	}

	accounts := store.NewAccounts(db, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	if n, err := accounts.PurgeExpiredTokens(context.Background()); err != nil {
		log.Warn("purge expired login tokens", zap.Error(err))
	} else if n > 0 {
		log.Info("purged expired login tokens", zap.Int64("count", n))
	}

	router := routers.SetupRouters(cfg, routers.Services{
		DB:      db,
		Catalog: store.NewCatalog(db, rdb, cfg.Redis.CacheTTL),
		Cart: store.NewCart(db, store.CartOptions{
			MaxQuantity:     cfg.Cart.MaxQuantity,
			MergeDuplicates: cfg.Cart.MergeDuplicates,
		}, publisher),
		Admin:    store.NewAdmin(db, rdb, publisher),
		Accounts: accounts,
		Sessions: session.NewProvider(cfg.Storefront.SessionCookie, cfg.Storefront.SessionMaxAge, cfg.Storefront.SecureCookie),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	if kafkaPublisher != nil {
		kafkaPublisher.Close()
		kafkaPublisher.WaitClosed()
	}
}
