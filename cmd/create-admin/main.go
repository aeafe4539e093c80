// Command create-admin adds an administrator account to the store database.
package main

import (
	"LiquorStore/config"
	"LiquorStore/logger"
	"LiquorStore/store"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.Init(cfg.Server.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := config.SetupDatabase(cfg.Database)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accounts := store.NewAccounts(db, []byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL)
	admin, err := accounts.CreateAdmin(ctx, *email, *password)
	if err != nil {
		log.Fatal("create admin", zap.String("email", *email), zap.Error(err))
	}
	log.Info("admin created", zap.String("id", admin.ID), zap.String("email", admin.Email))
}
