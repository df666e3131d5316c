package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/house-help/backend/internal/autosync"
	"github.com/house-help/backend/internal/config"
	"github.com/house-help/backend/internal/models"
	"github.com/house-help/backend/internal/remote"
	"github.com/house-help/backend/internal/router"
	"github.com/house-help/backend/internal/share"
	"github.com/house-help/backend/internal/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A .env file is optional, variables from the environment win anyway
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Create the directory the database lives in
	err = os.MkdirAll(filepath.Dir(cfg.Database.DSN), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate the schema
	err = models.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	ledgerStore := store.New()

	// Without a configured remote, the reconciler still serves sync status,
	// it just never has anything to push to
	var blobStore remote.BlobStore
	if cfg.Sync.Enabled {
		blobStore = remote.NewHTTPBlobStore(cfg.Sync.URL, cfg.Sync.Token)
	}

	reconciler := autosync.New(ledgerStore, blobStore, time.Duration(cfg.Sync.DebounceMS)*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sync.Enabled {
		go reconciler.Run(ctx)
	}

	shareLinks := share.NewRegistry(cfg.Share.BaseURL, cfg.Share.DefaultValidityDays)

	r, err := router.Router(cfg, ledgerStore, reconciler, shareLinks)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	if err := r.Run(addr); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
