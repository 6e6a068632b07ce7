package main

import (
	"fmt"
	"os"

	"github.com/jojimjohn/pbm-contracts/internal/auth"
	"github.com/jojimjohn/pbm-contracts/internal/config"
	"github.com/jojimjohn/pbm-contracts/internal/db"
	"github.com/jojimjohn/pbm-contracts/internal/excel"
	httphandler "github.com/jojimjohn/pbm-contracts/internal/http"
	"github.com/jojimjohn/pbm-contracts/internal/http/middleware"
	"github.com/jojimjohn/pbm-contracts/internal/logger"
	"github.com/jojimjohn/pbm-contracts/internal/pdf"
	"github.com/jojimjohn/pbm-contracts/internal/repository"
	"github.com/jojimjohn/pbm-contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	contractRepo := repository.NewContractRepository(database)
	supplierRepo := repository.NewSupplierRepository(database)
	materialRepo := repository.NewMaterialRepository(database)

	contractService := service.NewContractService(
		contractRepo,
		supplierRepo,
		materialRepo,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		cfg,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
