package main

import (
	"fmt"
	"log"

	"patrimon/internal/config"
	"patrimon/internal/handler"
	"patrimon/internal/repository/postgres"
	"patrimon/internal/router"
	"patrimon/internal/service"
	s3storage "patrimon/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	networkRepo := postgres.NewNetworkRepo(db)
	masterRepo := postgres.NewMasterFileRepo(db)
	reportRepo := postgres.NewAuditReportRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	networkSvc := service.NewNetworkService(networkRepo, userRepo, authSvc)
	masterSvc := service.NewMasterService(masterRepo, s3Client, cfg.S3)
	auditSvc := service.NewAuditService(networkRepo, reportRepo, masterSvc, s3Client, cfg)
	reportSvc := service.NewReportService(reportRepo, networkRepo, s3Client, cfg.S3)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	networkH := handler.NewNetworkHandler(networkSvc)
	masterH := handler.NewMasterHandler(masterSvc)
	auditH := handler.NewAuditHandler(auditSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, networkH, masterH, auditH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
