package app

import (
	"strings"

	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
	"github.com/yungbote/pukpuk-backend/internal/services"
)

type Services struct {
	Identity services.IdentityVerifier
	Demands  services.DemandService
	Products services.ProductService
	Admin    services.AdminService
	Transfer services.TransferService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients) Services {
	log.Info("Wiring services...")

	if strings.TrimSpace(cfg.FirebaseProjectID) == "" {
		log.Warn("FIREBASE_PROJECT_ID not set; every bearer token will be rejected", "project_id", services.InertProjectID)
	}
	log.Info("Firebase credentials",
		"project_id", cfg.FirebaseProjectID,
		"service_account_configured", cfg.FirebaseClientEmail != "" && cfg.FirebasePrivateKey != "",
		"admin_uids", len(cfg.AdminUIDList()),
	)

	identity := services.NewFirebaseVerifier(services.FirebaseConfig{
		ProjectID:   cfg.FirebaseProjectID,
		ClientEmail: cfg.FirebaseClientEmail,
		PrivateKey:  cfg.FirebasePrivateKey,
		JWKSURL:     cfg.FirebaseJWKSURL,
		AdminUIDs:   cfg.AdminUIDList(),
	}, log)

	cache := clients.ProductCache
	return Services{
		Identity: identity,
		Demands:  services.NewDemandService(log, reposet.Demand, reposet.Metadata, cache),
		Products: services.NewProductService(log, reposet.Demand, reposet.Metadata, cache),
		Admin:    services.NewAdminService(log, reposet.Demand, reposet.Metadata, cache),
		Transfer: services.NewTransferService(log, reposet.Demand, reposet.Metadata, cache),
	}
}
