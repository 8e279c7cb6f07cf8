package main

import (
	"log"

	"support-bridge/internal/core/cache"
	"support-bridge/internal/core/config"
	"support-bridge/internal/core/logger"
	"support-bridge/internal/core/server"
	orderadapter "support-bridge/internal/features/orders/adapters"
	orderhandler "support-bridge/internal/features/orders/handler"
	orderservice "support-bridge/internal/features/orders/service"
	productadapter "support-bridge/internal/features/products/adapters"
	producthandler "support-bridge/internal/features/products/handler"
	productservice "support-bridge/internal/features/products/service"
	ticketadapter "support-bridge/internal/features/tickets/adapters"
	tickethandler "support-bridge/internal/features/tickets/handler"
	ticketservice "support-bridge/internal/features/tickets/service"

	"go.uber.org/zap"
)

// @title Support Bridge API
// @version 1.0
// @description Bridges a conversational commerce bot to the Reamaze help desk and the Shopify storefront.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Optional Redis cache for knowledge base searches
	var kbCache cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisCache.Close()
		kbCache = redisCache
		l.Info("Knowledge base caching enabled")
	}

	// Reamaze support desk
	desk := ticketadapter.NewReamazeDesk(cfg.Reamaze, cfg.HTTP)
	ticketSvc := ticketservice.NewTicketService(desk, kbCache, cfg.Redis.KBCacheTTL())
	ticketHdl := tickethandler.NewTicketHandler(ticketSvc)

	srv := server.New(cfg)

	srv.App.Get("/", tickethandler.Health)
	srv.App.Post("/create-ticket", ticketHdl.Create)
	srv.App.Post("/search-kb", ticketHdl.SearchKB)
	srv.App.Post("/get-instructions", ticketHdl.Instructions)
	srv.App.Post("/get-previous-conversations", ticketHdl.PreviousConversations)
	srv.App.Post("/check-ticket-status", ticketHdl.Status)
	srv.App.Post("/add-ticket-info", ticketHdl.AddInfo)

	// Shopify endpoints mount only when the store is configured
	if cfg.Shopify.Enabled() {
		if err := cfg.Shopify.Validate(); err != nil {
			l.Fatal("Invalid Shopify configuration", zap.Error(err))
		}

		catalog := productadapter.NewShopifyCatalog(cfg.Shopify, cfg.HTTP)
		recommendHdl := producthandler.NewRecommendationHandler(
			productservice.NewRecommendationService(catalog))

		orders := orderadapter.NewShopifyOrders(cfg.Shopify, cfg.HTTP)
		orderHdl := orderhandler.NewOrderHandler(
			orderservice.NewOrderResolver(orders))

		srv.App.Post("/recommend-products", recommendHdl.Recommend)
		srv.App.Post("/track-order", orderHdl.Track)
		srv.App.Get("/list-recent-orders", orderHdl.ListRecent)

		l.Info("Shopify endpoints enabled", zap.String("store", cfg.Shopify.StoreDomain))
	} else {
		l.Warn("Shopify not configured, catalog and order endpoints disabled")
	}

	srv.MountFallback()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
