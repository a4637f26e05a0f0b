package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "paya-bnpl-backend/internal/adapter/http"
	"paya-bnpl-backend/internal/adapter/middleware"
	"paya-bnpl-backend/internal/adapter/repository/mysql"
	"paya-bnpl-backend/internal/config"
	"paya-bnpl-backend/internal/infrastructure/cache"
	"paya-bnpl-backend/internal/infrastructure/db"
	orderUC "paya-bnpl-backend/internal/usecase/order"
	policyUC "paya-bnpl-backend/internal/usecase/policy"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	orders := mysql.NewOrderRepository(gdb)
	policies := mysql.NewPolicyRepository(gdb)
	applicants := mysql.NewApplicantRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	orderUsecase := orderUC.NewUsecase(orders, applicants, uow)
	policyUsecase := policyUC.NewUsecase(policies, uow)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := policyUsecase.EnsureDefault(ctx); err != nil {
		log.Fatalf("seed underwriting policy: %v", err)
	}

	h := httpadp.NewHandler()
	orderHandler := httpadp.NewOrderHandler(orderUsecase)
	policyHandler := httpadp.NewPolicyHandler(policyUsecase)
	uwHandler := httpadp.NewUnderwritingHandler(policyUsecase)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/orders", orderHandler.CreateOrder, idemp)
	e.GET("/orders/:order_id", orderHandler.GetOrder)
	e.PATCH("/orders/:order_id/status", orderHandler.TransitionOrder, idemp)
	e.POST("/orders/:order_id/status/override", orderHandler.OverrideOrderStatus, idemp)
	e.POST("/orders/:order_id/payments", orderHandler.RecordPayment, idemp)
	e.GET("/customers/:customer_id/orders", orderHandler.ListOrders)

	e.GET("/underwriting/policy", policyHandler.GetPolicy)
	e.GET("/underwriting/policy/versions", policyHandler.ListPolicyVersions)
	e.PUT("/underwriting/policy", policyHandler.UpdatePolicy, idemp)
	e.POST("/underwriting/evaluate", uwHandler.EvaluateApplicant)
	e.POST("/finance/terms", uwHandler.QuoteTerms)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
