package main

import (
	"log"

	"github.com/joho/godotenv"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"
)

func main() {
	//.envは任意（本番は環境変数直接）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderLine{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartLineRepo := infraRepo.NewCartLineGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authValidator := validator.NewAuthValidator(userRepo)
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, authValidator)
	productUC := usecase.NewProductUsecase(productRepo, txManager)
	cartUC := usecase.NewCartUsecase(cartLineRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager)
	orderUC := usecase.NewOrderUsecase(txManager)

	//Handler生成
	handlers := server.Handlers{
		Auth:          handler.NewAuthHandler(authUC, cfg),
		Product:       handler.NewProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		Order:         handler.NewOrderHandler(orderUC),
		AdminProduct:  handler.NewAdminProductHandler(productUC),
		AdminOrder:    handler.NewAdminOrderHandler(orderUC),
		AdminUser:     handler.NewAdminUserHandler(authUC),
		AdminAuditLog: handler.NewAdminAuditLogHandler(productUC),
	}

	//Server起動
	addr := ":" + cfg.Port

	if err := server.Start(addr, cfg, userRepo, handlers); err != nil {
		log.Fatalf("server: %v", err)
	}
}
