package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"kassa-system/config"
	"kassa-system/internal/auth"
	"kassa-system/internal/catalog"
	"kassa-system/internal/database"
	"kassa-system/internal/handlers"
	"kassa-system/internal/middleware"
	"kassa-system/internal/register"
	"kassa-system/internal/sales"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.NewConnection(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}
	if err := database.MigrateRegisterDB(db); err != nil {
		log.Fatalf("Failed to migrate register database: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	productRepo := catalog.NewProductRepo(db, redisClient)
	discountRepo := catalog.NewDiscountRepo(db, redisClient)
	salesRepo := sales.NewRepo(db)

	store := register.NewActiveSaleStore(db)
	engine := register.NewCheckoutEngine(db)
	registerService := register.NewService(store, engine, productRepo, discountRepo, salesRepo, redisClient)

	authHandler := handlers.NewAuthHandler(db, tokens)
	registerHandler := handlers.NewRegisterHandler(registerService)
	productHandler := handlers.NewProductHandler(productRepo)
	discountHandler := handlers.NewDiscountHandler(discountRepo)
	salesHandler := handlers.NewSalesHandler(salesRepo, registerService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/api/v1/auth/login", authHandler.Login)

	api := r.Group("/api/v1")
	api.Use(middleware.JWTAuth(tokens))
	{
		reg := api.Group("/register")
		{
			reg.GET("/cart", registerHandler.GetCart)
			reg.PUT("/cart", registerHandler.UpdateCart)
			reg.DELETE("/cart/:id", registerHandler.Clear)
			reg.POST("/totals", registerHandler.ComputeTotals)
			reg.POST("/hold", registerHandler.PutOnHold)
			reg.POST("/resume/:id", registerHandler.Resume)
			reg.GET("/held", registerHandler.ListHeld)
			reg.POST("/checkout", registerHandler.Checkout)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.GET("/scan/:barcode", productHandler.Scan)
		}

		salesGroup := api.Group("/sales")
		{
			salesGroup.GET("", salesHandler.List)
			salesGroup.GET("/:id", salesHandler.Get)
			salesGroup.POST("/:id/return", salesHandler.CreateReturn)
		}

		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/auth/register", authHandler.RegisterUser)

			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id", productHandler.Update)
			admin.DELETE("/products/:id", productHandler.Delete)

			admin.GET("/discounts", discountHandler.List)
			admin.POST("/discounts", discountHandler.Create)
			admin.PUT("/discounts/:id", discountHandler.Update)
			admin.DELETE("/discounts/:id", discountHandler.Delete)

			admin.GET("/reports/daily", salesHandler.DailySummary)
		}
	}

	log.Printf("Kassa register listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
