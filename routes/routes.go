package routes

import (
	"basket-shop/controllers"
	"basket-shop/middleware"
	"basket-shop/models"
	"basket-shop/repositories"
	"basket-shop/services"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	emailService, err := models.NewEmailService()
	if err != nil {
		log.Println("Email service disabled:", err)
		emailService = nil
	}

	basketRepo := repositories.NewBasketRepository(models.DB)
	basketService := services.NewBasketService(basketRepo)

	authCtrl := &controllers.AuthController{}
	productCtrl := controllers.NewProductController(emailService)
	basketCtrl := controllers.NewBasketController(basketService)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.POST("/auth/register", authCtrl.Register)
	router.POST("/auth/login", authCtrl.Login)
	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)

	auth := router.Group("/")
	auth.Use(middleware.AuthMiddleware())
	{
		auth.GET("/auth/profile", authCtrl.GetProfile)

		auth.GET("/basket", basketCtrl.GetBasket)
		auth.POST("/basket/items", basketCtrl.AddItem)
		auth.DELETE("/basket/items/:id", basketCtrl.RemoveItem)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.POST("/products", productCtrl.CreateProduct)
		admin.PATCH("/products/:id", productCtrl.UpdateProduct)
		admin.DELETE("/products/:id", productCtrl.DeleteProduct)
	}
}
