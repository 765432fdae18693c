package main

import (
	"basket-shop/config"
	"basket-shop/models"
	"basket-shop/repositories"
	"basket-shop/services"
	"context"
	"flag"
	"log"
	"os"
)

// Clears baskets inactive for 24 hours; with -notify, first warns owners of
// baskets inactive for 23 hours. Meant to be invoked by an external
// scheduler (the notify run about an hour before the clearing run) which
// guarantees runs do not overlap.
func main() {
	notify := flag.Bool("notify", false, "Send notifications to users before clearing")
	flag.Parse()

	config.LoadConfig()

	models.InitDB()
	defer models.CloseDB()

	var notifier services.Notifier
	emailService, err := models.NewEmailService()
	if err != nil {
		log.Println("Email service disabled:", err)
	} else {
		notifier = emailService
	}

	basketRepo := repositories.NewBasketRepository(models.DB)
	cleanup := services.NewBasketCleanupService(basketRepo, notifier)

	if err := cleanup.Run(context.Background(), *notify); err != nil {
		log.Println("Basket cleanup failed:", err)
		os.Exit(1)
	}
}
