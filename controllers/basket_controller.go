package controllers

import (
	"basket-shop/models"
	"basket-shop/repositories"
	"basket-shop/services"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BasketController struct {
	basketService *services.BasketService
}

func NewBasketController(basketService *services.BasketService) *BasketController {
	return &BasketController{basketService: basketService}
}

// currentUserName reads the display name the auth middleware extracted from
// the token. Tokens issued before the name claim existed fall back to the
// email so the basket description is never blank.
func (ctrl *BasketController) currentUserName(c *gin.Context) string {
	if name := c.GetString("user_name"); name != "" {
		return name
	}
	return c.GetString("user_email")
}

// GetBasket godoc
// @Summary Get current user's basket
// @Description Get the authenticated user's basket with items, creating an empty one on first access
// @Tags Basket
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /basket [get]
func (ctrl *BasketController) GetBasket(c *gin.Context) {
	userID := c.GetInt("user_id")

	basket, err := ctrl.basketService.GetBasket(c.Request.Context(), userID, ctrl.currentUserName(c))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to retrieve basket"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Basket retrieved", "data": basket})
}

// AddItem godoc
// @Summary Add item to basket
// @Description Add a product to the basket, merging quantities if the product is already present
// @Tags Basket
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddToBasketRequest true "Add to Basket Request"
// @Success 201 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /basket/items [post]
func (ctrl *BasketController) AddItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.AddToBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(422, gin.H{"success": false, "message": "Invalid request", "error": err.Error()})
		return
	}

	item, err := ctrl.basketService.AddItem(c.Request.Context(), userID, ctrl.currentUserName(c), req)
	if err != nil {
		var stockErr *repositories.InsufficientStockError
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		case errors.As(err, &stockErr):
			c.JSON(422, gin.H{"success": false, "message": stockErr.Error()})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to add item to basket"})
		}
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "Item added to basket", "data": item})
}

// RemoveItem godoc
// @Summary Remove item from basket
// @Description Remove a basket item owned by the authenticated user
// @Tags Basket
// @Security BearerAuth
// @Produce json
// @Param id path int true "Basket Item ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /basket/items/{id} [delete]
func (ctrl *BasketController) RemoveItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	itemID, err := strconv.Atoi(c.Param("id"))
	if err != nil || itemID <= 0 {
		c.JSON(404, gin.H{"success": false, "message": "Basket item not found"})
		return
	}

	err = ctrl.basketService.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrItemNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Basket item not found"})
		case errors.Is(err, repositories.ErrNotBasketOwner):
			c.JSON(403, gin.H{"success": false, "message": "Unauthorized"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to remove basket item"})
		}
		return
	}

	c.Status(204)
}
