package models

type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=255"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type AddToBasketRequest struct {
	ProductID   int    `json:"product_id" form:"product_id" binding:"required"`
	Quantity    int    `json:"quantity" form:"quantity" binding:"required,min=1"`
	Description string `json:"description" form:"description"`
}

type CreateProductRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=255"`
	Description string `json:"description" form:"description" binding:"required"`
	Price       *int   `json:"price" form:"price" binding:"required,min=0"`
	Stock       *int   `json:"stock" form:"stock" binding:"required,min=0"`
}

type UpdateProductRequest struct {
	Name        string `json:"name" form:"name" binding:"omitempty,max=255"`
	Description string `json:"description" form:"description"`
	Price       *int   `json:"price" form:"price" binding:"omitempty,min=0"`
	Stock       *int   `json:"stock" form:"stock" binding:"omitempty,min=0"`
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MetaData struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type PaginationResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    MetaData    `json:"meta"`
}
