package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"products/internal/models"
	"products/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// UpdateQtyRequest is the body of a quantity update.
type UpdateQtyRequest struct {
	Qty *int `json:"qty" validate:"required"`
}

// RegisterRoutes registers the product routes. When guard is not nil it runs
// in front of the routes that write.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	write := func(handler fiber.Handler) []fiber.Handler {
		if guard == nil {
			return []fiber.Handler{handler}
		}
		return []fiber.Handler{guard, handler}
	}

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", write(h.HandleAddProduct)...)
	productRoutes.Patch("/:id/qty", write(h.HandleUpdateQty)...)
}

// HandleGetProducts lists all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("Error listing products")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID. An id that is not a
// number is reported like an unknown one.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	rawID := c.Params("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return productNotFound(c, rawID)
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, rawID, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleAddProduct creates a product from a raw record.
func (h *ProductHandler) HandleAddProduct(c *fiber.Ctx) error {
	var rec models.ProductRecord
	if err := c.BodyParser(&rec); err != nil {
		h.log.Debug().Err(err).Msg("Error parsing product body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.AddProduct(c.UserContext(), rec); err != nil {
		rawID := ""
		if rec.ID != nil {
			rawID = strconv.FormatInt(*rec.ID, 10)
		}
		return h.respondError(c, err, rawID, "Could not add product")
	}

	return c.Status(fiber.StatusCreated).JSON(models.Load(rec))
}

// HandleUpdateQty sets the stock quantity of a product.
func (h *ProductHandler) HandleUpdateQty(c *fiber.Ctx) error {
	rawID := c.Params("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return productNotFound(c, rawID)
	}

	var req UpdateQtyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for quantity update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "qty is required for quantity update",
		})
	}

	if err := h.service.UpdateQty(c.UserContext(), id, *req.Qty); err != nil {
		return h.respondError(c, err, rawID, "Could not update product quantity")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %d quantity updated to %d", id, *req.Qty),
	})
}

func (h *ProductHandler) respondError(c *fiber.Ctx, err error, rawID, message string) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return productNotFound(c, rawID)
	case errors.Is(err, services.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	default:
		h.log.Error().Err(err).Str("product_id", rawID).Msg(message)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
}

func productNotFound(c *fiber.Ctx, rawID string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %s not found", rawID),
	})
}
