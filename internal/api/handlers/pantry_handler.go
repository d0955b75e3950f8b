package handlers

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/internal/api/presenters"
	"Markit-Pantry/internal/utils"
	"Markit-Pantry/pkg/pantry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PantryHandler interface {
		GetDashboard(c *fiber.Ctx) error
		AddProductForm(c *fiber.Ctx) error
		AddProduct(c *fiber.Ctx) error
		GetProductPage(c *fiber.Ctx) error
		UpdatePantryItem(c *fiber.Ctx) error
		DeletePantryItem(c *fiber.Ctx) error
	}

	pantryHandler struct {
		pantryService pantry.PantryService
		validator     *validator.Validate
	}
)

func NewPantryHandler(pantryService pantry.PantryService, validator *validator.Validate) PantryHandler {
	return &pantryHandler{
		pantryService: pantryService,
		validator:     validator,
	}
}

func (h *pantryHandler) GetDashboard(c *fiber.Ctx) error {
	res, err := h.pantryService.GetDashboard(c.Context(), currentUsername(c))
	if err != nil {
		return failure(c, domain.MessageFailedGetDashboard, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDashboard)
}

func (h *pantryHandler) AddProductForm(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, domain.AddProductFormFields, fiber.StatusOK, domain.MessageAddProductForm)
}

func (h *pantryHandler) AddProduct(c *fiber.Ctx) error {
	req := new(domain.AddProductRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.pantryService.AddProduct(c.Context(), currentUsername(c), *req)
	if err != nil {
		return failure(c, domain.MessageFailedAddProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddProduct)
}

func (h *pantryHandler) GetProductPage(c *fiber.Ctx) error {
	item, err := h.pantryService.GetItem(c.Context(), c.Query("id"))
	if err != nil {
		return failure(c, domain.MessageFailedGetPantryItem, err)
	}

	return presenters.SuccessResponse(c, item, fiber.StatusOK, domain.MessageSuccessGetPantryItem)
}

func (h *pantryHandler) UpdatePantryItem(c *fiber.Ctx) error {
	req := new(domain.UpdatePantryItemRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if image, err := c.FormFile("image"); err == nil {
		req.Image = image
	}

	if err := utils.ValidateStruct(h.validator, req); err != nil {
		return failure(c, domain.MessageFailedUpdatePantryItem, err)
	}

	if err := h.pantryService.UpdateItem(c.Context(), currentUsername(c), c.Params("id"), *req); err != nil {
		return failure(c, domain.MessageFailedUpdatePantryItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUpdatePantryItem)
}

func (h *pantryHandler) DeletePantryItem(c *fiber.Ctx) error {
	if err := h.pantryService.DeleteItem(c.Context(), currentUsername(c), c.Params("id")); err != nil {
		return failure(c, domain.MessageFailedDeletePantryItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeletePantryItem)
}
