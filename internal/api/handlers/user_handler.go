package handlers

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/internal/api/presenters"
	"Markit-Pantry/internal/middleware"
	"Markit-Pantry/pkg/jwt"
	"Markit-Pantry/pkg/user"
	"time"

	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		RegisterForm(c *fiber.Ctx) error
		Register(c *fiber.Ctx) error
		LoginForm(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
	}

	userHandler struct {
		userService  user.UserService
		jwtService   jwt.JWTService
		cookieSecure bool
	}
)

func NewUserHandler(userService user.UserService, jwtService jwt.JWTService, cookieSecure bool) UserHandler {
	return &userHandler{
		userService:  userService,
		jwtService:   jwtService,
		cookieSecure: cookieSecure,
	}
}

func (h *userHandler) RegisterForm(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, domain.RegisterFormFields, fiber.StatusOK, domain.MessageRegisterForm)
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return failure(c, domain.MessageFailedRegister, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRegister)
}

func (h *userHandler) LoginForm(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, domain.LoginFormFields, fiber.StatusOK, domain.MessageLoginForm)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return failure(c, domain.MessageFailedLogin, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwtService.Lifetime()),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

// Logout always succeeds, with or without a session.
func (h *userHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(middleware.LoginPath, fiber.StatusFound)
}
