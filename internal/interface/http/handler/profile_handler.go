package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/mood-backend/internal/domain/repository"
	"github.com/wichananm65/mood-backend/internal/identity"
	"github.com/wichananm65/mood-backend/internal/interface/presenter"
	"github.com/wichananm65/mood-backend/internal/usecase"
)

// ProfileHandler adapts HTTP requests to profile use case calls. Every route
// acts on the profile of the authenticated identity.
type ProfileHandler struct {
	usecase   usecase.ProfileUsecase
	presenter *presenter.ProfilePresenter
	log       *zap.Logger
}

func NewProfileHandler(usecase usecase.ProfileUsecase, presenter *presenter.ProfilePresenter, log *zap.Logger) *ProfileHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileHandler{usecase: usecase, presenter: presenter, log: log}
}

func (h *ProfileHandler) RegisterProtectedRoutes(router fiber.Router) {
	router.Get("/api/v1/profile", h.get)
	router.Patch("/api/v1/profile", h.update)
	router.Post("/api/v1/profile/onboarding/complete", h.completeOnboarding)
}

type profileUpdateRequest struct {
	Email              *string `json:"email,omitempty"`
	OnboardingComplete *bool   `json:"onboardingComplete,omitempty"`
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	subject, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	profile, err := h.usecase.Get(c.UserContext(), subject.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(h.presenter.ToResponse(profile))
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	subject, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	profile, err := h.usecase.Update(c.UserContext(), subject.ID, usecase.UpdateProfileInput{
		Email:              payload.Email,
		OnboardingComplete: payload.OnboardingComplete,
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(h.presenter.ToResponse(profile))
}

func (h *ProfileHandler) completeOnboarding(c *fiber.Ctx) error {
	subject, err := identity.FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	profile, err := h.usecase.CompleteOnboarding(c.UserContext(), subject.ID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(h.presenter.ToResponse(profile))
}

func (h *ProfileHandler) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "profile not found"})
	case errors.Is(err, usecase.ErrInvalidEmail), errors.Is(err, usecase.ErrOnboardingReset), errors.Is(err, usecase.ErrInvalidProfileID):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		h.log.Error("profile request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
	}
}
