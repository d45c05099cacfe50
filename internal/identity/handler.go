package identity

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/mood-backend/internal/interface/presenter"
	"github.com/wichananm65/mood-backend/internal/usecase"
)

// profileSetupWarning is shown when authentication succeeded but the profile
// could not be bootstrapped. The session continues.
const profileSetupWarning = "There was an issue setting up your profile. Please try again or contact support if the problem persists."

type Handler struct {
	service   *Service
	tokens    *TokenIssuer
	profiles  usecase.ProfileBootstrapper
	presenter *presenter.ProfilePresenter
	log       *zap.Logger
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FullName        string `json:"fullName"`
}

type sessionResponse struct {
	Token        string                     `json:"token,omitempty"`
	ExpiresAt    *time.Time                 `json:"expiresAt,omitempty"`
	Identity     *Identity                  `json:"identity,omitempty"`
	Profile      *presenter.ProfileResponse `json:"profile"`
	ProfileReady bool                       `json:"profileReady"`
	Warning      string                     `json:"warning,omitempty"`
}

func NewHandler(service *Service, tokens *TokenIssuer, profiles usecase.ProfileBootstrapper, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service:   service,
		tokens:    tokens,
		profiles:  profiles,
		presenter: presenter.NewProfilePresenter(),
		log:       log,
	}
}

func (h *Handler) RegisterPublicRoutes(router fiber.Router) {
	router.Post("/api/v1/sign-up", h.signUp)
	router.Post("/api/v1/sign-in", h.signIn)
}

func (h *Handler) RegisterProtectedRoutes(router fiber.Router) {
	router.Post("/api/v1/session/bootstrap", h.bootstrap)
}

func (h *Handler) signUp(c *fiber.Ctx) error {
	payload := new(signUpRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ConfirmPassword != "" && payload.ConfirmPassword != payload.Password {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Passwords do not match"})
	}

	identity, err := h.service.Register(c.UserContext(), payload.Email, payload.Password, payload.FullName)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrWeakPassword), errors.Is(err, ErrFullNameRequired):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			h.log.Error("sign-up failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to create account"})
		}
	}

	resp, err := h.newSession(c.UserContext(), identity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Please fill in all fields"})
	}

	identity, err := h.service.Authenticate(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
		}
		h.log.Error("sign-in failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "sign-in unavailable"})
	}

	resp, err := h.newSession(c.UserContext(), identity)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.JSON(resp)
}

// bootstrap ensures a profile exists for the identity in the verified token.
// Tokens issued by an external provider land here directly.
func (h *Handler) bootstrap(c *fiber.Ctx) error {
	subject, err := FromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(h.bootstrapProfile(c.UserContext(), subject))
}

func (h *Handler) newSession(ctx context.Context, identity Identity) (sessionResponse, error) {
	token, expires, err := h.tokens.Issue(identity)
	if err != nil {
		h.log.Error("token signing failed", zap.String("identity_id", identity.ID), zap.Error(err))
		return sessionResponse{}, err
	}

	resp := h.bootstrapProfile(ctx, Subject{ID: identity.ID, Email: identity.Email})
	resp.Token = token
	resp.ExpiresAt = &expires
	resp.Identity = &identity
	return resp, nil
}

// bootstrapProfile never fails the request: authentication has already
// succeeded, so a bootstrap error only downgrades the session.
func (h *Handler) bootstrapProfile(ctx context.Context, subject Subject) sessionResponse {
	res, err := h.profiles.Bootstrap(ctx, usecase.BootstrapInput{IdentityID: subject.ID, Email: subject.Email})
	if err != nil {
		h.log.Warn("continuing session without profile",
			zap.String("identity_id", subject.ID),
			zap.Error(err),
		)
		return sessionResponse{ProfileReady: false, Warning: profileSetupWarning}
	}
	return sessionResponse{Profile: h.presenter.ToResponse(res.Profile), ProfileReady: true}
}
