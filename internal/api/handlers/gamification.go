package handlers

import (
	"errors"
	"strconv"

	"cerfidoc-gamification/internal/models"
	"cerfidoc-gamification/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// GamificationHandler handles HTTP requests for the gamification API
type GamificationHandler struct {
	service   *service.GamificationService
	validator *validator.Validate
}

// NewGamificationHandler creates a new gamification handler
func NewGamificationHandler(service *service.GamificationService) *GamificationHandler {
	return &GamificationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RequireUser extracts the authenticated user ID from the X-User-ID
// header set by the platform's auth layer in front of this service.
func RequireUser(c *fiber.Ctx) error {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
			Error:   "Unauthorized",
			Message: "You must be signed in to use this feature",
		})
	}

	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Invalid user identity",
		})
	}

	c.Locals("userID", uint(userID))
	return c.Next()
}

func currentUser(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// statusForError maps domain errors to HTTP statuses. Anything unknown is
// an internal error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrRewardNotFound),
		errors.Is(err, service.ErrNotRanked):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrAlreadyClaimed):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInsufficientPoints):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *GamificationHandler) domainError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	label := "Request failed"
	if status != fiber.StatusInternalServerError {
		label = "Validation failed"
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Error:   label,
		Message: err.Error(),
	})
}

// GetProfile handles GET /api/gamification/profile
func (h *GamificationHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.service.GetProfile(c.Context(), currentUser(c))
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(profile)
}

// GetBadges handles GET /api/gamification/badges
func (h *GamificationHandler) GetBadges(c *fiber.Ctx) error {
	badges, err := h.service.GetUserBadges(c.Context(), currentUser(c))
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(badges)
}

// GetChallenges handles GET /api/gamification/challenges
func (h *GamificationHandler) GetChallenges(c *fiber.Ctx) error {
	challenges, err := h.service.GetUserChallenges(c.Context(), currentUser(c))
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(challenges)
}

// GetLeaderboard handles GET /api/gamification/leaderboard?period=&limit=
func (h *GamificationHandler) GetLeaderboard(c *fiber.Ctx) error {
	period := c.Query("period", models.PeriodMonthly)
	if !models.ValidPeriod(period) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Invalid leaderboard period",
		})
	}

	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := h.service.GetLeaderboard(c.Context(), period, limit)
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}

// GetMyRank handles GET /api/gamification/my-rank/:period
func (h *GamificationHandler) GetMyRank(c *fiber.Ctx) error {
	period := c.Params("period")
	if !models.ValidPeriod(period) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Validation failed",
			Message: "Invalid leaderboard period",
		})
	}

	position, err := h.service.GetUserPosition(c.Context(), currentUser(c), period)
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(position)
}

// GetRewards handles GET /api/gamification/rewards
func (h *GamificationHandler) GetRewards(c *fiber.Ctx) error {
	rewards, err := h.service.GetAvailableRewards(c.Context(), currentUser(c))
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rewards)
}

// GetUserRewards handles GET /api/gamification/user-rewards
func (h *GamificationHandler) GetUserRewards(c *fiber.Ctx) error {
	claims, err := h.service.GetUserRewards(c.Context(), currentUser(c))
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(claims)
}

// GetActivities handles GET /api/gamification/activities?limit=
func (h *GamificationHandler) GetActivities(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		limit = 20
	}

	activities, err := h.service.GetUserActivities(c.Context(), currentUser(c), limit)
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(activities)
}

// VerifyDocument handles POST /api/gamification/verify-document
func (h *GamificationHandler) VerifyDocument(c *fiber.Ctx) error {
	var req models.VerifyDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	}

	result, err := h.service.VerifyDocument(c.Context(), currentUser(c), req.Code)
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// ClaimReward handles POST /api/gamification/claim-reward
func (h *GamificationHandler) ClaimReward(c *fiber.Ctx) error {
	var req models.ClaimRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	}

	claim, err := h.service.ClaimReward(c.Context(), currentUser(c), req.RewardID)
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(claim)
}

// GetVerificationStats handles GET /api/gamification/verification-stats.
// ?global=true drops the per-user filter (dashboard view).
func (h *GamificationHandler) GetVerificationStats(c *fiber.Ctx) error {
	var userID *uint
	if c.Query("global") != "true" {
		id := currentUser(c)
		userID = &id
	}

	stats, err := h.service.VerificationStats(c.Context(), userID)
	if err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// InitDefaults handles POST /api/gamification/init: loads the default
// challenge/badge/reward catalogs. No-op for non-empty catalogs.
func (h *GamificationHandler) InitDefaults(c *fiber.Ctx) error {
	if err := h.service.SeedDefaults(c.Context()); err != nil {
		return h.domainError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Gamification defaults initialized",
		"success": true,
	})
}

// HealthCheck handles GET /api/gamification/health
func (h *GamificationHandler) HealthCheck(c *fiber.Ctx) error {
	if err := h.service.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error:   "Health check failed",
			Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "healthy",
		"message": "All systems operational",
	})
}
