package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hivesocial/moderation-backend/internal/dto"
	"github.com/hivesocial/moderation-backend/internal/middleware"
	"github.com/hivesocial/moderation-backend/internal/moderation"
	"github.com/hivesocial/moderation-backend/internal/notify"
	"github.com/hivesocial/moderation-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// failClosedMessage is what callers see when a moderation decision could not
// be durably recorded. Content is never allowed through unverified.
const failClosedMessage = "content could not be verified, please retry"

type ModerationHandler struct {
	engine   *moderation.Engine
	store    *store.Service
	gate     moderation.SuspensionGate
	notifier notify.Notifier
}

func NewModerationHandler(engine *moderation.Engine, recordStore *store.Service) *ModerationHandler {
	return &ModerationHandler{engine: engine, store: recordStore}
}

// SetGate attaches the fast suspension lookup used to reject submissions
// from suspended users before scanning.
func (h *ModerationHandler) SetGate(gate moderation.SuspensionGate) {
	h.gate = gate
}

// SetNotifier attaches the account-action notifier.
func (h *ModerationHandler) SetNotifier(n notify.Notifier) {
	h.notifier = n
}

// Scan moderates one unit of submitted content for the authenticated user.
func (h *ModerationHandler) Scan(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	uid := userID.String()

	if h.gate != nil {
		suspended, err := h.gate.IsSuspended(c.Context(), uid)
		if err != nil {
			slog.Error("suspension gate check failed", "user_id", uid, "error", err.Error())
		} else if suspended {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account is suspended",
			})
		}
	}

	result, err := h.engine.ScanContent(c.Context(), uid, req.Content)
	if err != nil {
		if errors.Is(err, moderation.ErrContentTooLarge) {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{
				Error: true, Message: "Content exceeds the maximum length",
			})
		}
		if result == nil {
			// Strike path persistence failed: the decision was computed but
			// not recorded, so the submission must not proceed.
			slog.Error("moderation scan failed", "user_id", uid, "action", "scan", "error", err.Error())
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: failClosedMessage,
			})
		}
		// Non-strike warning append failed; fail open but keep the trace.
		slog.Error("warning persistence failed", "user_id", uid, "action", "scan", "error", err.Error())
	}

	if result.ActionTaken == moderation.ActionRestriction || result.ActionTaken == moderation.ActionSuspension {
		h.notifyAction(uid, middleware.UserEmail(c), result)
	}

	return c.JSON(result)
}

// Me returns the authenticated user's moderation record and histories. The
// expiry sweep runs first so a lapsed restriction is already lifted in the
// response (the sweep is triggered on profile load, not by a scheduler).
func (h *ModerationHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return h.recordResponse(c, userID.String(), true)
}

// Guidelines serves the policy document, thresholds and catalog summary.
func (h *ModerationHandler) Guidelines(c *fiber.Ctx) error {
	policy := h.engine.Policy()
	return c.JSON(dto.GuidelinesResponse{
		Document: moderation.GuidelinesDocument,
		Thresholds: dto.ThresholdsResponse{
			Warning:          policy.WarningThreshold,
			Restriction:      policy.RestrictionThreshold,
			Suspension:       policy.SuspensionThreshold,
			StrikeCapPerScan: policy.StrikeCap,
			RestrictionDays:  policy.RestrictionDays,
			SuspensionDays:   policy.SuspensionDays,
		},
		Categories: h.engine.Catalog().Summary(),
	})
}

// ListRecords pages over all moderation records (admin).
func (h *ModerationHandler) ListRecords(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit > 100 {
		limit = 100
	}

	records, total, err := h.store.ListRecords(c.Context(), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch moderation records",
		})
	}

	return c.JSON(fiber.Map{
		"records": records,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetRecord returns one user's record and full histories (admin).
func (h *ModerationHandler) GetRecord(c *fiber.Ctx) error {
	return h.recordResponse(c, c.Params("id"), false)
}

// Sweep runs the expiry sweep over every flagged record (admin).
func (h *ModerationHandler) Sweep(c *fiber.Ctx) error {
	changed, err := h.engine.SweepAll(c.Context())
	if err != nil {
		slog.Error("bulk expiry sweep failed", "action", "sweep", "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Sweep failed",
		})
	}
	return c.JSON(dto.SweepResponse{Changed: changed})
}

func (h *ModerationHandler) recordResponse(c *fiber.Ctx, userID string, sweep bool) error {
	ctx := c.Context()

	if sweep {
		if _, err := h.engine.SweepExpired(ctx, userID); err != nil {
			slog.Error("expiry sweep failed", "user_id", userID, "action", "sweep", "error", err.Error())
		}
	}

	record, err := h.store.Get(ctx, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load moderation record",
		})
	}
	strikes, err := h.store.StrikeHistory(ctx, userID, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load strike history",
		})
	}
	warnings, err := h.store.WarningHistory(ctx, userID, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load warning history",
		})
	}

	return c.JSON(dto.RecordResponse{
		Record:   record,
		Strikes:  strikes,
		Warnings: warnings,
	})
}

func (h *ModerationHandler) notifyAction(userID, email string, result *moderation.Result) {
	if h.notifier == nil {
		return
	}
	ev := notify.Event{
		UserID:       userID,
		Email:        email,
		Action:       string(result.ActionTaken),
		TotalStrikes: result.TotalStrikes,
		Violations:   moderation.Descriptions(result.Violations),
		OccurredAt:   time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.notifier.Notify(ctx, ev); err != nil {
			slog.Error("account action notification failed",
				"user_id", userID, "action", ev.Action, "error", err.Error())
		}
	}()
}
