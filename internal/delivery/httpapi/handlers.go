package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"slfo/internal/application"
	"slfo/internal/models"
)

type Handlers struct {
	links    application.LinkService
	commands application.CommandService
	profiles application.ProfileService
}

func NewHandlers(links application.LinkService, commands application.CommandService, profiles application.ProfileService) *Handlers {
	return &Handlers{
		links:    links,
		commands: commands,
		profiles: profiles,
	}
}

type linkConfirmRequest struct {
	Code           string `json:"code"`
	RobloxUserID   int64  `json:"roblox_user_id"`
	RobloxUsername string `json:"roblox_username"`
}

func (h *Handlers) LinkConfirm(c *gin.Context) {
	var req linkConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	_, err := h.links.Redeem(c.Request.Context(), req.Code, req.RobloxUserID, req.RobloxUsername)
	switch {
	case err == nil:
		result(c, http.StatusOK, "")
	case errors.Is(err, application.ErrMissingCode):
		fail(c, http.StatusBadRequest, ErrCodeMissingCode, "missing code")
	case errors.Is(err, application.ErrInvalidRobloxID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, application.ErrInvalidCode):
		result(c, http.StatusOK, resultInvalidCode)
	case errors.Is(err, application.ErrAlreadyLinkedDiscord):
		result(c, http.StatusOK, resultAlreadyLinkedDiscord)
	case errors.Is(err, application.ErrAlreadyLinkedRoblox):
		result(c, http.StatusOK, resultAlreadyLinkedRoblox)
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to confirm link")
	}
}

type profileUpdateRequest struct {
	RobloxUserID   int64            `json:"roblox_user_id"`
	RobloxUsername string           `json:"roblox_username"`
	Points         int64            `json:"points"`
	Bank           int64            `json:"bank"`
	Tickets        int64            `json:"tickets"`
	Kills          int64            `json:"kills"`
	RobuxDonated   int64            `json:"robux_donated"`
	Swords         map[string]int64 `json:"swords"`
	VIP            bool             `json:"vip"`
	Beta           bool             `json:"beta"`
}

func (r profileUpdateRequest) snapshot() models.ProfileSnapshot {
	return models.ProfileSnapshot{
		RobloxID:       r.RobloxUserID,
		RobloxUsername: r.RobloxUsername,
		Stats: map[string]int64{
			models.StatPoints:       r.Points,
			models.StatBank:         r.Bank,
			models.StatTickets:      r.Tickets,
			models.StatKills:        r.Kills,
			models.StatRobuxDonated: r.RobuxDonated,
		},
		Items: r.Swords,
		VIP:   r.VIP,
		Beta:  r.Beta,
	}
}

func (h *Handlers) ProfileUpdate(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	err := h.profiles.Save(c.Request.Context(), req.snapshot())
	switch {
	case err == nil:
		result(c, http.StatusOK, "")
	case errors.Is(err, application.ErrInvalidRobloxID):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to save profile")
	}
}

type pulledAction struct {
	ID           int64  `json:"id"`
	RobloxUserID int64  `json:"roblox_user_id"`
	Action       string `json:"action"`
	Amount       int64  `json:"amount"`
	QueuedAt     int64  `json:"queued_at"`
}

func (h *Handlers) PullActions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	cmds, err := h.commands.Pull(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to pull actions")
		return
	}

	actions := make([]pulledAction, 0, len(cmds))
	for _, cmd := range cmds {
		actions = append(actions, pulledAction{
			ID:           cmd.ID,
			RobloxUserID: cmd.TargetID,
			Action:       string(cmd.Kind),
			Amount:       cmd.Amount,
			QueuedAt:     cmd.QueuedAt.Unix(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "actions": actions})
}

type ackRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handlers) AckActions(c *gin.Context) {
	var req ackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	if err := h.commands.Ack(c.Request.Context(), req.IDs); err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to ack actions")
		return
	}
	result(c, http.StatusOK, "")
}

type reportRequest struct {
	ActionID       int64  `json:"action_id"`
	Success        bool   `json:"success"`
	ResultText     string `json:"result_text"`
	RobloxUserID   int64  `json:"roblox_user_id"`
	RobloxUsername string `json:"roblox_username"`
	Action         string `json:"action"`
	Amount         int64  `json:"amount"`
}

func (h *Handlers) ReportAction(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	_, err := h.commands.Report(c.Request.Context(), models.CommandReport{
		ID:             req.ActionID,
		Success:        req.Success,
		ResultText:     req.ResultText,
		TargetID:       req.RobloxUserID,
		TargetUsername: req.RobloxUsername,
		Kind:           req.Action,
		Amount:         req.Amount,
	})
	switch {
	case err == nil:
		result(c, http.StatusOK, "")
	case errors.Is(err, application.ErrCommandNotFound):
		// Unknown ids are acknowledged and dropped.
		result(c, http.StatusOK, "")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "failed to report action")
	}
}
