package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/puzzleduel-go/internal/api/request"
	"github.com/mcoot/puzzleduel-go/internal/api/response"
	"github.com/mcoot/puzzleduel-go/internal/model"
	"github.com/mcoot/puzzleduel-go/internal/services/leaderboard"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	service *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(service *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Submit handles POST /api/v1/leaderboard
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if strings.TrimSpace(req.DisplayName) == "" {
		WriteError(w, NewInvalidRequestError("display_name is required"))
		return
	}
	if req.Score < 0 {
		WriteError(w, NewInvalidRequestError("score must not be negative"))
		return
	}
	if req.ElapsedSeconds < 0 {
		WriteError(w, NewInvalidRequestError("elapsed_seconds must not be negative"))
		return
	}

	entry, err := h.service.Record(r.Context(), strings.TrimSpace(req.DisplayName), req.Score, req.ElapsedSeconds)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.LeaderboardEntryFromModel(entry))
}

// List handles GET /api/v1/leaderboard
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	sort, err := model.ParseLeaderboardSort(r.URL.Query().Get("sort"))
	if err != nil {
		WriteError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			WriteError(w, NewInvalidRequestError("limit must be an integer"))
			return
		}
	}

	entries, err := h.service.Top(r.Context(), sort, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(sort, entries))
}
