package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
	"github.com/whendid/whendid/internal/repositories"
	"github.com/whendid/whendid/internal/utils"
)

type eventInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// fetchOwnedEvent loads the event addressed by the {id} path value and checks
// it belongs to the user. On failure the response has already been written.
func fetchOwnedEvent(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Event, bool) {
	event, err := repositories.GetEventByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, common.ErrNotFound) {
		utils.ErrorResponse(w, http.StatusNotFound, "Event not found")
		return nil, false
	}
	if err != nil {
		serverError(w, "Failed to load event", err)
		return nil, false
	}
	if event.UserID != user.ID {
		utils.ErrorResponse(w, http.StatusForbidden, "No permission")
		return nil, false
	}
	return event, true
}

// EventsIndex godoc
// @Summary List or create events
// @Description GET returns the caller's events, most recently updated first. POST creates a new event.
// @Tags Events
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/events [get]
func EventsIndex(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		listEvents(w, r, user)
	case http.MethodPost:
		createEvent(w, r, user)
	default:
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listEvents(w http.ResponseWriter, r *http.Request, user *models.User) {
	events, err := repositories.GetEventsByUserID(r.Context(), user.ID)
	if err != nil {
		serverError(w, "Failed to load events", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

func createEvent(w http.ResponseWriter, r *http.Request, user *models.User) {
	var input eventInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Event name is required")
		return
	}

	now := time.Now()
	event := &models.Event{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repositories.CreateEvent(r.Context(), event); err != nil {
		serverError(w, "Failed to create event", err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, map[string]any{
		"success": true,
		"event":   event,
	})
}

// GET, PUT or DELETE /api/v1/events/{id}
func EventByID(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	event, ok := fetchOwnedEvent(w, r, user)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		utils.JSONResponse(w, http.StatusOK, map[string]any{
			"event": event,
		})
	case http.MethodPut:
		updateEvent(w, r, event)
	case http.MethodDelete:
		deleteEvent(w, r, event)
	default:
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func updateEvent(w http.ResponseWriter, r *http.Request, event *models.Event) {
	var input eventInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.ErrorResponse(w, http.StatusBadRequest, "Event name is required")
		return
	}

	event.Name = name
	event.Description = strings.TrimSpace(input.Description)
	event.UpdatedAt = time.Now()
	if err := repositories.UpdateEvent(r.Context(), event); err != nil {
		serverError(w, "Failed to update event", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"event":   event,
	})
}

func deleteEvent(w http.ResponseWriter, r *http.Request, event *models.Event) {
	if err := repositories.DeleteEvent(r.Context(), event.ID, event.UserID); err != nil {
		serverError(w, "Failed to delete event", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

// EventOccurrences godoc
// @Summary List or log occurrences of an event
// @Description GET returns the event's occurrences, newest first, optionally narrowed to an inclusive startDate..endDate range. POST logs a new occurrence with a partial timestamp.
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD), inclusive"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id}/occurrences [get]
func EventOccurrences(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	event, ok := fetchOwnedEvent(w, r, user)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		listOccurrences(w, r, event)
	case http.MethodPost:
		createOccurrence(w, r, user, event)
	default:
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func listOccurrences(w http.ResponseWriter, r *http.Request, event *models.Event) {
	occurrences, err := repositories.GetOccurrencesByEventID(r.Context(), event.ID)
	if err != nil {
		serverError(w, "Failed to load occurrences", err)
		return
	}

	// The range filter only kicks in when both bounds are given.
	startStr := r.URL.Query().Get("startDate")
	endStr := r.URL.Query().Get("endDate")
	if startStr != "" && endStr != "" {
		start, err := time.ParseInLocation("2006-01-02", startStr, time.Local)
		if err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
			return
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, time.Local)
		if err != nil {
			utils.ErrorResponse(w, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD")
			return
		}
		occurrences = models.FilterByDateRange(occurrences, start, end)
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"occurrences": occurrences,
		"total":       len(occurrences),
	})
}

func createOccurrence(w http.ResponseWriter, r *http.Request, user *models.User, event *models.Event) {
	var input occurrenceInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := input.Validate(); err != nil {
		writeValidationError(w, err)
		return
	}

	now := time.Now()
	occ := &models.Occurrence{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		UserID:      user.ID,
		PartialTime: input.PartialTime,
		Note:        strings.TrimSpace(input.Note),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repositories.CreateOccurrence(r.Context(), occ); err != nil {
		serverError(w, "Failed to create occurrence", err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, map[string]any{
		"success":    true,
		"occurrence": occ,
	})
}
