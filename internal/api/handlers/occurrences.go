package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/whendid/whendid/internal/common"
	"github.com/whendid/whendid/internal/models"
	"github.com/whendid/whendid/internal/repositories"
	"github.com/whendid/whendid/internal/utils"
)

// occurrenceInput is the create/update body. Update is a full replace: a time
// field omitted here is absent on the stored record afterwards, not carried
// over.
type occurrenceInput struct {
	models.PartialTime
	Note string `json:"note"`
}

func writeValidationError(w http.ResponseWriter, err error) {
	var fieldErr *common.InvalidFieldError
	switch {
	case errors.Is(err, common.ErrEmptyTimestamp):
		utils.ErrorResponse(w, http.StatusBadRequest, "At least one time field is required")
	case errors.As(err, &fieldErr):
		utils.ErrorResponse(w, http.StatusBadRequest, fieldErr.Error())
	default:
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
	}
}

// fetchOwnedOccurrence loads the occurrence addressed by the {id} path value
// and checks ownership. On failure the response has already been written.
func fetchOwnedOccurrence(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Occurrence, bool) {
	occ, err := repositories.GetOccurrenceByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, common.ErrNotFound) {
		utils.ErrorResponse(w, http.StatusNotFound, "Occurrence not found")
		return nil, false
	}
	if err != nil {
		serverError(w, "Failed to load occurrence", err)
		return nil, false
	}
	if occ.UserID != user.ID {
		utils.ErrorResponse(w, http.StatusForbidden, "No permission")
		return nil, false
	}
	return occ, true
}

// OccurrenceByID godoc
// @Summary Fetch, replace or delete an occurrence
// @Description PUT replaces the full set of time fields and the note; it does not patch individual fields and cannot move the occurrence to another event.
// @Tags Occurrences
// @Accept json
// @Produce json
// @Param id path string true "Occurrence id"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/occurrences/{id} [get]
func OccurrenceByID(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		respondAuthError(w, err)
		return
	}

	occ, ok := fetchOwnedOccurrence(w, r, user)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		utils.JSONResponse(w, http.StatusOK, map[string]any{
			"occurrence": occ,
		})
	case http.MethodPut:
		updateOccurrence(w, r, occ)
	case http.MethodDelete:
		deleteOccurrence(w, r, occ)
	default:
		utils.ErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func updateOccurrence(w http.ResponseWriter, r *http.Request, occ *models.Occurrence) {
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

	occ.PartialTime = input.PartialTime
	occ.Note = strings.TrimSpace(input.Note)
	occ.UpdatedAt = time.Now()
	if err := repositories.UpdateOccurrence(r.Context(), occ); err != nil {
		serverError(w, "Failed to update occurrence", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success":    true,
		"occurrence": occ,
	})
}

func deleteOccurrence(w http.ResponseWriter, r *http.Request, occ *models.Occurrence) {
	if err := repositories.DeleteOccurrence(r.Context(), occ.ID, occ.EventID); err != nil {
		serverError(w, "Failed to delete occurrence", err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
	})
}
