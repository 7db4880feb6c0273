package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/okian/gradient/internal/domain/schedule"
)

// ScheduleDependencies defines the interface for schedule optimization.
type ScheduleDependencies interface {
	OptimizeSchedule(ctx context.Context, events []schedule.Event, c schedule.Constraints, p schedule.Preferences) (schedule.Result, error)
}

// eventRequest caps duration at a year; non-positive values are left to the
// optimizer, which reports them as invalid_duration.
type eventRequest struct {
	ID              string     `json:"id" validate:"notblank,max=128"`
	Title           string     `json:"title" validate:"max=256"`
	DurationMinutes int        `json:"duration_minutes" validate:"max=527040"`
	Deadline        *time.Time `json:"deadline"`
	Priority        *int       `json:"priority" validate:"omitempty,min=1"`
}

type slotRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end" validate:"gtfield=Start"`
}

type constraintsRequest struct {
	AvailableSlots []slotRequest `json:"available_slots" validate:"max=1000,dive"`
	SkipWeekends   bool          `json:"skip_weekends"`
}

type preferencesRequest struct {
	MinBreakMinutes *int   `json:"min_break_minutes" validate:"omitempty,min=0,max=1440"`
	PreferredTime   string `json:"preferred_time" validate:"max=32"`
}

// scheduleRequest mirrors the body of POST /v1/schedule. Times are RFC3339.
type scheduleRequest struct {
	Events      []eventRequest     `json:"events" validate:"max=1000,dive"`
	Constraints constraintsRequest `json:"constraints"`
	Preferences preferencesRequest `json:"preferences"`
}

func (s scheduleRequest) domain() ([]schedule.Event, schedule.Constraints, schedule.Preferences) {
	events := make([]schedule.Event, len(s.Events))
	for i, e := range s.Events {
		events[i] = schedule.Event{
			ID:              e.ID,
			Title:           e.Title,
			DurationMinutes: e.DurationMinutes,
			Deadline:        e.Deadline,
			Priority:        e.Priority,
		}
	}
	slots := make([]schedule.TimeSlot, len(s.Constraints.AvailableSlots))
	for i, sl := range s.Constraints.AvailableSlots {
		slots[i] = schedule.TimeSlot{Start: sl.Start, End: sl.End}
	}
	return events,
		schedule.Constraints{AvailableSlots: slots, SkipWeekends: s.Constraints.SkipWeekends},
		schedule.Preferences{MinBreakMinutes: s.Preferences.MinBreakMinutes, PreferredTime: s.Preferences.PreferredTime}
}

// ScheduleHandler handles schedule requests.
type ScheduleHandler struct {
	deps      ScheduleDependencies
	validator *requestValidator
}

// NewScheduleHandler creates a new schedule handler.
func NewScheduleHandler(deps ScheduleDependencies, v *requestValidator) *ScheduleHandler {
	return &ScheduleHandler{deps: deps, validator: v}
}

// HandleOptimize handles POST /v1/schedule requests.
func (h *ScheduleHandler) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scheduleRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	events, constraints, prefs := req.domain()
	res, err := h.deps.OptimizeSchedule(r.Context(), events, constraints, prefs)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidDuration) {
			writeError(w, http.StatusBadRequest, "invalid_duration", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
