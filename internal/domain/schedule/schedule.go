// Package schedule places prioritized study events into free time slots.
//
// Placement is greedy: events are visited from most to least urgent and each
// takes the best-scoring slot still able to hold it. Events that fit nowhere
// are left out of the result.
package schedule

import (
	"fmt"
	"math"
	"sort"
	"time"

	types "github.com/okian/gradient/internal/domain/types"
)

// Defaults.
const (
	DefaultPriority      = 5
	DefaultMinBreak      = 15 * time.Minute
	DefaultPreferredTime = PreferMorning
	GridDays             = 7
)

// Preferred times of day.
const (
	PreferMorning   = "morning"
	PreferAfternoon = "afternoon"
	PreferEvening   = "evening"
)

// Slot scoring weights.
const (
	urgentPriority  = 3
	urgentBonus     = 10
	maxLeadBonus    = 5
	preferenceBonus = 5
)

// Event is a piece of work to place. A nil Priority means DefaultPriority;
// lower values are more urgent.
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Priority        *int       `json:"priority,omitempty"`
}

func (e Event) priority() int {
	if e.Priority == nil {
		return DefaultPriority
	}
	return *e.Priority
}

func (e Event) duration() time.Duration {
	return minutes(e.DurationMinutes)
}

// minutes converts n minutes to a Duration, saturating instead of wrapping
// past the largest representable Duration.
func minutes(n int) time.Duration {
	if int64(n) > math.MaxInt64/int64(time.Minute) {
		return math.MaxInt64
	}
	return time.Duration(n) * time.Minute
}

// TimeSlot is a free interval.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Constraints bound where events may go. With no AvailableSlots a grid of
// weekday working hours for the next GridDays days is used.
type Constraints struct {
	AvailableSlots []TimeSlot `json:"available_slots,omitempty"`
	SkipWeekends   bool       `json:"skip_weekends,omitempty"`
}

// Preferences tune slot choice. Nil or empty fields take the optimizer's
// defaults.
type Preferences struct {
	MinBreakMinutes *int   `json:"min_break_minutes,omitempty"`
	PreferredTime   string `json:"preferred_time,omitempty"`
}

// ScheduledEvent is an event pinned to a time.
type ScheduledEvent struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Result is the outcome of Optimize.
type Result struct {
	Status types.Status     `json:"status"`
	Events []ScheduledEvent `json:"events"`
}

// Optimizer is stateless apart from its clock and defaults; it is safe for
// concurrent use.
type Optimizer struct {
	now           func() time.Time
	minBreak      time.Duration
	preferredTime string
}

// Option applies a configuration option to an Optimizer.
type Option func(*Optimizer)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMinBreak sets the break used when Preferences leave it unset.
func WithMinBreak(d time.Duration) Option {
	return func(o *Optimizer) {
		if d >= 0 {
			o.minBreak = d
		}
	}
}

// WithPreferredTime sets the time of day used when Preferences leave it unset.
func WithPreferredTime(p string) Option {
	return func(o *Optimizer) {
		if p != "" {
			o.preferredTime = p
		}
	}
}

// NewOptimizer creates an optimizer.
func NewOptimizer(opts ...Option) *Optimizer {
	o := &Optimizer{
		now:           time.Now,
		minBreak:      DefaultMinBreak,
		preferredTime: DefaultPreferredTime,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Optimize places events into slots. It fails only when an event has no
// positive duration, in which case nothing is scheduled. The caller's slots
// are never modified.
func (o *Optimizer) Optimize(events []Event, c Constraints, p Preferences) (res Result, err error) {
	for _, e := range events {
		if e.DurationMinutes <= 0 {
			return Result{Status: types.StatusFailed, Events: []ScheduledEvent{}},
				fmt.Errorf("event %q: %w", e.ID, ErrInvalidDuration)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = Result{Status: types.StatusFailed, Events: []ScheduledEvent{}}, nil
		}
	}()

	now := o.now()
	minBreak := o.minBreak
	if p.MinBreakMinutes != nil && *p.MinBreakMinutes >= 0 {
		minBreak = minutes(*p.MinBreakMinutes)
	}
	preferred := o.preferredTime
	if p.PreferredTime != "" {
		preferred = p.PreferredTime
	}

	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		return urgentFirst(ordered[i], ordered[j])
	})

	var slots []TimeSlot
	if len(c.AvailableSlots) > 0 {
		slots = append(slots, c.AvailableSlots...)
	} else {
		slots = DefaultGrid(now, c.SkipWeekends)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	scheduled := []ScheduledEvent{}
	for _, e := range ordered {
		best := bestSlot(slots, e, now, preferred)
		if best < 0 {
			continue
		}
		slot := &slots[best]
		start := slot.Start
		end := start.Add(e.duration())
		scheduled = append(scheduled, ScheduledEvent{
			ID:              e.ID,
			Title:           e.Title,
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: e.DurationMinutes,
		})

		if next := end.Add(minBreak); next.Before(slot.End) {
			slot.Start = next
		} else {
			slots = append(slots[:best], slots[best+1:]...)
		}
	}

	return Result{Status: types.StatusOK, Events: scheduled}, nil
}

// urgentFirst orders by priority, then earliest deadline, with missing
// deadlines last.
func urgentFirst(a, b Event) bool {
	if pa, pb := a.priority(), b.priority(); pa != pb {
		return pa < pb
	}
	switch {
	case a.Deadline == nil:
		return false
	case b.Deadline == nil:
		return true
	}
	return a.Deadline.Before(*b.Deadline)
}

// bestSlot returns the index of the highest scoring slot that can hold e, or
// -1. The earliest slot wins a tie.
func bestSlot(slots []TimeSlot, e Event, now time.Time, preferred string) int {
	best, bestScore := -1, -1
	for i, s := range slots {
		if s.End.Before(now) {
			continue
		}
		if e.Deadline != nil && s.Start.After(*e.Deadline) {
			continue
		}
		if s.End.Sub(s.Start) < e.duration() {
			continue
		}
		if score := slotScore(s, e, preferred); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func slotScore(s TimeSlot, e Event, preferred string) int {
	score := 0
	if e.Deadline != nil {
		days := int(e.Deadline.Sub(s.Start) / (24 * time.Hour))
		if e.priority() <= urgentPriority {
			if days <= 1 {
				score += urgentBonus
			}
		} else {
			score += min(maxLeadBonus, days)
		}
	}
	if InPreferredBand(s.Start.Hour(), preferred) {
		score += preferenceBonus
	}
	return score
}

// InPreferredBand reports whether hour falls in the preferred time of day:
// morning 5-12, afternoon after 12 up to 17, evening after 17 up to 22.
// Unknown preferences match nothing.
func InPreferredBand(hour int, preferred string) bool {
	switch preferred {
	case PreferMorning:
		return hour >= 5 && hour <= 12
	case PreferAfternoon:
		return hour > 12 && hour <= 17
	case PreferEvening:
		return hour > 17 && hour <= 22
	}
	return false
}

// DefaultGrid builds 09:00-12:00 and 13:00-17:00 slots for GridDays days
// starting at midnight of now's day, in now's location.
func DefaultGrid(now time.Time, skipWeekends bool) []TimeSlot {
	y, m, d := now.Date()
	loc := now.Location()
	slots := make([]TimeSlot, 0, GridDays*2)
	for day := 0; day < GridDays; day++ {
		date := time.Date(y, m, d+day, 0, 0, 0, 0, loc)
		if skipWeekends && (date.Weekday() == time.Saturday || date.Weekday() == time.Sunday) {
			continue
		}
		slots = append(slots,
			TimeSlot{Start: at(date, 9), End: at(date, 12)},
			TimeSlot{Start: at(date, 13), End: at(date, 17)},
		)
	}
	return slots
}

func at(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}
