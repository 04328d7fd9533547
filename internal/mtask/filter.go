package mtask

import (
	"strings"
	"time"

	"kyri56xcaesar/abac-front/internal/utils"
)

// Filter narrows a task list locally. Start and End are inclusive day bounds on the due date.
// While either bound is set, tasks without a readable due date are left out.
type Filter struct {
	Status Status
	Start  time.Time
	End    time.Time
}

// ParseFilter reads query values; empty strings leave that predicate off.
func ParseFilter(status, start, end string) (Filter, error) {
	var f Filter

	if s := Status(strings.TrimSpace(status)); s != "" {
		if !validStatus(s) {
			return Filter{}, utils.NewValidation("status", "unknown status %q", s)
		}
		f.Status = s
	}
	if strings.TrimSpace(start) != "" {
		t, err := utils.ParseDay(start)
		if err != nil {
			return Filter{}, utils.NewValidation("start", "invalid date %q", start)
		}
		f.Start = t
	}
	if strings.TrimSpace(end) != "" {
		t, err := utils.ParseDay(end)
		if err != nil {
			return Filter{}, utils.NewValidation("end", "invalid date %q", end)
		}
		f.End = t
	}
	if !f.Start.IsZero() && !f.End.IsZero() && f.Start.After(f.End) {
		return Filter{}, utils.NewValidation("start", "start date is after end date")
	}

	return f, nil
}

func (f Filter) IsZero() bool {
	return f.Status == "" && !f.hasRange()
}

func (f Filter) hasRange() bool {
	return !f.Start.IsZero() || !f.End.IsZero()
}

func (f Filter) Match(t Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if !f.hasRange() {
		return true
	}

	due, err := utils.ParseDay(t.DueDate)
	if err != nil {
		return false
	}
	if !f.Start.IsZero() && due.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && due.After(f.End) {
		return false
	}

	return true
}

func (f Filter) Apply(tasks []Task) []Task {
	if f.IsZero() {
		return append([]Task(nil), tasks...)
	}

	return utils.Filter(tasks, f.Match)
}

// StartValue and EndValue render the bounds back into date inputs.
func (f Filter) StartValue() string { return dayValue(f.Start) }

func (f Filter) EndValue() string { return dayValue(f.End) }

func dayValue(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(utils.DayFormat)
}
