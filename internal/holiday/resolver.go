// Package holiday answers whether a calendar date is blocked for a batch and
// by which holiday record, applying scope precedence: a batch-scoped holiday
// shadows a department-scoped one, which shadows a global one.
package holiday

import (
	"fmt"
	"time"
)

// Scope identifies how widely a holiday applies.
type Scope string

const (
	// ScopeGlobal blocks the date for every batch.
	ScopeGlobal Scope = "global"
	// ScopeDepartment blocks the date for batches of one department.
	ScopeDepartment Scope = "department"
	// ScopeBatch blocks the date for a single batch.
	ScopeBatch Scope = "batch"
)

// ParseScope maps a wire value onto a Scope.
func ParseScope(value string) (Scope, error) {
	switch Scope(value) {
	case ScopeGlobal, ScopeDepartment, ScopeBatch:
		return Scope(value), nil
	default:
		return "", fmt.Errorf("holiday: unknown scope %q", value)
	}
}

// Holiday is a single calendar entry. ScopeID carries the department or batch
// the entry is bound to; it is empty for global holidays.
type Holiday struct {
	ID          string
	Date        time.Time
	Name        string
	Description string
	Scope       Scope
	ScopeID     string
}

// Calendar is a read-only snapshot of holiday records indexed by date,
// typically pre-fetched once per scheduling request to avoid a store query
// per candidate date.
type Calendar struct {
	byDate map[string][]Holiday
}

// NewCalendar indexes the provided records. The slice is not retained.
func NewCalendar(holidays []Holiday) *Calendar {
	byDate := make(map[string][]Holiday, len(holidays))
	for _, h := range holidays {
		key := dateKey(h.Date)
		byDate[key] = append(byDate[key], h)
	}
	return &Calendar{byDate: byDate}
}

// Resolve returns the holiday governing the date for the given batch, or nil
// when the date is not blocked. Candidates are matched most specific first:
// exactly the batch, then exactly the batch's department, then global.
func (c *Calendar) Resolve(date time.Time, departmentID, batchID string) *Holiday {
	if c == nil {
		return nil
	}
	candidates := c.byDate[dateKey(date)]
	if len(candidates) == 0 {
		return nil
	}

	if batchID != "" {
		if h := match(candidates, ScopeBatch, batchID); h != nil {
			return h
		}
	}
	if departmentID != "" {
		if h := match(candidates, ScopeDepartment, departmentID); h != nil {
			return h
		}
	}
	return match(candidates, ScopeGlobal, "")
}

func match(candidates []Holiday, scope Scope, scopeID string) *Holiday {
	for _, h := range candidates {
		if h.Scope != scope {
			continue
		}
		if scope != ScopeGlobal && h.ScopeID != scopeID {
			continue
		}
		found := h
		return &found
	}
	return nil
}

func dateKey(date time.Time) string {
	return date.Format(time.DateOnly)
}
