package engine

import (
	"github.com/Orel-y/U-Schedule/internal/models"
)

// Ledger tracks each instructor's remaining teaching-load capacity. It is
// shared across all course offerings in one catalog snapshot and mutated
// only as a side effect of instructor (re)assignment.
type Ledger struct {
	instructors map[string]*models.Instructor
	order       []string
}

// NewLedger copies the fetched instructor directory into a ledger.
func NewLedger(instructors []models.Instructor) *Ledger {
	l := &Ledger{
		instructors: make(map[string]*models.Instructor, len(instructors)),
		order:       make([]string, 0, len(instructors)),
	}
	for i := range instructors {
		cp := instructors[i]
		l.instructors[cp.ID] = &cp
		l.order = append(l.order, cp.ID)
	}
	return l
}

// Instructor returns the ledger entry for the id.
func (l *Ledger) Instructor(id string) (*models.Instructor, bool) {
	inst, ok := l.instructors[id]
	return inst, ok
}

// Instructors returns entry copies in directory order.
func (l *Ledger) Instructors() []models.Instructor {
	out := make([]models.Instructor, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.instructors[id])
	}
	return out
}

// Debit removes hours from the instructor's remaining load, clamped at zero.
func (l *Ledger) Debit(id string, hours int) {
	if inst, ok := l.instructors[id]; ok {
		inst.RemainingLoad -= hours
		if inst.RemainingLoad < 0 {
			inst.RemainingLoad = 0
		}
	}
}

// Credit returns hours to the instructor's remaining load.
func (l *Ledger) Credit(id string, hours int) {
	if inst, ok := l.instructors[id]; ok {
		inst.RemainingLoad += hours
	}
}
