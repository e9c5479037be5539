// Package plan holds the yearly Bible reading plan: a fixed mapping from
// day-of-year to the scripture passages scheduled for that day. The plan is
// loaded once at startup and never mutated, so lookups are safe from any
// goroutine.
package plan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/reckel-jm/telegram-biblereadingschedulebot/assets"
)

const (
	// MaxDay is the largest valid day-of-year. Plans usually cover 365
	// days; day 366 of a leap year falls back to the last entry.
	MaxDay = 366

	lastPlannedDay = 365
)

// ErrDayOutOfRange is returned for lookups outside [1, MaxDay]. A correct
// caller derives the day from a real calendar date, so seeing this error
// means a bug upstream, not bad user input.
var ErrDayOutOfRange = errors.New("day of year out of range")

// Entry is one day's scheduled readings.
type Entry struct {
	DayOfYear int
	OT        string // Old Testament passage, e.g. "Genesis 1-3"
	NT        string // New Testament passage, e.g. "Matthew 1"
}

// References returns the day's passages as display strings, Old Testament
// first. Either testament may be absent on a given day.
func (e Entry) References() []string {
	var refs []string
	if e.OT != "" {
		refs = append(refs, "OT: "+e.OT)
	}
	if e.NT != "" {
		refs = append(refs, "NT: "+e.NT)
	}
	return refs
}

// Plan maps day-of-year to readings. Immutable after load.
type Plan struct {
	entries map[int]Entry
}

// References returns the passages for the given day-of-year. Day 366 falls
// back to day 365 when the plan has no explicit entry for it.
func (p *Plan) References(dayOfYear int) ([]string, error) {
	e, err := p.Entry(dayOfYear)
	if err != nil {
		return nil, err
	}
	return e.References(), nil
}

// Entry returns the full plan entry for the given day-of-year, applying the
// same day-366 fallback as References.
func (p *Plan) Entry(dayOfYear int) (Entry, error) {
	if dayOfYear < 1 || dayOfYear > MaxDay {
		return Entry{}, fmt.Errorf("%w: %d", ErrDayOutOfRange, dayOfYear)
	}
	if e, ok := p.entries[dayOfYear]; ok {
		return e, nil
	}
	if dayOfYear == MaxDay {
		if e, ok := p.entries[lastPlannedDay]; ok {
			return e, nil
		}
	}
	// Plans may legitimately have gaps when loaded from a user file.
	return Entry{DayOfYear: dayOfYear}, nil
}

// Len reports how many days the plan explicitly covers.
func (p *Plan) Len() int { return len(p.entries) }

// Load parses a plan from CSV rows of the form "day,ot,nt". A header row is
// tolerated. Duplicate days are an error; gaps are allowed.
func Load(r io.Reader) (*Plan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	entries := make(map[int]Entry)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("plan line %d: %w", line, err)
		}
		day, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("plan line %d: bad day %q", line, rec[0])
		}
		if day < 1 || day > MaxDay {
			return nil, fmt.Errorf("plan line %d: %w: %d", line, ErrDayOutOfRange, day)
		}
		if _, dup := entries[day]; dup {
			return nil, fmt.Errorf("plan line %d: duplicate day %d", line, day)
		}
		entries[day] = Entry{
			DayOfYear: day,
			OT:        strings.TrimSpace(rec[1]),
			NT:        strings.TrimSpace(rec[2]),
		}
	}
	if len(entries) == 0 {
		return nil, errors.New("plan is empty")
	}
	return &Plan{entries: entries}, nil
}

// LoadFile loads a plan from a CSV file on disk.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// LoadDefault loads the embedded whole-Bible plan.
func LoadDefault() (*Plan, error) {
	f, err := assets.PlanFS.Open(assets.DefaultPlanName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
