// Package period tracks menstrual cycles and symptoms and projects the next
// cycle from the average interval between recorded start dates.
package period

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// DateLayout is the layout of every stored date.
const DateLayout = "2006-01-02"

const (
	day = 24 * time.Hour

	// defaultPeriodDays is assumed when a cycle has no end date.
	defaultPeriodDays = 5
	lutealDays        = 14
	predictedWindow   = 7 * day
	fertileWindow     = 3 * day
)

// Flows in display order.
var Flows = []string{"light", "medium", "heavy"}

// SymptomType is a symptom kind with its display label.
type SymptomType struct {
	Value string
	Label string
}

// SymptomTypes in display order.
var SymptomTypes = []SymptomType{
	{"cramps", "Cramps"},
	{"headache", "Headache"},
	{"mood", "Mood Changes"},
	{"bloating", "Bloating"},
	{"fatigue", "Fatigue"},
}

// Severities in display order.
var Severities = []string{"mild", "moderate", "severe"}

// ErrStartRequired is returned when a cycle has no start date.
var ErrStartRequired = errors.New("period: start date is required")

// Prediction is the projected next cycle.
type Prediction struct {
	NextStart     time.Time
	Fertile       time.Time
	AverageLength int // days
}

// Predict averages the floored day gaps between consecutive start dates in
// recorded order and projects the next start from the last one. It needs at
// least two cycles with parseable start dates.
func Predict(cycles []store.Cycle) (Prediction, bool) {
	starts := make([]time.Time, 0, len(cycles))
	for _, c := range cycles {
		if t, err := parseDate(c.StartDate); err == nil {
			starts = append(starts, t)
		}
	}
	if len(starts) < 2 {
		return Prediction{}, false
	}
	total := 0
	for i := 1; i < len(starts); i++ {
		total += int(math.Floor(starts[i].Sub(starts[i-1]).Hours() / 24))
	}
	avg := float64(total) / float64(len(starts)-1)
	length := int(math.Floor(avg + 0.5))

	next := starts[len(starts)-1].AddDate(0, 0, length)
	return Prediction{
		NextStart:     next,
		Fertile:       next.AddDate(0, 0, -lutealDays),
		AverageLength: length,
	}, true
}

// CycleDraft is the user-editable part of a cycle.
type CycleDraft struct {
	StartDate string
	EndDate   string
	Flow      string
	Symptoms  []string
}

// NewCycle validates d. Flow defaults to medium.
func NewCycle(d CycleDraft, now time.Time) (store.Cycle, error) {
	d.StartDate = strings.TrimSpace(d.StartDate)
	d.EndDate = strings.TrimSpace(d.EndDate)
	if d.StartDate == "" {
		return store.Cycle{}, ErrStartRequired
	}
	start, err := parseDate(d.StartDate)
	if err != nil {
		return store.Cycle{}, fmt.Errorf("period: start date %q: want YYYY-MM-DD", d.StartDate)
	}
	if d.EndDate != "" {
		end, err := parseDate(d.EndDate)
		if err != nil {
			return store.Cycle{}, fmt.Errorf("period: end date %q: want YYYY-MM-DD", d.EndDate)
		}
		if end.Before(start) {
			return store.Cycle{}, fmt.Errorf("period: end date %s is before start date %s", d.EndDate, d.StartDate)
		}
	}
	if d.Flow == "" {
		d.Flow = "medium"
	}
	if !slices.Contains(Flows, d.Flow) {
		return store.Cycle{}, fmt.Errorf("period: unknown flow %q", d.Flow)
	}
	symptoms := []string{}
	for _, sym := range d.Symptoms {
		if !isSymptomType(sym) {
			return store.Cycle{}, fmt.Errorf("period: unknown symptom %q", sym)
		}
		symptoms = append(symptoms, sym)
	}
	return store.Cycle{
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Flow:      d.Flow,
		Symptoms:  symptoms,
		CreatedAt: now,
	}, nil
}

// AddCycle validates d and stores the cycle.
func AddCycle(s *store.Store, d CycleDraft, now time.Time) (store.Cycle, error) {
	c, err := NewCycle(d, now)
	if err != nil {
		return store.Cycle{}, err
	}
	return store.AddItem(s, store.Cycles, c)
}

// SymptomDraft is the user-editable part of a symptom.
type SymptomDraft struct {
	Date     string
	Type     string
	Severity string
	Notes    string
}

// NewSymptom validates d. Date defaults to today, type to cramps and severity
// to mild.
func NewSymptom(d SymptomDraft, now time.Time) (store.Symptom, error) {
	if d.Date == "" {
		d.Date = now.Format(DateLayout)
	}
	if _, err := parseDate(d.Date); err != nil {
		return store.Symptom{}, fmt.Errorf("period: symptom date %q: want YYYY-MM-DD", d.Date)
	}
	if d.Type == "" {
		d.Type = "cramps"
	}
	if !isSymptomType(d.Type) {
		return store.Symptom{}, fmt.Errorf("period: unknown symptom %q", d.Type)
	}
	if d.Severity == "" {
		d.Severity = "mild"
	}
	if !slices.Contains(Severities, d.Severity) {
		return store.Symptom{}, fmt.Errorf("period: unknown severity %q", d.Severity)
	}
	return store.Symptom{
		Date:      d.Date,
		Type:      d.Type,
		Severity:  d.Severity,
		Notes:     strings.TrimSpace(d.Notes),
		CreatedAt: now,
	}, nil
}

// AddSymptom validates d and stores the symptom.
func AddSymptom(s *store.Store, d SymptomDraft, now time.Time) (store.Symptom, error) {
	sym, err := NewSymptom(d, now)
	if err != nil {
		return store.Symptom{}, err
	}
	return store.AddItem(s, store.Symptoms, sym)
}

// SymptomCount is the number of logged symptoms of one type.
type SymptomCount struct {
	SymptomType
	Count int
}

// SymptomCounts counts symptoms per type in catalogue order.
func SymptomCounts(symptoms []store.Symptom) []SymptomCount {
	out := make([]SymptomCount, len(SymptomTypes))
	for i, st := range SymptomTypes {
		out[i].SymptomType = st
		for _, s := range symptoms {
			if s.Type == st.Value {
				out[i].Count++
			}
		}
	}
	return out
}

func isSymptomType(v string) bool {
	for _, st := range SymptomTypes {
		if st.Value == v {
			return true
		}
	}
	return false
}

// parseDate reads a stored date as midnight UTC.
func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
