package period

import (
	"time"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

// Day is one calendar day annotated for display.
type Day struct {
	Date            time.Time
	InPeriod        bool
	HasSymptom      bool
	PredictedPeriod bool
	Fertile         bool
}

// Annotate describes date. pred is nil when there is no prediction. Dates
// are compared as midnight UTC.
func Annotate(date time.Time, cycles []store.Cycle, symptoms []store.Symptom, pred *Prediction) Day {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	d := Day{Date: date}
	for _, c := range cycles {
		start, err := parseDate(c.StartDate)
		if err != nil {
			continue
		}
		end := start.AddDate(0, 0, defaultPeriodDays)
		if c.EndDate != "" {
			if e, err := parseDate(c.EndDate); err == nil {
				end = e
			}
		}
		if !date.Before(start) && !date.After(end) {
			d.InPeriod = true
			break
		}
	}
	key := date.Format(DateLayout)
	for _, s := range symptoms {
		if s.Date == key {
			d.HasSymptom = true
			break
		}
	}
	if pred != nil {
		d.PredictedPeriod = absDuration(date.Sub(pred.NextStart)) < predictedWindow
		d.Fertile = absDuration(date.Sub(pred.Fertile)) < fertileWindow
	}
	return d
}

// Month returns every day of the given month, annotated.
func Month(year int, month time.Month, cycles []store.Cycle, symptoms []store.Symptom) []Day {
	var pred *Prediction
	if p, ok := Predict(cycles); ok {
		pred = &p
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	var days []Day
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		days = append(days, Annotate(d, cycles, symptoms, pred))
	}
	return days
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
