package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LISSConsulting/LISSTech.Organiser/internal/store"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPredict_TwoCycles(t *testing.T) {
	p, ok := Predict([]store.Cycle{{StartDate: "2024-01-01"}, {StartDate: "2024-01-29"}})
	require.True(t, ok)
	assert.Equal(t, 28, p.AverageLength)
	assert.Equal(t, date("2024-02-26"), p.NextStart)
	assert.Equal(t, date("2024-02-12"), p.Fertile)
}

func TestPredict(t *testing.T) {
	tests := []struct {
		name    string
		starts  []string
		ok      bool
		avg     int
		next    string
		fertile string
	}{
		{"none", nil, false, 0, "", ""},
		{"one", []string{"2024-01-01"}, false, 0, "", ""},
		{"rounds half up", []string{"2024-01-01", "2024-01-29", "2024-02-27"}, true, 29, "2024-03-27", "2024-03-13"},
		{"rounds down", []string{"2024-01-01", "2024-01-29", "2024-02-26", "2024-03-26"}, true, 28, "2024-04-23", "2024-04-09"},
		{"skips bad dates", []string{"2024-01-01", "soon", "2024-01-31"}, true, 30, "2024-03-01", "2024-02-16"},
		{"only one parseable", []string{"2024-01-01", "garbage"}, false, 0, "", ""},
		{"recorded order not sorted", []string{"2024-02-01", "2024-01-01"}, true, -31, "2023-12-01", "2023-11-17"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cycles []store.Cycle
			for _, s := range tt.starts {
				cycles = append(cycles, store.Cycle{StartDate: s})
			}
			p, ok := Predict(cycles)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.avg, p.AverageLength)
			assert.Equal(t, date(tt.next), p.NextStart)
			assert.Equal(t, date(tt.fertile), p.Fertile)
		})
	}
}

func TestAnnotate(t *testing.T) {
	cycles := []store.Cycle{
		{StartDate: "2024-01-01", EndDate: "2024-01-04"},
		{StartDate: "2024-01-29"},
	}
	symptoms := []store.Symptom{{Date: "2024-01-02", Type: "cramps"}}
	p, ok := Predict(cycles)
	require.True(t, ok)

	tests := []struct {
		day  string
		want Day
	}{
		{"2024-01-02", Day{InPeriod: true, HasSymptom: true}},
		{"2024-01-05", Day{}},
		{"2024-02-03", Day{InPeriod: true}},
		{"2024-02-04", Day{}},
		{"2024-02-20", Day{PredictedPeriod: true}},
		{"2024-02-19", Day{}},
		{"2024-03-03", Day{PredictedPeriod: true}},
		{"2024-02-12", Day{Fertile: true}},
		{"2024-02-14", Day{Fertile: true}},
		{"2024-02-15", Day{}},
	}
	for _, tt := range tests {
		got := Annotate(date(tt.day), cycles, symptoms, &p)
		tt.want.Date = date(tt.day)
		assert.Equal(t, tt.want, got, tt.day)
	}

	noPred := Annotate(date("2024-02-26"), cycles, symptoms, nil)
	assert.False(t, noPred.PredictedPeriod)
}

func TestMonth(t *testing.T) {
	days := Month(2024, time.February, []store.Cycle{{StartDate: "2024-02-10", EndDate: "2024-02-12"}}, nil)
	require.Len(t, days, 29)
	assert.Equal(t, date("2024-02-01"), days[0].Date)
	assert.True(t, days[9].InPeriod)
	assert.True(t, days[11].InPeriod)
	assert.False(t, days[12].InPeriod)
}

func TestNewCycle(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	c, err := NewCycle(CycleDraft{StartDate: "2024-01-01"}, now)
	require.NoError(t, err)
	assert.Equal(t, "medium", c.Flow)
	assert.NotNil(t, c.Symptoms)

	_, err = NewCycle(CycleDraft{}, now)
	assert.ErrorIs(t, err, ErrStartRequired)
	_, err = NewCycle(CycleDraft{StartDate: "2024-01-05", EndDate: "2024-01-01"}, now)
	assert.Error(t, err)
	_, err = NewCycle(CycleDraft{StartDate: "2024-01-01", Flow: "torrential"}, now)
	assert.Error(t, err)
	_, err = NewCycle(CycleDraft{StartDate: "2024-01-01", Symptoms: []string{"hiccups"}}, now)
	assert.Error(t, err)
}

func TestAddCycleAndSymptom(t *testing.T) {
	now := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	s := store.New(store.NewMemoryBackend())
	s.Initialize()

	_, err := AddCycle(s, CycleDraft{StartDate: "2024-01-01", Symptoms: []string{"cramps"}}, now)
	require.NoError(t, err)
	sym, err := AddSymptom(s, SymptomDraft{Type: "headache", Notes: "  afternoon "}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", sym.Date)
	assert.Equal(t, "mild", sym.Severity)
	assert.Equal(t, "afternoon", sym.Notes)

	_, err = AddSymptom(s, SymptomDraft{Severity: "extreme"}, now)
	assert.Error(t, err)

	st := s.State()
	assert.Len(t, st.Period.Cycles, 1)
	assert.Len(t, st.Period.Symptoms, 1)
}

func TestSymptomCounts(t *testing.T) {
	counts := SymptomCounts([]store.Symptom{{Type: "fatigue"}, {Type: "cramps"}, {Type: "fatigue"}, {Type: "other"}})
	require.Len(t, counts, 5)
	assert.Equal(t, "cramps", counts[0].Value)
	assert.Equal(t, 1, counts[0].Count)
	assert.Equal(t, "Fatigue", counts[4].Label)
	assert.Equal(t, 2, counts[4].Count)
	assert.Equal(t, 0, counts[1].Count)
}
