package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, time.May, 9, 18, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		date Date
		want int
	}{
		{name: "today", date: NewDate(2024, time.May, 9), want: 0},
		{name: "tomorrow", date: NewDate(2024, time.May, 10), want: 1},
		{name: "next month", date: NewDate(2024, time.June, 9), want: 31},
		{name: "yesterday", date: NewDate(2024, time.May, 8), want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(now, tt.date))
		})
	}
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantMonday string
		wantSunday string
	}{
		{name: "thursday", now: time.Date(2024, time.May, 9, 10, 0, 0, 0, time.UTC), wantMonday: "2024-05-06", wantSunday: "2024-05-12"},
		{name: "monday", now: time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC), wantMonday: "2024-05-06", wantSunday: "2024-05-12"},
		{name: "sunday", now: time.Date(2024, time.May, 12, 23, 59, 0, 0, time.UTC), wantMonday: "2024-05-06", wantSunday: "2024-05-12"},
		{name: "across months", now: time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), wantMonday: "2024-02-26", wantSunday: "2024-03-03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monday, sunday := WeekRange(tt.now)
			assert.Equal(t, tt.wantMonday, monday.String())
			assert.Equal(t, tt.wantSunday, sunday.String())
		})
	}
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		D  Date  `json:"d"`
		DP *Date `json:"dp"`
	}
	d := NewDate(2024, time.December, 9)
	b, err := json.Marshal(wrapper{D: d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-12-09","dp":null}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-01-31","dp":"2024-02-01"}`), &w))
	assert.Equal(t, "2024-01-31", w.D.String())
	require.NotNil(t, w.DP)
	assert.Equal(t, "2024-02-01", w.DP.String())

	assert.Error(t, json.Unmarshal([]byte(`{"d":"31/01/2024"}`), &w))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-09", d.String())

	require.NoError(t, d.Scan("2024-05-10 00:00:00+00:00"))
	assert.Equal(t, "2024-05-10", d.String())

	require.NoError(t, d.Scan([]byte("2024-05-11")))
	assert.Equal(t, "2024-05-11", d.String())

	assert.Error(t, d.Scan(42))
}
