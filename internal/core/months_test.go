package core

import (
	"testing"
	"time"
)

func TestMonthKey(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{
			name: "zero padded month",
			date: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
			want: "2024-03",
		},
		{
			name: "december",
			date: time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC),
			want: "2023-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthKey(tt.date); got != tt.want {
				t.Errorf("MonthKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		n    int
		want time.Time
	}{
		{
			name: "simple addition",
			date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			n:    2,
			want: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "year rollover forward",
			date: time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC),
			n:    3,
			want: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "year rollover backward",
			date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			n:    -2,
			want: time.Date(2023, 11, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 29 in leap year",
			date: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			n:    1,
			want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "jan 31 clamps to feb 28 otherwise",
			date: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			n:    1,
			want: time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "may 31 clamps to jun 30",
			date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			n:    1,
			want: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "zero months is identity",
			date: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
			n:    0,
			want: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddMonths(tt.date, tt.n); !got.Equal(tt.want) {
				t.Errorf("AddMonths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrailingMonths(t *testing.T) {
	date := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	got := TrailingMonths(date, 3)
	want := []string{"2024-02", "2024-01", "2023-12"}

	if len(got) != len(want) {
		t.Fatalf("TrailingMonths() returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TrailingMonths()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if !SameMonth(a, b) {
		t.Error("SameMonth() = false for dates in the same month")
	}
	if SameMonth(b, c) {
		t.Error("SameMonth() = true across a month boundary")
	}
}

func TestParseMonthKey(t *testing.T) {
	if _, err := ParseMonthKey("2024-03"); err != nil {
		t.Errorf("ParseMonthKey(valid) error = %v", err)
	}
	for _, bad := range []string{"", "2024", "2024-13", "03-2024", "2024-3"} {
		if _, err := ParseMonthKey(bad); err == nil {
			t.Errorf("ParseMonthKey(%q) expected error", bad)
		}
	}
}
