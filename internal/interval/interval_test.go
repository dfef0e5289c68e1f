package interval

import (
	"errors"
	"testing"
)

func TestNew_RejectsReversedAndEmptyRanges(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		start string
		end   string
	}{
		{name: "end before start", start: "10:00", end: "09:00"},
		{name: "zero length", start: "09:00", end: "09:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			start, err := ParseTimeOfDay(tc.start)
			if err != nil {
				t.Fatalf("failed to parse start: %v", err)
			}
			end, err := ParseTimeOfDay(tc.end)
			if err != nil {
				t.Fatalf("failed to parse end: %v", err)
			}

			if _, err := New(start, end); !errors.Is(err, ErrInvalidInterval) {
				t.Fatalf("expected ErrInvalidInterval, got %v", err)
			}
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	got, err := ParseTimeOfDay("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != TimeOfDay(9*60+30) {
		t.Fatalf("expected 570 minutes, got %d", got)
	}

	if _, err := ParseTimeOfDay("24:00"); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
	if _, err := ParseTimeOfDay("garbage"); err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestOverlaps_Symmetry(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a    Interval
		b    Interval
		want bool
	}{
		{name: "partial overlap", a: MustParse("09:00", "10:00"), b: MustParse("09:30", "10:30"), want: true},
		{name: "containment", a: MustParse("09:00", "12:00"), b: MustParse("10:00", "11:00"), want: true},
		{name: "identical", a: MustParse("09:00", "10:00"), b: MustParse("09:00", "10:00"), want: true},
		{name: "disjoint", a: MustParse("09:00", "10:00"), b: MustParse("11:00", "12:00"), want: false},
		{name: "touching boundary", a: MustParse("09:00", "10:00"), b: MustParse("10:00", "11:00"), want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v (symmetry violated)", got, tc.want)
			}
		})
	}
}

func TestInterval_String(t *testing.T) {
	t.Parallel()

	iv := MustParse("09:05", "10:30")
	if got := iv.String(); got != "09:05-10:30" {
		t.Fatalf("unexpected rendering: %s", got)
	}
	if iv.Duration() != 85 {
		t.Fatalf("expected 85 minute duration, got %d", iv.Duration())
	}
}
