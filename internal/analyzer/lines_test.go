package analyzer

import "testing"

func TestLineMatcher_DefaultPolicy(t *testing.T) {
	matcher := NewLineMatcher(DefaultReferenceLines(), DefaultToleranceNm, "")

	tests := []struct {
		wavelength float64
		want       string
	}{
		{656.3, "H-alpha"},
		{486.1, "H-beta"},
		{587.6, "He"},
		{589.0, "Na-D"},
		{630.0, "O"},
		{532.8, "Fe"},
		{422.7, "Ca"},
		{588.5, "Na-D"},         // 0.5 from Na-D, 0.9 from He
		{661.3, UnknownElement}, // exactly 5 nm away: window is exclusive
		{651.3, UnknownElement},
		{566.7, UnknownElement},
		{400.0, UnknownElement},
	}

	for _, tt := range tests {
		if got := matcher.Identify(tt.wavelength); got != tt.want {
			t.Errorf("Identify(%.2f): expected %s, got %s", tt.wavelength, tt.want, got)
		}
	}
}

func TestLineMatcher_FirstMatchFollowsTableOrder(t *testing.T) {
	matcher := NewLineMatcher(DefaultReferenceLines(), DefaultToleranceNm, MatchFirst)

	// He precedes Na-D in the table and both windows cover these values
	for _, wl := range []float64{588.5, 589.0} {
		if got := matcher.Identify(wl); got != "He" {
			t.Errorf("Identify(%.1f): expected He under first-match, got %s", wl, got)
		}
	}
	if got := matcher.Identify(656.3); got != "H-alpha" {
		t.Errorf("Expected H-alpha, got %s", got)
	}
	if got := matcher.Identify(661.3); got != UnknownElement {
		t.Errorf("Expected boundary 661.3 to be Unknown, got %s", got)
	}
}

func TestLineMatcher_ClosestTieGoesToEarlierEntry(t *testing.T) {
	lines := []ReferenceLine{{Element: "A", WavelengthNm: 500}, {Element: "B", WavelengthNm: 510}}
	matcher := NewLineMatcher(lines, 6, MatchClosest)

	if got := matcher.Identify(505); got != "A" {
		t.Errorf("Expected tie to resolve to A, got %s", got)
	}
	if got := matcher.Identify(506); got != "B" {
		t.Errorf("Expected B, got %s", got)
	}
}

func TestLineMatcher_CopiesTable(t *testing.T) {
	lines := DefaultReferenceLines()
	matcher := NewLineMatcher(lines, DefaultToleranceNm, MatchClosest)

	lines[0].WavelengthNm = 900
	if got := matcher.Identify(656.3); got != "H-alpha" {
		t.Errorf("Matcher changed after caller mutated its table: got %s", got)
	}

	out := matcher.Lines()
	out[0].Element = "changed"
	if matcher.Lines()[0].Element != "H-alpha" {
		t.Error("Lines() exposed the matcher's internal table")
	}
}

func TestIdentifyElement(t *testing.T) {
	lines := DefaultReferenceLines()

	if got := IdentifyElement(656.3, lines, 5); got != "H-alpha" {
		t.Errorf("Expected H-alpha, got %s", got)
	}
	if got := IdentifyElement(661.3, lines, 5); got != UnknownElement {
		t.Errorf("Expected Unknown at the exclusive boundary, got %s", got)
	}
	if got := IdentifyElement(589.0, lines, 5); got != "He" {
		t.Errorf("Expected table-order match He, got %s", got)
	}
}

func TestParseMatchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchPolicy
		wantErr bool
	}{
		{"", MatchClosest, false},
		{"closest", MatchClosest, false},
		{" FIRST ", MatchFirst, false},
		{"nearest", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMatchPolicy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseMatchPolicy(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMatchPolicy(%q): expected %s, got %s (%v)", tt.in, tt.want, got, err)
		}
	}
}

func TestLookupReferenceLine(t *testing.T) {
	lines := DefaultReferenceLines()

	line, exact, ok := LookupReferenceLine(lines, "h-ALPHA")
	if !ok || !exact || line.Element != "H-alpha" {
		t.Errorf("Expected exact H-alpha, got %+v exact=%v ok=%v", line, exact, ok)
	}

	line, exact, ok = LookupReferenceLine(lines, "H-alpa")
	if !ok || exact || line.Element != "H-alpha" {
		t.Errorf("Expected fuzzy H-alpha suggestion, got %+v exact=%v ok=%v", line, exact, ok)
	}

	line, _, ok = LookupReferenceLine(lines, "NaD")
	if !ok || line.Element != "Na-D" {
		t.Errorf("Expected Na-D suggestion, got %+v ok=%v", line, ok)
	}

	if _, _, ok = LookupReferenceLine(lines, "Xenon"); ok {
		t.Error("Expected no match for Xenon")
	}
	if _, _, ok = LookupReferenceLine(lines, "  "); ok {
		t.Error("Expected no match for blank name")
	}
}
