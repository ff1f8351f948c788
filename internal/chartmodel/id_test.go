package chartmodel

import "testing"

func TestScoreTimeNormalizeCarriesIntoTrack(t *testing.T) {
	st := NewScoreTime(0, 5, 4)
	if st.Track != 1 || st.Num != 1 || st.Den != 4 {
		t.Fatalf("expected 1:1/4, got %d:%d/%d", st.Track, st.Num, st.Den)
	}
}

func TestScoreTimeNormalizeReducesByGCD(t *testing.T) {
	st := NewScoreTime(0, 2, 4)
	if st.Num != 1 || st.Den != 2 {
		t.Fatalf("expected reduced 1/2, got %d/%d", st.Num, st.Den)
	}
}

func TestScoreTimeCompareOrdersByTrackThenFraction(t *testing.T) {
	a := NewScoreTime(0, 1, 4)
	b := NewScoreTime(0, 1, 2)
	c := NewScoreTime(1, 0, 4)
	if a.Compare(b) >= 0 {
		t.Fatalf("expected 0:1/4 < 0:1/2")
	}
	if b.Compare(c) >= 0 {
		t.Fatalf("expected 0:1/2 < 1:0/4")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected equal ScoreTime to compare 0")
	}
}

func TestScoreTimeZeroDenominatorDefaultsToOne(t *testing.T) {
	st := NewScoreTime(0, 3, 0)
	if st.Den != 1 {
		t.Fatalf("expected zero denominator to default to 1, got %d", st.Den)
	}
}

func TestObjectIDAbsentSentinel(t *testing.T) {
	if !AbsentObjectID.IsAbsent() {
		t.Fatalf("expected AbsentObjectID to report absent")
	}
	id, ok := ParseObjectID("01", false)
	if !ok || id.IsAbsent() {
		t.Fatalf("expected id 01 to parse and not be absent")
	}
}

func TestObjectIDCaseSensitivity(t *testing.T) {
	folded, ok := ParseObjectID("az", false)
	if !ok {
		t.Fatalf("expected lowercase id to fold to uppercase when case-insensitive")
	}
	if folded != NewObjectID('A', 'Z') {
		t.Fatalf("expected 'az' to fold to 'AZ', got %q", folded.String())
	}
	id, ok := ParseObjectID("az", true)
	if !ok {
		t.Fatalf("expected lowercase id to parse when case-sensitive")
	}
	if id.Value(true) == NewObjectID('A', 'Z').Value(true) {
		t.Fatalf("expected distinct base-62 values for 'az' and 'AZ'")
	}
}

func TestObjectIDValueBase36(t *testing.T) {
	id, ok := ParseObjectID("10", false)
	if !ok {
		t.Fatalf("expected id 10 to parse")
	}
	if got := id.Value(false); got != 36 {
		t.Fatalf("expected base-36 value 36, got %d", got)
	}
}

func TestObjectIDLessGivesStableOrder(t *testing.T) {
	a, _ := ParseObjectID("01", false)
	b, _ := ParseObjectID("02", false)
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("expected 01 < 02")
	}
}

func TestDecimalFromStringParsesExactFraction(t *testing.T) {
	d, ok := DecimalFromString("1.5")
	if !ok {
		t.Fatalf("expected 1.5 to parse")
	}
	if d.Cmp(NewDecimalInt(1)) <= 0 {
		t.Fatalf("expected 1.5 > 1")
	}
}
