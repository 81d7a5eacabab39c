package domain

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount int
		want   string
	}{
		{0, "$0"},
		{100, "$100"},
		{1000, "$1,000"},
		{32000, "$32,000"},
		{125000, "$125,000"},
		{1000000, "$1,000,000"},
		{-500, "$-500"},
	}
	for _, tc := range cases {
		if got := FormatMoney("$", tc.amount); got != tc.want {
			t.Errorf("FormatMoney($, %d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
	if got := FormatMoney("₦", 2000); got != "₦2,000" {
		t.Errorf("FormatMoney(₦, 2000) = %q", got)
	}
}

func TestHashDevice(t *testing.T) {
	a := HashDevice("agent/1.0", "Alice")
	if a != HashDevice("agent/1.0", "Alice") {
		t.Fatal("hash is not deterministic")
	}
	if a == HashDevice("agent/1.0", "Bob") {
		t.Fatal("different names collide")
	}
	if a == HashDevice("agent/2.0", "Alice") {
		t.Fatal("different agents collide")
	}
	if a[0] != 'h' {
		t.Fatalf("hash %q lacks prefix", a)
	}
	// The separator keeps (agent, name) boundaries unambiguous.
	if HashDevice("ab", "c") == HashDevice("a", "bc") {
		t.Fatal("boundary shift collides")
	}
}

func TestUsedLifeline(t *testing.T) {
	state := CurrentState{UsedLifelines: []string{LifelineFiftyFifty}}
	if !state.UsedLifeline(LifelineFiftyFifty) {
		t.Fatal("spent lifeline reported available")
	}
	if state.UsedLifeline(LifelinePhoneFriend) {
		t.Fatal("unspent lifeline reported used")
	}
}

func TestCurrentQuestionID(t *testing.T) {
	s := Session{Current: CurrentState{
		Level: 2,
		QuestionOrder: []LevelQuestion{
			{Level: 1, QuestionID: "q1"},
			{Level: 2, QuestionID: "q2"},
		},
	}}
	id, ok := s.CurrentQuestionID()
	if !ok || id != "q2" {
		t.Fatalf("CurrentQuestionID = %q, %v", id, ok)
	}
	s.Current.Level = 3
	if _, ok := s.CurrentQuestionID(); ok {
		t.Fatal("found question for undrawn level")
	}
}

func TestTimeoutOptionNeverMatchesRealKeys(t *testing.T) {
	for _, key := range OptionKeys {
		if key == TimeoutOption {
			t.Fatalf("option key %q collides with the timeout sentinel", key)
		}
	}
}
