package domain

import "testing"

func intPtr(v int) *int { return &v }

func TestTransactionIsCompleted(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"complete", true},
		{"completed", true},
		{"accepted", true},
		{"", true},
		{"pending", false},
		{"vetoed", false},
		{"failed", false},
	}
	for _, tc := range cases {
		tx := Transaction{Status: tc.status}
		if got := tx.IsCompleted(); got != tc.want {
			t.Errorf("IsCompleted(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestTransactionTimestamp(t *testing.T) {
	tx := Transaction{StatusUpdated: 200, Created: 100}
	if got := tx.Timestamp(); got != 200 {
		t.Errorf("Timestamp = %d, want status_updated preferred", got)
	}
	tx = Transaction{Created: 100}
	if got := tx.Timestamp(); got != 100 {
		t.Errorf("Timestamp = %d, want created fallback", got)
	}
}

func TestLeagueWaiverBudget(t *testing.T) {
	if got := (League{}).WaiverBudget(); got != 100 {
		t.Errorf("WaiverBudget = %d, want default 100", got)
	}
	league := League{Settings: LeagueSettings{WaiverBudget: 250}}
	if got := league.WaiverBudget(); got != 250 {
		t.Errorf("WaiverBudget = %d, want 250", got)
	}
}

func TestUserName(t *testing.T) {
	if got := (User{UserID: "u1", DisplayName: "Sam", Username: "sam99"}).Name(); got != "Sam" {
		t.Errorf("Name = %q, want display name", got)
	}
	if got := (User{UserID: "u1", Username: "sam99"}).Name(); got != "sam99" {
		t.Errorf("Name = %q, want username fallback", got)
	}
	if got := (User{UserID: "u1"}).Name(); got != "user-u1" {
		t.Errorf("Name = %q, want derived tag", got)
	}
}

func TestPlayerRecordInferredAge(t *testing.T) {
	age, ok := (PlayerRecord{Age: intPtr(27)}).InferredAge()
	if !ok || age != 27 {
		t.Errorf("InferredAge = (%v, %v), want (27, true)", age, ok)
	}
	age, ok = (PlayerRecord{YearsExp: intPtr(4)}).InferredAge()
	if !ok || age != 25 {
		t.Errorf("InferredAge = (%v, %v), want (25, true)", age, ok)
	}
	if _, ok := (PlayerRecord{}).InferredAge(); ok {
		t.Error("InferredAge ok = true with neither field, want false")
	}
}

func TestRosterAllPlayerIDs(t *testing.T) {
	roster := Roster{Players: []string{"a"}, Reserve: []string{"b"}, Taxi: []string{"c"}}
	got := roster.AllPlayerIDs()
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("AllPlayerIDs = %v, want [a b c]", got)
	}
}
