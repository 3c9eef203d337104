package tasks

import "testing"

func TestNextStatus(t *testing.T) {
	cases := []struct {
		flow    Flow
		current string
		want    string
		ok      bool
	}{
		{SimpleFlow, StatusBacklog, StatusToDo, true},
		{SimpleFlow, StatusInProgress, StatusDone, true},
		{ReviewFlow, StatusInProgress, StatusInReview, true},
		{ReviewFlow, StatusInReview, StatusDone, true},
		{ReviewFlow, StatusDone, "", false},
		{SimpleFlow, StatusInReview, "", false},
		{SimpleFlow, "Archived", "", false},
	}
	for _, tc := range cases {
		got, ok := NextStatus(tc.flow, tc.current)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("NextStatus(%v, %q) = %q, %v; want %q, %v", tc.flow, tc.current, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" Bug, UI ,,Mobile ")
	want := []string{"Bug", "UI", "Mobile"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if len(ParseTags("")) != 0 {
		t.Fatal("expected no tags for empty input")
	}
}
