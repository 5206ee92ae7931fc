package entity

import "testing"

func TestAppendRevisionVersionsMonotonic(t *testing.T) {
	st := NewStory("a premise", "", "Horror", 7500)

	first := st.AppendRevision("draft body", 4200, RevisionTypeDraft)
	second := st.AppendRevision("revised body", 4500, RevisionTypeRevised)

	if first.Version != 1 || second.Version != 2 {
		t.Errorf("versions = %d, %d, want 1, 2", first.Version, second.Version)
	}
	if st.CurrentRevision != 2 {
		t.Errorf("CurrentRevision = %d, want 2", st.CurrentRevision)
	}
	if len(st.RevisionHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(st.RevisionHistory))
	}
	// 追加不改动既有条目
	if st.RevisionHistory[0].Body != "draft body" || st.RevisionHistory[0].Type != RevisionTypeDraft {
		t.Errorf("first entry mutated: %+v", st.RevisionHistory[0])
	}
}

func TestRevisionLookup(t *testing.T) {
	st := NewStory("a premise", "", "Horror", 7500)
	st.AppendRevision("v1", 4000, RevisionTypeDraft)
	st.AppendRevision("v2", 4300, RevisionTypeRevised)

	entry, ok := st.Revision(2)
	if !ok {
		t.Fatal("Revision(2) not found")
	}
	if entry.Body != "v2" || entry.WordCount != 4300 {
		t.Errorf("Revision(2) = %+v", entry)
	}

	if _, ok := st.Revision(3); ok {
		t.Error("Revision(3) found, want missing")
	}
	if _, ok := st.Revision(0); ok {
		t.Error("Revision(0) found, want missing")
	}
}

func TestAvailableVersions(t *testing.T) {
	st := NewStory("a premise", "", "Horror", 7500)
	if got := st.AvailableVersions(); len(got) != 0 {
		t.Errorf("AvailableVersions() = %v for new story, want empty", got)
	}

	st.AppendRevision("v1", 4000, RevisionTypeDraft)
	st.AppendRevision("v2", 4300, RevisionTypeRevised)
	st.AppendRevision("v3", 4100, RevisionTypeRevised)

	got := st.AvailableVersions()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("AvailableVersions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AvailableVersions()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestCharacterProfileIsZero(t *testing.T) {
	var nilProfile *CharacterProfile
	if !nilProfile.IsZero() {
		t.Error("nil profile should be zero")
	}
	if !(&CharacterProfile{}).IsZero() {
		t.Error("empty profile should be zero")
	}
	if (&CharacterProfile{Freeform: "a tired detective"}).IsZero() {
		t.Error("freeform-only profile should not be zero")
	}
	if (&CharacterProfile{Quirks: []string{"whistles"}}).IsZero() {
		t.Error("quirks-only profile should not be zero")
	}
}
