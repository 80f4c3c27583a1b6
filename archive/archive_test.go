package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"prepbot/interview"
)

func fixedClock(ts string) func() time.Time {
	parsed, err := time.Parse(timestampLayout, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func sampleTranscript() []interview.Exchange {
	return []interview.Exchange{
		{Question: "Tell me about yourself.", Answer: "I write Go."},
		{Question: "Why this role?", Answer: "I like data."},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	store.now = fixedClock("20250114_093005")

	report := "## Report\n\nRating: 9/10\n\nStrong Hire"
	path, err := store.Archive(interview.DataScientist, sampleTranscript(), report)
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	wantName := "interview_Data_Scientist_20250114_093005.json"
	if filepath.Base(path) != wantName {
		t.Errorf("Archive() path base = %q, want %q", filepath.Base(path), wantName)
	}

	record, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if record.Profile != "Data Scientist" {
		t.Errorf("Profile = %q, want %q", record.Profile, "Data Scientist")
	}
	if record.Timestamp != "20250114_093005" {
		t.Errorf("Timestamp = %q, want %q", record.Timestamp, "20250114_093005")
	}
	if record.Evaluation != report {
		t.Errorf("Evaluation = %q, want it byte-for-byte", record.Evaluation)
	}
	if len(record.History) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(record.History))
	}
	for i, e := range sampleTranscript() {
		if record.History[i].Question != e.Question ||
			record.History[i].Answer != e.Answer {
			t.Errorf("History[%d] = %+v, want %+v", i, record.History[i], e)
		}
	}
}

func TestArchiveRecordFormat(t *testing.T) {
	store := NewStore(t.TempDir())
	store.now = fixedClock("20250114_093005")

	path, err := store.Archive(interview.WebDeveloper, sampleTranscript(), "fine")
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	for _, field := range []string{"profile", "timestamp", "history", "evaluation"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("record is missing field %q", field)
		}
	}

	// History entries are two-element pair arrays on disk.
	var history [][]string
	if err := json.Unmarshal(raw["history"], &history); err != nil {
		t.Fatalf("history is not a list of pairs: %v", err)
	}
	if len(history) != 2 || len(history[0]) != 2 {
		t.Errorf("history shape = %v, want pair arrays", history)
	}
}

func TestArchiveCollisionSuffix(t *testing.T) {
	store := NewStore(t.TempDir())
	store.now = fixedClock("20250114_093005")

	first, err := store.Archive(interview.HRManager, sampleTranscript(), "a")
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	second, err := store.Archive(interview.HRManager, sampleTranscript(), "b")
	if err != nil {
		t.Fatalf("second Archive() error: %v", err)
	}

	if first == second {
		t.Fatalf("same-second archives collided on %q", first)
	}
	if matched, _ := regexp.MatchString(`_2\.json$`, second); !matched {
		t.Errorf("second path = %q, want a numeric suffix", second)
	}

	recordA, err := Load(first)
	if err != nil {
		t.Fatalf("Load(first) error: %v", err)
	}
	if recordA.Evaluation != "a" {
		t.Errorf("first record Evaluation = %q, want %q (not overwritten)", recordA.Evaluation, "a")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List() on empty dir error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() on empty dir = %d entries, want 0", len(entries))
	}

	store.now = fixedClock("20250114_093005")
	if _, err := store.Archive(interview.DataEngineer, sampleTranscript(), "later"); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	store.now = fixedClock("20250113_120000")
	if _, err := store.Archive(interview.QualityAnalyst, sampleTranscript(), "earlier"); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err = store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %d entries, want 2", len(entries))
	}
	if entries[0].Record.Profile != "Quality Analyst" {
		t.Errorf("entries[0].Profile = %q, want oldest first", entries[0].Record.Profile)
	}
	if entries[1].Record.Profile != "Data Engineer" {
		t.Errorf("entries[1].Profile = %q, want newest last", entries[1].Record.Profile)
	}
}

func TestListSkipsCorruptRecords(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	store.now = fixedClock("20250113_120000")
	if _, err := store.Archive(interview.DataScientist, sampleTranscript(), "intact"); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	bad := filepath.Join(dir, "interview_Web_Developer_20250114_090000.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("List() = %d entries, want the intact record only", len(entries))
	}
	if entries[0].Record.Profile != "Data Scientist" {
		t.Errorf("entries[0].Profile = %q, want Data Scientist", entries[0].Record.Profile)
	}
}
