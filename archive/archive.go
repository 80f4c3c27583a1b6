package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"prepbot/interview"
)

const timestampLayout = "20060102_150405"

// Record is the durable snapshot of one completed session. It is written
// once at completion and never mutated.
type Record struct {
	Profile    string               `json:"profile"`
	Timestamp  string               `json:"timestamp"`
	History    []interview.Exchange `json:"history"`
	Evaluation string               `json:"evaluation"`
}

// Store writes one JSON record per completed session into a data directory
// created on demand.
type Store struct {
	dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Archive writes the session record and returns its path. Filenames carry
// the profile and a second-resolution timestamp; a numeric suffix keeps
// same-second completions for the same role from overwriting each other.
func (s *Store) Archive(
	role interview.Role,
	transcript []interview.Exchange,
	report string,
) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory %s: %w", s.dir, err)
	}

	timestamp := s.now().Format(timestampLayout)
	record := Record{
		Profile:    string(role),
		Timestamp:  timestamp,
		History:    transcript,
		Evaluation: report,
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return "", fmt.Errorf("encode session record: %w", err)
	}

	base := fmt.Sprintf(
		"interview_%s_%s",
		strings.ReplaceAll(string(role), " ", "_"),
		timestamp,
	)
	path := filepath.Join(s.dir, base+".json")
	for n := 2; fileExists(path); n++ {
		path = filepath.Join(s.dir, fmt.Sprintf("%s_%d.json", base, n))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write session record %s: %w", path, err)
	}
	return path, nil
}

// Load reads a record back from disk.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session record %s: %w", path, err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode session record %s: %w", path, err)
	}
	return &record, nil
}

// Entry pairs a loaded record with the file it came from.
type Entry struct {
	Path   string
	Record *Record
}

// List loads every session record in the data directory, oldest first. A
// missing directory just means no sessions yet, and a record that no longer
// decodes is skipped rather than hiding the rest of the history.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", s.dir, err)
	}

	var entries []Entry
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || !strings.HasPrefix(name, "interview_") ||
			filepath.Ext(name) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, name)
		record, err := Load(path)
		if err != nil {
			log.Warn("skipping unreadable session record", "path", path, "error", err.Error())
			continue
		}
		entries = append(entries, Entry{Path: path, Record: record})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Record.Timestamp < entries[j].Record.Timestamp
	})
	return entries, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
