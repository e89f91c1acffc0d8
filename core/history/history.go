// Package history stores the shell's command history in memory and in a
// line-oriented file whose first line is the #V2 format marker.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FormatMarker is the first line of every history file.
const FormatMarker = "#V2"

// Entry is a single remembered command.
type Entry struct {
	Command string
	Date    time.Time
}

// History is the mutable command history backed by a file.
type History struct {
	fsys    afero.Fs
	path    string
	existed bool
	entries []Entry
}

// Open reads the history file at path. A missing file is not an error: it
// yields an empty history with Existed reporting false, so callers can greet
// first-time users.
func Open(fsys afero.Fs, path string) (*History, error) {
	h := &History{fsys: fsys, path: path}

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return h, nil
	}
	h.existed = true

	contents, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(contents), "\n")
	if len(lines) == 0 || lines[0] != FormatMarker {
		return nil, fmt.Errorf("history file %s: missing %s marker", path, FormatMarker)
	}
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		h.entries = append(h.entries, Entry{Command: line})
	}
	return h, nil
}

// Existed reports whether the history file was present when opened.
func (h *History) Existed() bool {
	return h.existed
}

// Entries returns a copy of the recorded history, oldest first.
func (h *History) Entries() []Entry {
	return append([]Entry(nil), h.entries...)
}

// Add records a command in memory. It is persisted on the next Save.
func (h *History) Add(command string) {
	h.entries = append(h.entries, Entry{Command: command, Date: time.Now()})
}

// Save writes the marker line plus one record per command.
func (h *History) Save() error {
	var b strings.Builder
	b.WriteString(FormatMarker)
	b.WriteByte('\n')
	for _, entry := range h.entries {
		b.WriteString(entry.Command)
		b.WriteByte('\n')
	}
	return afero.WriteFile(h.fsys, h.path, []byte(b.String()), 0600)
}

// Clear drops the in-memory history and rewrites the file to the marker-only
// state.
func (h *History) Clear() error {
	h.entries = nil
	return afero.WriteFile(h.fsys, h.path, []byte(FormatMarker+"\n"), 0600)
}
