// Package announce provides an Announcer that records speech output instead of
// synthesizing it. Replay sessions, the MCP server, and tests read the
// transcript back.
package announce

import (
	"sync"

	"github.com/mj1618/arena-access/internal/platform"
)

// Kind distinguishes the three announcement entry points.
type Kind string

const (
	KindNormal    Kind = "announce"
	KindInterrupt Kind = "interrupt"
	KindVerbose   Kind = "verbose"
)

// Entry is one spoken line.
type Entry struct {
	Seq      int               `yaml:"seq"      json:"seq"`
	Frame    int64             `yaml:"frame"    json:"frame"`
	Kind     Kind              `yaml:"kind"     json:"kind"`
	Priority platform.Priority `yaml:"priority" json:"priority"`
	Text     string            `yaml:"text"     json:"text"`
}

// Recorder is a platform.Announcer that keeps a transcript.
//
// A Normal-priority line identical to the previous spoken line is dropped;
// High priority and interrupts always speak. Verbose lines are dropped unless
// Verbose is set.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	last    string
	frame   int64
	seq     int
	Verbose bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder(verbose bool) *Recorder {
	return &Recorder{Verbose: verbose}
}

var _ platform.Announcer = (*Recorder)(nil)

// SetFrame stamps subsequent entries with the given frame number.
func (r *Recorder) SetFrame(frame int64) {
	r.mu.Lock()
	r.frame = frame
	r.mu.Unlock()
}

func (r *Recorder) Announce(text string, p platform.Priority) {
	r.add(KindNormal, text, p)
}

func (r *Recorder) AnnounceInterrupt(text string) {
	r.add(KindInterrupt, text, platform.PriorityHigh)
}

func (r *Recorder) AnnounceVerbose(text string, p platform.Priority) {
	if !r.Verbose {
		return
	}
	r.add(KindVerbose, text, p)
}

func (r *Recorder) add(kind Kind, text string, p platform.Priority) {
	if text == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p == platform.PriorityNormal && text == r.last {
		return
	}
	r.seq++
	r.entries = append(r.entries, Entry{Seq: r.seq, Frame: r.frame, Kind: kind, Priority: p, Text: text})
	r.last = text
}

// Entries returns a copy of the transcript.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Since returns entries with Seq greater than seq.
func (r *Recorder) Since(seq int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Texts returns just the spoken strings, in order.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Text
	}
	return out
}

// Last returns the most recent entry, if any.
func (r *Recorder) Last() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return Entry{}, false
	}
	return r.entries[len(r.entries)-1], true
}

// Reset clears the transcript and the duplicate-suppression memory.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.last = ""
	r.mu.Unlock()
}
