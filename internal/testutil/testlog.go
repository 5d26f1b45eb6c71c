package testlog

import (
	"sync"

	"parcelbee-client/internal/logx"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the last field named key.
func (e Entry) Field(key string) (any, bool) {
	for i := len(e.Fields) - 1; i >= 0; i-- {
		if e.Fields[i].Key == key {
			return e.Fields[i].Value, true
		}
	}
	return nil, false
}

// Recorder collects entries from every logger it hands out.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger writing into r.
func (r *Recorder) Logger() logx.Logger {
	return recLogger{r: r}
}

// Entries returns a copy of everything logged so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Find returns the first entry with msg.
func (r *Recorder) Find(msg string) (Entry, bool) {
	for _, e := range r.Entries() {
		if e.Msg == msg {
			return e, true
		}
	}
	return Entry{}, false
}

func (r *Recorder) record(level, msg string, base, fields []logx.Field) {
	all := make([]logx.Field, 0, len(base)+len(fields))
	all = append(append(all, base...), fields...)

	r.mu.Lock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: all})
	r.mu.Unlock()
}

type recLogger struct {
	r    *Recorder
	base []logx.Field
}

func (l recLogger) Debug(msg string, f ...logx.Field) { l.r.record("debug", msg, l.base, f) }
func (l recLogger) Info(msg string, f ...logx.Field)  { l.r.record("info", msg, l.base, f) }
func (l recLogger) Warn(msg string, f ...logx.Field)  { l.r.record("warn", msg, l.base, f) }
func (l recLogger) Error(msg string, f ...logx.Field) { l.r.record("error", msg, l.base, f) }

func (l recLogger) With(f ...logx.Field) logx.Logger {
	base := make([]logx.Field, 0, len(l.base)+len(f))
	return recLogger{r: l.r, base: append(append(base, l.base...), f...)}
}

func (recLogger) Sync() error { return nil }
