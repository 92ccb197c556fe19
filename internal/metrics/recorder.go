package metrics

import (
	"sync"

	"github.com/san-kum/symfield/internal/dynamo"
)

// Recorder feeds frames to a metric set and keeps a bounded history of each
// value. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	metrics []Metric
	limit   int
	history map[string][]float64
}

func NewRecorder(limit int, ms ...Metric) *Recorder {
	return &Recorder{
		metrics: ms,
		limit:   limit,
		history: make(map[string][]float64, len(ms)),
	}
}

func (r *Recorder) OnFrame(f dynamo.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.metrics {
		m.Observe(f)
		h := append(r.history[m.Name()], m.Value())
		if r.limit > 0 && len(h) > r.limit {
			h = h[len(h)-r.limit:]
		}
		r.history[m.Name()] = h
	}
}

// Latest returns the current value of every metric by name.
func (r *Recorder) Latest() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// History returns a copy of the recorded values for name.
func (r *Recorder) History(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.history[name]...)
}

func (r *Recorder) Names() []string {
	names := make([]string, len(r.metrics))
	for i, m := range r.metrics {
		names[i] = m.Name()
	}
	return names
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.metrics {
		m.Reset()
	}
	r.history = make(map[string][]float64, len(r.metrics))
}
