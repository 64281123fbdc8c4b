// Package stats tracks per-category message counts for idefix's decode
// command, the live counterpart to the final summary printed on exit.
package stats

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-asterix/gobelix/descriptor"
)

// MessageStats tracks how many records of each category have been decoded.
type MessageStats struct {
	mu        sync.Mutex
	total     int
	byCat     map[descriptor.Category]int
	startTime time.Time
}

// New creates a MessageStats with its clock started.
func New() *MessageStats {
	return &MessageStats{
		byCat:     make(map[descriptor.Category]int),
		startTime: time.Now(),
	}
}

// Increment records one decoded record of category cat.
func (s *MessageStats) Increment(cat descriptor.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.byCat[cat]++
}

// LogStats logs current counts. final adds a per-category percentage
// breakdown, suited for a closing summary rather than a periodic tick.
func (s *MessageStats) LogStats(logger *slog.Logger, final bool) {
	s.mu.Lock()
	total := s.total
	byCat := make(map[descriptor.Category]int, len(s.byCat))
	for cat, n := range s.byCat {
		byCat[cat] = n
	}
	s.mu.Unlock()

	if total == 0 {
		return
	}

	duration := time.Since(s.startTime)
	var rate float64
	if duration.Seconds() > 0 {
		rate = float64(total) / duration.Seconds()
	}

	args := []any{
		"duration", duration.Round(time.Second).String(),
		"total_records", total,
		"rate", fmt.Sprintf("%.1f rec/s", rate),
	}
	for cat, n := range byCat {
		if final {
			pct := float64(n) / float64(total) * 100
			args = append(args, cat.String(), fmt.Sprintf("%d (%.1f%%)", n, pct))
		} else {
			args = append(args, cat.String(), n)
		}
	}

	if final {
		logger.Info("final statistics", args...)
	} else {
		logger.Info("statistics", args...)
	}
}
