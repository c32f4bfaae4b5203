// Package throttle meters transaction submissions per sender using the
// limits published in the ledger system configuration. The core never
// throttles; the hosting layer consults a Guard before handing a
// transaction to the processor.
package throttle

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/veriot/trustgraph/pkg/record"
)

// Guard tracks per-sender submission rates and strike counts.
type Guard struct {
	mu        sync.Mutex
	senders   map[string]*senderState
	limit     rate.Limit
	burst     int
	threshold int
}

type senderState struct {
	limiter *rate.Limiter
	strikes int
	banned  bool
}

// FromConfig builds a Guard from the system configuration:
// MaximumTransactionRate transactions per MaximumTransactionInterval
// seconds, with PunishmentThreshold tolerated violations before a
// sender is banned outright.
func FromConfig(cfg record.SystemConfig) *Guard {
	interval := cfg.MaximumTransactionInterval
	if interval <= 0 {
		interval = 1
	}
	burst := cfg.MaximumTransactionRate
	if burst < 1 {
		burst = 1
	}
	return &Guard{
		senders:   make(map[string]*senderState),
		limit:     rate.Limit(float64(cfg.MaximumTransactionRate) / float64(interval)),
		burst:     burst,
		threshold: cfg.PunishmentThreshold,
	}
}

// Allow reports whether sender may submit another transaction now.
// Each refusal counts as a strike; a sender exceeding the punishment
// threshold stays banned.
func (g *Guard) Allow(sender string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.senders[sender]
	if !ok {
		s = &senderState{limiter: rate.NewLimiter(g.limit, g.burst)}
		g.senders[sender] = s
	}
	if s.banned {
		return false
	}
	if s.limiter.Allow() {
		return true
	}
	s.strikes++
	if g.threshold > 0 && s.strikes >= g.threshold {
		s.banned = true
	}
	return false
}

// Banned reports whether sender has exceeded the punishment threshold.
func (g *Guard) Banned(sender string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.senders[sender]
	return ok && s.banned
}
