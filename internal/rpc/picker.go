package rpc

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoHealthyRPC is returned when no healthy RPC endpoint is available.
var ErrNoHealthyRPC = errors.New("no healthy RPC endpoint available")

// Algorithm defines how an RPC endpoint is selected.
type Algorithm string

const (
	AlgorithmFastest    Algorithm = "fastest"
	AlgorithmRoundRobin Algorithm = "round-robin"
	AlgorithmFailover   Algorithm = "failover"

	// Discard nodes more than this many blocks behind the best.
	staleBlockThreshold = 3
	// Cache winner for this duration before re-scoring.
	cacheTTL = 5 * time.Minute
)

// ParseAlgorithm validates a configured algorithm name. Empty means fastest.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case "":
		return AlgorithmFastest, nil
	case AlgorithmFastest, AlgorithmRoundRobin, AlgorithmFailover:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("invalid algorithm %q; choose: fastest, round-robin, failover", s)
}

// Endpoint represents a single RPC endpoint with its measured attributes.
type Endpoint struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	ChainID     int64
	Healthy     bool // meaningful only when Checked == true
	Checked     bool // true when the endpoint has been probed
}

// Picker selects an RPC endpoint according to the configured algorithm.
type Picker struct {
	algo        Algorithm
	mu          sync.Mutex
	rrIndex     int
	cachedURL   string
	cacheExpiry time.Time
	onScore     func()
}

// NewPicker creates a new Picker with the given algorithm.
func NewPicker(algo Algorithm) *Picker {
	return &Picker{algo: algo}
}

// OnScore registers a hook called each time the fastest algorithm re-scores.
func (p *Picker) OnScore(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onScore = fn
}

// Pick selects an endpoint from the provided list according to the algorithm.
func (p *Picker) Pick(endpoints []Endpoint) (*Endpoint, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoHealthyRPC
	}

	switch p.algo {
	case AlgorithmRoundRobin:
		return p.pickRoundRobin(endpoints)
	case AlgorithmFailover:
		return p.pickFailover(endpoints)
	default:
		return p.pickFastest(endpoints)
	}
}

// pickFastest selects the best-scoring healthy endpoint, caching the result for cacheTTL.
func (p *Picker) pickFastest(endpoints []Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cachedURL != "" && time.Now().Before(p.cacheExpiry) {
		for i := range endpoints {
			if endpoints[i].URL == p.cachedURL && (!endpoints[i].Checked || endpoints[i].Healthy) {
				return &endpoints[i], nil
			}
		}
	}

	if p.onScore != nil {
		p.onScore()
	}

	var bestBlock uint64
	for _, e := range endpoints {
		if e.BlockNumber > bestBlock {
			bestBlock = e.BlockNumber
		}
	}

	var winner *Endpoint
	var bestScore float64
	for _, e := range eligible(endpoints) {
		if bestBlock > 0 && bestBlock-e.BlockNumber > staleBlockThreshold {
			continue
		}
		s := score(e, bestBlock)
		if winner == nil || s > bestScore {
			winner = e
			bestScore = s
		}
	}
	if winner == nil {
		return nil, ErrNoHealthyRPC
	}

	p.cachedURL = winner.URL
	p.cacheExpiry = time.Now().Add(cacheTTL)
	return winner, nil
}

// pickRoundRobin cycles through all healthy endpoints.
func (p *Picker) pickRoundRobin(endpoints []Endpoint) (*Endpoint, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	healthy := eligible(endpoints)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyRPC
	}

	idx := p.rrIndex % len(healthy)
	p.rrIndex = (idx + 1) % len(healthy)
	return healthy[idx], nil
}

// pickFailover tries endpoints in configured order, skipping unhealthy ones.
func (p *Picker) pickFailover(endpoints []Endpoint) (*Endpoint, error) {
	for i := range endpoints {
		e := &endpoints[i]
		if e.Checked && !e.Healthy {
			continue
		}
		return e, nil
	}
	return nil, ErrNoHealthyRPC
}

// --- scoring ---

func score(e *Endpoint, bestBlock uint64) float64 {
	var s float64
	if ms := e.Latency.Milliseconds(); ms > 0 {
		s += 1000.0 / float64(ms)
	} else if e.Latency > 0 {
		s += 1000.0
	}
	if bestBlock > 0 {
		s += float64(10 - (bestBlock - e.BlockNumber))
	}
	return s
}

// eligible returns unchecked endpoints plus checked healthy ones.
func eligible(endpoints []Endpoint) []*Endpoint {
	var out []*Endpoint
	for i := range endpoints {
		e := &endpoints[i]
		if !e.Checked || e.Healthy {
			out = append(out, e)
		}
	}
	return out
}
