package rpc

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Mohsinsiddi/lcurate/internal/chain"
	"go.uber.org/zap"
)

// ErrWrongChain marks an endpoint that answers for a different chain id.
var ErrWrongChain = errors.New("endpoint serves a different chain")

const probeTimeout = 5 * time.Second

// ProbeResult holds the outcome of probing one endpoint.
type ProbeResult struct {
	URL         string
	Latency     time.Duration
	BlockNumber uint64
	ChainID     int64
	Err         error
}

// Probe pings url for its block height and, when wantChainID is non-zero,
// checks that it serves that chain.
func Probe(ctx context.Context, url string, wantChainID int64) ProbeResult {
	pctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	c := chain.NewEVMClient(url)
	latency, block, err := c.Ping(pctx)
	res := ProbeResult{URL: url, Latency: latency, BlockNumber: block, Err: err}
	if err != nil || wantChainID == 0 {
		return res
	}

	id, err := c.ChainID(pctx)
	if err != nil {
		res.Err = err
		return res
	}
	res.ChainID = id
	if id != wantChainID {
		res.Err = fmt.Errorf("%w: got %d, want %d", ErrWrongChain, id, wantChainID)
	}
	return res
}

// ProbeAll probes every URL in parallel. Results keep the order of urls.
func ProbeAll(ctx context.Context, urls []string, wantChainID int64) []ProbeResult {
	results := make([]ProbeResult, len(urls))
	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			results[idx] = Probe(ctx, u, wantChainID)
		}(i, url)
	}
	wg.Wait()
	return results
}

// ResultsToEndpoints converts probe results to picker Endpoints.
func ResultsToEndpoints(results []ProbeResult) []Endpoint {
	endpoints := make([]Endpoint, 0, len(results))
	for _, r := range results {
		endpoints = append(endpoints, Endpoint{
			URL:         r.URL,
			Latency:     r.Latency,
			BlockNumber: r.BlockNumber,
			ChainID:     r.ChainID,
			Healthy:     r.Err == nil,
			Checked:     true,
		})
	}
	return endpoints
}

// Candidates lists custom RPCs first, then the chain's built-ins, without duplicates.
func Candidates(c *chain.Chain, custom []string) []string {
	out := make([]string, 0, len(custom)+len(c.RPCs))
	for _, u := range append(slices.Clone(custom), c.RPCs...) {
		if u != "" && !slices.Contains(out, u) {
			out = append(out, u)
		}
	}
	return out
}

// Select probes urls and picks one with the named algorithm. A single URL is
// returned without probing.
func Select(ctx context.Context, urls []string, algorithm string, wantChainID int64, log *zap.Logger) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	algo, err := ParseAlgorithm(algorithm)
	if err != nil {
		return "", err
	}
	if log == nil {
		log = zap.NewNop()
	}

	results := ProbeAll(ctx, urls, wantChainID)
	for _, r := range results {
		if r.Err != nil {
			log.Debug("endpoint rejected", zap.String("url", r.URL), zap.Error(r.Err))
		}
	}

	winner, err := NewPicker(algo).Pick(ResultsToEndpoints(results))
	if err != nil {
		return "", err
	}
	log.Debug("endpoint selected", zap.String("url", winner.URL), zap.Duration("latency", winner.Latency))
	return winner.URL, nil
}
