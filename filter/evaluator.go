package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/eventful/eventful"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*ConcurrentEvaluator)

// WithWorkers sets the number of worker goroutines
func WithWorkers(workers int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if workers > 0 {
			e.workerCount = workers
		}
	}
}

// WithBatchSize sets the chunk size below which evaluation stays sequential
func WithBatchSize(size int) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// WithStrict makes evaluation fail on the first record the expression
// cannot be run against, instead of treating that record as not matching.
func WithStrict(strict bool) EvaluatorOption {
	return func(e *ConcurrentEvaluator) {
		e.strict = strict
	}
}

// ConcurrentEvaluator implements NodeEvaluator, splitting large inputs into
// chunks evaluated in parallel.
type ConcurrentEvaluator struct {
	workerCount int
	batchSize   int
	strict      bool
}

// NewConcurrentEvaluator creates a new concurrent evaluator
func NewConcurrentEvaluator(opts ...EvaluatorOption) *ConcurrentEvaluator {
	e := &ConcurrentEvaluator{
		workerCount: runtime.GOMAXPROCS(0),
		batchSize:   100,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate returns the nodes the filter matches, in input order
func (e *ConcurrentEvaluator) Evaluate(ctx context.Context, filter CompiledFilter, nodes []*eventful.Node) ([]*eventful.Node, error) {
	if len(nodes) == 0 {
		return []*eventful.Node{}, nil
	}

	// For small lists, don't bother with concurrency
	if len(nodes) < e.batchSize {
		return e.evaluateChunk(ctx, filter, nodes)
	}

	return e.evaluateConcurrent(ctx, filter, nodes)
}

func (e *ConcurrentEvaluator) evaluateChunk(ctx context.Context, filter CompiledFilter, nodes []*eventful.Node) ([]*eventful.Node, error) {
	matches := make([]*eventful.Node, 0, len(nodes)/4)
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := filter.Match(RecordOf(n))
		if err != nil {
			if e.strict {
				return nil, err
			}
			continue
		}
		if ok {
			matches = append(matches, n)
		}
	}
	return matches, nil
}

func (e *ConcurrentEvaluator) evaluateConcurrent(ctx context.Context, filter CompiledFilter, nodes []*eventful.Node) ([]*eventful.Node, error) {
	chunkSize := max(len(nodes)/e.workerCount, e.batchSize)
	chunks := (len(nodes) + chunkSize - 1) / chunkSize
	results := make([][]*eventful.Node, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount)

	for i := range chunks {
		start := i * chunkSize
		end := min(start+chunkSize, len(nodes))

		g.Go(func() error {
			matches, err := e.evaluateChunk(ctx, filter, nodes[start:end])
			if err != nil {
				return err
			}
			// each goroutine owns its own slot
			results[i] = matches
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*eventful.Node
	for _, r := range results {
		all = append(all, r...)
	}
	if all == nil {
		all = []*eventful.Node{}
	}
	return all, nil
}

// DefaultCacheSize is the number of compiled expressions MatchNodes keeps.
const DefaultCacheSize = 64

var (
	defaultCompiler  CachingCompiler = NewExprCompiler(WithCache(DefaultCacheSize))
	defaultEvaluator NodeEvaluator   = NewConcurrentEvaluator()
)

// MatchNodes compiles expression and returns the nodes it matches. Compiled
// expressions are cached across calls.
func MatchNodes(ctx context.Context, expression string, nodes []*eventful.Node) ([]*eventful.Node, error) {
	f, err := defaultCompiler.Compile(expression)
	if err != nil {
		return nil, err
	}
	return defaultEvaluator.Evaluate(ctx, f, nodes)
}
