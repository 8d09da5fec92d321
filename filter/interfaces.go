package filter

import (
	"context"

	"github.com/s0up4200/eventful/eventful"
)

// Record is the flattened form of one response element that expressions
// are evaluated against: attribute values plus leaf element texts.
type Record map[string]any

// RecordOf flattens a response node into a Record
func RecordOf(n *eventful.Node) Record {
	return Record(n.Fields())
}

// Filter defines the basic interface for record filters
type Filter interface {
	// Match checks if a record matches the filter criteria
	Match(record Record) (bool, error)
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}

// NodeEvaluator selects the response nodes a filter matches
type NodeEvaluator interface {
	Evaluate(ctx context.Context, filter CompiledFilter, nodes []*eventful.Node) ([]*eventful.Node, error)
}
