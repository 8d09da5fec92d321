package filter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/s0up4200/eventful/eventful"
)

const searchResponse = `<search>
  <total_items>3</total_items>
  <events>
    <event id="E1"><title>Jazz Night</title><venue_name>Blue Note</venue_name><city_name>San Diego</city_name><start_time>2030-06-01 21:00:00</start_time><going_count>12</going_count></event>
    <event id="E2"><title>Rock Show</title><venue_name>Arena</venue_name><city_name>Los Angeles</city_name><start_time>2030-06-02 20:00:00</start_time><going_count>140</going_count></event>
    <event id="E3"><title>Late jazz jam</title><venue_name>Cellar</venue_name><city_name>San Diego</city_name><start_time>2001-01-01 22:00:00</start_time><going_count></going_count></event>
  </events>
</search>`

func searchEvents(t *testing.T) []*eventful.Node {
	t.Helper()
	doc, err := eventful.Parse(strings.NewReader(searchResponse))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	records, err := doc.Records("search", "events")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	return records
}

func ids(nodes []*eventful.Node) string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Attr["id"]
	}
	return strings.Join(out, ",")
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `like(title, "jazz")`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `like(title, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `city_name == "San Diego" and num(going_count) > 10 or has("venue_name")`,
		},
	}

	compiler := NewExprCompiler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var cErr *CompilationError
				if !errors.As(err, &cErr) {
					t.Errorf("expected CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f == nil {
				t.Fatal("expected filter but got nil")
			}
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	nodes := searchEvents(t)
	ctx := context.Background()

	tests := []struct {
		expression string
		want       string
	}{
		{`like(title, "JAZZ")`, "E1,E3"},
		{`title contains "Jazz"`, "E1"},
		{`city_name == "San Diego"`, "E1,E3"},
		{`num(going_count) >= 100`, "E2"},
		{`record["venue_name"] == "Arena"`, "E2"},
		{`has("going_count")`, "E1,E2"},
		{`eventTime(start_time) > daysAgo(30)`, "E1,E2"},
		{`city_name == "Paris"`, ""},
	}

	compiler := NewExprCompiler()
	evaluator := NewConcurrentEvaluator()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := evaluator.Evaluate(ctx, f, nodes)
			if err != nil {
				t.Fatalf("evaluate: %v", err)
			}
			if ids(got) != tt.want {
				t.Errorf("got %q, want %q", ids(got), tt.want)
			}
		})
	}
}

func TestEvaluationErrors(t *testing.T) {
	nodes := searchEvents(t)
	ctx := context.Background()

	// missing_field is nil, so the comparison fails at runtime
	f, err := NewExprCompiler().Compile(`like(missing_field, "x")`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	t.Run("lenient skips the record", func(t *testing.T) {
		got, err := NewConcurrentEvaluator().Evaluate(ctx, f, nodes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no matches, got %d", len(got))
		}
	})

	t.Run("strict returns the error", func(t *testing.T) {
		_, err := NewConcurrentEvaluator(WithStrict(true)).Evaluate(ctx, f, nodes)
		var evalErr *EvaluationError
		if !errors.As(err, &evalErr) {
			t.Fatalf("expected EvaluationError, got %v", err)
		}
		if evalErr.RecordID != "E1" {
			t.Errorf("expected record E1, got %q", evalErr.RecordID)
		}
	})
}

func TestConcurrentEvaluationKeepsOrder(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<events>")
	for i := range 1000 {
		fmt.Fprintf(&sb, `<event id="%d"><going_count>%d</going_count></event>`, i, i%10)
	}
	sb.WriteString("</events>")

	doc, err := eventful.Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	nodes, _ := doc.Records("events")

	f, err := NewExprCompiler().Compile(`num(going_count) == 3`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got, err := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50)).Evaluate(context.Background(), f, nodes)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("expected 100 matches, got %d", len(got))
	}
	for i, n := range got {
		if want := fmt.Sprint(i*10 + 3); n.Attr["id"] != want {
			t.Fatalf("match %d: got id %s, want %s", i, n.Attr["id"], want)
		}
	}
}

func TestEvaluateCancelled(t *testing.T) {
	nodes := searchEvents(t)
	f, _ := NewExprCompiler().Compile(`true`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewConcurrentEvaluator().Evaluate(ctx, f, nodes); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, _ := compiler.Compile(`has("id")`)
	again, _ := compiler.Compile(`  has("id")  `)
	if first != again {
		t.Error("expected cached filter to be reused")
	}

	compiler.Compile(`has("title")`)
	compiler.Compile(`has("venue_name")`)
	if compiler.Size() != 2 {
		t.Errorf("expected cache size 2, got %d", compiler.Size())
	}

	compiler.Clear()
	if compiler.Size() != 0 {
		t.Errorf("expected empty cache, got %d", compiler.Size())
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isFree": func(price string) bool { return price == "" || price == "0" },
	}))

	f, err := compiler.Compile(`isFree(price)`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ok, err := f.Match(Record{"price": "0"})
	if err != nil || !ok {
		t.Errorf("expected match, got %v, %v", ok, err)
	}
}

func TestMatchNodes(t *testing.T) {
	got, err := MatchNodes(context.Background(), `venue_name == "Cellar"`, searchEvents(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids(got) != "E3" {
		t.Errorf("got %q", ids(got))
	}
}

func TestMatchNodesReusesCompiledExpressions(t *testing.T) {
	expression := `city_name == "San Diego" and has("going_count")`

	for range 2 {
		got, err := MatchNodes(context.Background(), expression, searchEvents(t))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids(got) != "E1" {
			t.Errorf("got %q, want E1", ids(got))
		}
	}

	first, err := defaultCompiler.Compile(expression)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, _ := defaultCompiler.Compile(expression)
	if first != second {
		t.Error("expected the cached filter to be returned")
	}
	if defaultCompiler.Size() == 0 {
		t.Error("expected MatchNodes to populate the cache")
	}

	if _, err := MatchNodes(context.Background(), "  ", searchEvents(t)); err == nil {
		t.Error("expected error for empty expression")
	}
}
