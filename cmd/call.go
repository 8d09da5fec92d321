package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/eventful/eventful"
	"github.com/s0up4200/eventful/filter"
)

var (
	whereExpr   string
	recordsPath string
	rawCall     bool
	httpMethod  string
	outputFmt   string
)

// callCmd represents the call command
var callCmd = &cobra.Command{
	Use:   "call <method> [name=value ...]",
	Short: "Call an Eventful API method",
	Long: `Call a method such as events/search or venues/get. Parameters are given as
name=value pairs; repeating a name sends the values joined by spaces.

Known methods are validated against the method table before anything is sent.
Use --raw to send an arbitrary path with the parameters exactly as given.

Records can be selected with --records (a slash separated path such as
search/events) and filtered with --where, e.g.
  --where 'like(title, "jazz") && eventTime(start_time) < daysAhead(7)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVarP(&whereExpr, "where", "w", "", "filter expression applied to records")
	callCmd.Flags().StringVarP(&recordsPath, "records", "r", "", "slash separated path to the record list")
	callCmd.Flags().BoolVar(&rawCall, "raw", false, "skip the method table and send parameters as given")
	callCmd.Flags().StringVarP(&httpMethod, "method", "X", "", "HTTP method for --raw calls (default GET)")
	callCmd.Flags().StringVarP(&outputFmt, "output", "o", "", "output format: tree, xml or records")
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pairs, err := parsePairs(args[1:])
	if err != nil {
		return err
	}

	if cfg.Eventful.HasCredentials() {
		if err := client.Login(ctx, cfg.Eventful.Username, cfg.Eventful.Password); err != nil {
			return fmt.Errorf("failed to log in: %w", err)
		}
	}

	logger.Debug().Str("method", args[0]).Int("params", len(pairs)).Msg("Calling Eventful")

	var doc *eventful.Node
	if rawCall {
		params := eventful.NewParams()
		for _, p := range pairs {
			params.Add(p.name, p.value)
		}
		var opts []eventful.CallOption
		if httpMethod != "" {
			opts = append(opts, eventful.WithHTTPMethod(httpMethod))
		}
		doc, err = client.Invoke(ctx, args[0], params, opts...)
	} else {
		doc, err = client.Call(ctx, args[0], pairsToArgs(pairs))
	}
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if outputFmt != "" {
		format = outputFmt
	}
	if whereExpr != "" || recordsPath != "" {
		format = "records"
	}

	formatter := NewConsoleFormatter(cfg.Output.ShowAttributes)
	switch format {
	case "xml":
		fmt.Fprint(os.Stdout, doc.XML())
	case "records":
		records, err := selectRecords(doc, recordsPath)
		if err != nil {
			return err
		}
		if whereExpr != "" {
			records, err = filter.MatchNodes(ctx, whereExpr, records)
			if err != nil {
				return fmt.Errorf("invalid filter expression: %w", err)
			}
		}
		fmt.Fprint(os.Stdout, formatter.FormatRecords(records))
	case "tree":
		fmt.Fprint(os.Stdout, formatter.FormatTree(doc))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	return nil
}

type pair struct {
	name  string
	value string
}

// parsePairs splits name=value arguments, keeping their order.
func parsePairs(args []string) ([]pair, error) {
	pairs := make([]pair, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected name=value", arg)
		}
		pairs = append(pairs, pair{name: name, value: value})
	}
	return pairs, nil
}

// pairsToArgs folds pairs into call arguments; repeated names become a list.
func pairsToArgs(pairs []pair) eventful.Args {
	args := make(eventful.Args, len(pairs))
	for _, p := range pairs {
		switch prev := args[p.name].(type) {
		case nil:
			args[p.name] = p.value
		case string:
			args[p.name] = []string{prev, p.value}
		case []string:
			args[p.name] = append(prev, p.value)
		}
	}
	return args
}

// selectRecords resolves the record list. Without a path the first child of
// the document element that itself has element children is used, which is
// where list responses such as <search><events><event/>... keep their items.
func selectRecords(doc *eventful.Node, path string) ([]*eventful.Node, error) {
	if path != "" {
		records, err := doc.Records(strings.Split(strings.Trim(path, "/"), "/")...)
		if err != nil {
			return nil, fmt.Errorf("records path %q: %w", path, err)
		}
		return records, nil
	}

	root := doc.Root()
	for _, child := range root.Elements() {
		if len(child.Elements()) > 0 {
			return child.Elements(), nil
		}
	}
	return root.Elements(), nil
}
