package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/s0up4200/eventful/eventful"
)

// methodsCmd represents the methods command
var methodsCmd = &cobra.Command{
	Use:   "methods [prefix]",
	Short: "List the known API methods",
	Long:  `List the API methods in the method table, optionally limited to names starting with prefix (e.g. "events/").`,
	Args:  cobra.MaximumNArgs(1),
	Annotations: map[string]string{
		skipInit: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var prefix string
		if len(args) == 1 {
			prefix = strings.TrimPrefix(args[0], "/")
		}
		return writeMethods(os.Stdout, eventful.Methods, prefix)
	},
}

func writeMethods(out io.Writer, methods []eventful.Method, prefix string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tVERB\tREQUIRED\tOPTIONAL")

	var n int
	for _, m := range methods {
		if !strings.HasPrefix(m.Name(), prefix) {
			continue
		}
		n++
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name(), m.Verb(), listOrDash(m.Required), listOrDash(m.Optional))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("no methods match %q", prefix)
	}
	return nil
}

func listOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
