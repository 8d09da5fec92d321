package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/s0up4200/eventful/eventful"
)

// ConsoleFormatter renders responses for console display
type ConsoleFormatter struct {
	showAttributes bool
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(showAttributes bool) *ConsoleFormatter {
	return &ConsoleFormatter{showAttributes: showAttributes}
}

// FormatTree formats a document as an indented tree
func (f *ConsoleFormatter) FormatTree(doc *eventful.Node) string {
	root := doc.Root()
	if root == nil {
		return "Empty response\n"
	}

	var sb strings.Builder
	sb.WriteString(f.label(root))
	sb.WriteString("\n")
	f.writeChildren(&sb, root, "")
	return sb.String()
}

func (f *ConsoleFormatter) writeChildren(sb *strings.Builder, n *eventful.Node, indent string) {
	children := n.Elements()
	for i, child := range children {
		isLast := i == len(children)-1
		prefix, next := "├── ", "│   "
		if isLast {
			prefix, next = "╰── ", "    "
		}

		fmt.Fprintf(sb, "%s%s%s\n", indent, prefix, f.label(child))
		f.writeChildren(sb, child, indent+next)
	}
}

// label renders "name [k=v]: text" for a single element
func (f *ConsoleFormatter) label(n *eventful.Node) string {
	var sb strings.Builder
	sb.WriteString(n.Name)
	if f.showAttributes && len(n.Attr) > 0 {
		sb.WriteString(" [")
		for i, k := range slices.Sorted(maps.Keys(n.Attr)) {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%s=%s", k, n.Attr[k])
		}
		sb.WriteString("]")
	}
	if text := n.InnerText(); text != "" {
		sb.WriteString(": ")
		sb.WriteString(text)
	}
	return sb.String()
}

// FormatRecords formats a list of records with their flattened fields
func (f *ConsoleFormatter) FormatRecords(records []*eventful.Node) string {
	if len(records) == 0 {
		return "No records found\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString("\nRecord")
	if len(records) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(records))

	for i, record := range records {
		isLast := i == len(records)-1
		prefix, indent := "├", "│   "
		if isLast {
			prefix, indent = "╰", "    "
		}

		fields := record.Fields()
		fmt.Fprintf(&sb, "%s── %s\n", prefix, recordTitle(record, fields))

		keys := slices.Sorted(maps.Keys(fields))
		for j, k := range keys {
			branch := "├─ "
			if j == len(keys)-1 {
				branch = "╰─ "
			}
			fmt.Fprintf(&sb, "%s%s%s: %v\n", indent, branch, k, fields[k])
		}

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func recordTitle(n *eventful.Node, fields map[string]any) string {
	title := n.Name
	for _, key := range []string{"title", "name"} {
		if v, ok := fields[key].(string); ok && v != "" {
			title = v
			break
		}
	}
	if id, ok := fields["id"].(string); ok && id != "" {
		return fmt.Sprintf("%s (%s)", title, id)
	}
	return title
}
