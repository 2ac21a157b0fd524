package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// errInvalid is returned by commands that reported an invalid request on stdout.
var errInvalid = errors.New("request is invalid")

// Command represents a CLI subcommand
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Run         func(args []string) error
}

// NewFlagSet creates a flag set for the command with a usage text built from
// its description and examples.
func (c *Command) NewFlagSet(out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c.Name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "%s\n\nUSAGE:\n    %s\n", c.Description, c.Usage)
		fmt.Fprintln(out, "\nFLAGS:")
		fs.PrintDefaults()
		if len(c.Examples) > 0 {
			fmt.Fprintln(out, "\nEXAMPLES:")
			for _, ex := range c.Examples {
				fmt.Fprintf(out, "    %s\n", ex)
			}
		}
	}
	return fs
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]*Command
	order    []string
	version  VersionInfo
	out      io.Writer
	errOut   io.Writer
}

// VersionInfo holds build-time version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(v VersionInfo, out, errOut io.Writer) *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]*Command),
		version:  v,
		out:      out,
		errOut:   errOut,
	}
}

// Register adds a command to the registry. Help lists commands in registration order.
func (r *CommandRegistry) Register(cmd *Command) {
	if _, ok := r.commands[cmd.Name]; !ok {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

// Execute runs the appropriate command based on args
func (r *CommandRegistry) Execute(args []string) error {
	if len(args) < 1 {
		r.PrintHelp(r.errOut)
		return fmt.Errorf("no command specified")
	}

	cmdName := args[0]
	switch cmdName {
	case "help", "-h", "--help":
		r.PrintHelp(r.out)
		return nil
	}

	cmd, ok := r.commands[cmdName]
	if !ok {
		r.PrintHelp(r.errOut)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	err := cmd.Run(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

// PrintHelp prints overall CLI help
func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "provisionctl - inspect, validate and apply account provisioning requests")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "    provisionctl <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	for _, name := range r.order {
		fmt.Fprintf(w, "    %-12s %s\n", name, r.commands[name].Description)
	}
	fmt.Fprintf(w, "    %-12s %s\n", "help", "Show this help")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'provisionctl <command> -h' for more information on a command.")
}

// TableWriter provides simple table formatting
type TableWriter struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTableWriter creates a new table writer
func NewTableWriter(headers ...string) *TableWriter {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &TableWriter{
		headers: headers,
		widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *TableWriter) AddRow(row ...string) {
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if i < len(t.widths) && len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
}

// Print writes the table as left-aligned columns.
func (t *TableWriter) Print(w io.Writer) {
	t.printRow(w, t.headers)
	for _, row := range t.rows {
		t.printRow(w, row)
	}
}

func (t *TableWriter) printRow(w io.Writer, row []string) {
	cells := make([]string, 0, len(t.widths))
	for i, width := range t.widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells = append(cells, fmt.Sprintf("%-*s", width, cell))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
}
