// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the CLI tree: either a group that dispatches
// to Subcommands or a leaf with a Run function.
type Command struct {
	// Name is the command name as typed by the user (e.g., "verify").
	Name string

	// Summary is a one-line description shown in the parent's help listing.
	Summary string

	// Description is a detailed multi-line description shown in the
	// command's own help output.
	Description string

	// Usage is the usage string (e.g., "wheelhouse pack <dir> [flags]").
	// If empty, it is synthesized from the command path and subcommands.
	Usage string

	// Examples are shown in the help output after the flags.
	Examples []Example

	// Flags returns a configured *pflag.FlagSet for this command. Called
	// lazily on first use. If nil, the command accepts no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are nested commands dispatched by the first positional arg.
	Subcommands []*Command

	// Run executes the command with the remaining args (after flag parsing).
	// Exactly one of Run or Subcommands should be set. If both are set,
	// Run is used when no subcommand matches.
	Run func(args []string) error

	// parent is set during dispatch to build the full command path for help.
	parent *Command
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// Execute parses args and dispatches down the command tree. This is
// the entry point main calls on the root command.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpArg(args[0]) {
		// "wheelhouse help pack" prints pack's help.
		if len(args) > 1 {
			if sub := c.subcommand(args[1]); sub != nil {
				sub.parent = c
				sub.PrintHelp(os.Stderr)
				return nil
			}
		}
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		if sub := c.subcommand(args[0]); sub != nil {
			sub.parent = c
			return sub.Execute(args[1:])
		}
		if len(c.Subcommands) > 0 {
			return c.unknownSubcommand(args[0])
		}
	}

	if c.Run == nil {
		c.PrintHelp(os.Stderr)
		if len(c.Subcommands) == 0 {
			return fmt.Errorf("no action defined for %q", c.fullName())
		}
		if len(args) > 0 {
			return fmt.Errorf("subcommand required (got flag %q)", args[0])
		}
		return fmt.Errorf("subcommand required")
	}
	return c.runLeaf(args)
}

// runLeaf parses the command's flags, if any, and invokes Run with the
// remaining positional arguments.
func (c *Command) runLeaf(args []string) error {
	if c.Flags == nil {
		return c.Run(args)
	}
	flagSet := c.Flags()
	// pflag's own error output and usage dump are suppressed; flag
	// errors get formatted with suggestions instead.
	flagSet.SetOutput(io.Discard)
	if err := flagSet.Parse(args); err != nil {
		return c.flagError(err, args)
	}
	return c.Run(flagSet.Args())
}

// flagError decorates a pflag parse failure with a typo suggestion
// when one is close enough, and a pointer at --help either way.
func (c *Command) flagError(parseErr error, args []string) error {
	if strings.Contains(parseErr.Error(), "unknown flag") {
		// Suggest against a fresh flag set: the failed parse left the
		// original mid-state.
		if hint := suggestFlag(args, c.Flags()); hint != "" {
			return fmt.Errorf("%s (did you mean %s?)\n\nRun '%s --help' for usage.",
				parseErr, hint, c.fullName())
		}
	}
	return fmt.Errorf("%s\n\nRun '%s --help' for usage.", parseErr, c.fullName())
}

// subcommand returns the direct subcommand with the given name.
func (c *Command) subcommand(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (c *Command) unknownSubcommand(name string) error {
	if hint := suggestCommand(name, c.Subcommands); hint != "" {
		return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
			name, hint, c.fullName())
	}
	return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.",
		name, c.fullName())
}

// PrintHelp writes structured help output to w: description, usage,
// subcommand table, flags, examples, footer.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	fmt.Fprintf(w, "Usage:\n  %s\n", c.usageLine())
	c.printSubcommands(w)
	c.printFlags(w)
	c.printExamples(w)

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", c.fullName())
	}
}

func (c *Command) usageLine() string {
	switch {
	case c.Usage != "":
		return c.Usage
	case len(c.Subcommands) > 0:
		return c.fullName() + " <command> [flags]"
	default:
		return c.fullName() + " [flags]"
	}
}

func (c *Command) printSubcommands(w io.Writer) {
	if len(c.Subcommands) == 0 {
		return
	}
	fmt.Fprintf(w, "\nCommands:\n")
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, sub := range c.Subcommands {
		fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
	}
	tw.Flush()
}

func (c *Command) printFlags(w io.Writer) {
	if c.Flags == nil {
		return
	}
	flagSet := c.Flags()
	var defaults strings.Builder
	flagSet.SetOutput(&defaults)
	flagSet.PrintDefaults()
	if defaults.Len() > 0 {
		fmt.Fprintf(w, "\nFlags:\n%s", defaults.String())
	}
}

func (c *Command) printExamples(w io.Writer) {
	if len(c.Examples) == 0 {
		return
	}
	fmt.Fprintf(w, "\nExamples:\n")
	for _, example := range c.Examples {
		if example.Description != "" {
			fmt.Fprintf(w, "  # %s\n", example.Description)
		}
		fmt.Fprintf(w, "  %s\n", example.Command)
		if example.Description != "" {
			fmt.Fprintln(w)
		}
	}
}

// fullName returns the complete command path (e.g., "wheelhouse cache prune").
func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

// isHelpArg reports whether arg is one of the help spellings handled
// before dispatch and flag parsing.
func isHelpArg(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
