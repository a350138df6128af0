// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the tflitec-build command tree.
type Command struct {
	Name string

	// Summary is the one-line text listed under the parent's Commands.
	Summary string

	// Description heads the command's own help. Summary is used when
	// it is empty.
	Description string

	// Usage overrides the generated usage line.
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per parse,
	// so the returned set must be fresh.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	// On a command with Subcommands it runs when the first argument
	// names none of them.
	Run func(ctx context.Context, args []string) error

	parent     *Command
	helpOutput io.Writer
}

// Example is one invocation shown under Examples in help.
type Example struct {
	Description string
	Command     string
}

// Execute runs the command selected by args.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.help())
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub := c.lookup(args[0])
		if sub == nil {
			return c.usageError("unknown command %q%s", args[0], didYouMean(suggestCommand(args[0], c.Subcommands), true))
		}
		sub.parent, sub.helpOutput = c, c.helpOutput
		return sub.Execute(ctx, args[1:])
	}

	if c.Run == nil {
		c.PrintHelp(c.help())
		if len(c.Subcommands) == 0 {
			return fmt.Errorf("%s: command has no action", c.fullName())
		}
		if len(args) == 0 {
			return Validation("subcommand required")
		}
		return Validation("subcommand required (got flag %q)", args[0])
	}

	positional, helped, err := c.parseFlags(args)
	if err != nil || helped {
		return err
	}
	return c.Run(ctx, positional)
}

// parseFlags returns the positional arguments. helped reports that
// --help was given and help has been printed.
func (c *Command) parseFlags(args []string) (positional []string, helped bool, err error) {
	if c.Flags == nil {
		return args, false, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	err = flagSet.Parse(args)
	switch {
	case err == nil:
		return flagSet.Args(), false, nil
	case errors.Is(err, pflag.ErrHelp):
		c.PrintHelp(c.help())
		return nil, true, nil
	}
	message := err.Error()
	if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand flag") {
		// The failed parse may have mutated flagSet; suggest from a new one.
		return nil, false, c.usageError("%s%s", message, didYouMean(suggestFlag(args, c.Flags()), false))
	}
	return nil, false, c.usageError("%s", message)
}

func (c *Command) lookup(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (c *Command) usageError(format string, args ...any) error {
	return Validation("%s\n\nRun '%s --help' for usage.", fmt.Sprintf(format, args...), c.fullName())
}

func didYouMean(suggestion string, quote bool) string {
	switch {
	case suggestion == "":
		return ""
	case quote:
		return fmt.Sprintf(" (did you mean %q?)", suggestion)
	default:
		return " (did you mean " + suggestion + "?)"
	}
}

// PrintHelp writes the command's help text to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()
	if heading := firstNonEmpty(c.Description, c.Summary); heading != "" {
		fmt.Fprintf(w, "%s\n\n", heading)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprint(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if flags := c.Flags().FlagUsages(); flags != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", flags)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprint(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description == "" {
				fmt.Fprintf(w, "  %s\n", example.Command)
				continue
			}
			fmt.Fprintf(w, "  # %s\n  %s\n\n", example.Description, example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for details on a command.\n", name)
	}
}

// SetHelpOutput sends help text to w instead of stderr.
func (c *Command) SetHelpOutput(w io.Writer) {
	c.helpOutput = w
}

func (c *Command) help() io.Writer {
	if c.helpOutput == nil {
		return os.Stderr
	}
	return c.helpOutput
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
