package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (authenticate once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without re-authenticating.
While there is no session the token file is watched, so a token written by another
process is picked up without restarting.

Type 'help' to see available commands, 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(app.Ctx)
			defer cancel()

			go func() {
				if err := app.API.WatchToken(ctx); err != nil && !errors.Is(err, context.Canceled) {
					app.Logger.Warn("Token watcher stopped", zap.Error(err))
				}
			}()

			fmt.Fprintln(os.Stderr, "\n🚀 Starting interactive session...")
			fmt.Fprintln(os.Stderr, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := make(map[string]*cobra.Command)
			for _, subCmd := range cmd.Parent().Commands() {
				switch subCmd.Name() {
				case "interactive", "completion", "help":
				default:
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Fprint(os.Stderr, "> ")
				if !scanner.Scan() {
					break
				}

				parts, err := parseCommandLine(scanner.Text())
				if err != nil {
					fmt.Fprintf(os.Stderr, "❌ %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName, cmdArgs := parts[0], parts[1:]

				switch cmdName {
				case "exit", "quit":
					fmt.Fprintln(os.Stderr, "👋 Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Fprintf(os.Stderr, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				if err := runInteractive(targetCmd, cmdArgs); err != nil {
					fmt.Fprintf(os.Stderr, "❌ Error: %v\n\n", err)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// runInteractive runs a command's RunE directly so PersistentPreRunE, and
// with it authentication, is not repeated
func runInteractive(cmd *cobra.Command, args []string) error {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		if slice, ok := flag.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
			return
		}
		_ = flag.Value.Set(flag.DefValue)
	})

	if err := cmd.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	args = cmd.Flags().Args()

	if cmd.Args != nil {
		if err := cmd.Args(cmd, args); err != nil {
			return err
		}
	}
	if cmd.RunE != nil {
		return cmd.RunE(cmd, args)
	}
	if cmd.Run != nil {
		cmd.Run(cmd, args)
	}
	return nil
}

// parseCommandLine splits a line into words. Single and double quotes group
// words and a backslash escapes the next character outside single quotes.
func parseCommandLine(line string) ([]string, error) {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		words = append(words, current.String())
	}
	return words, nil
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Fprintln(os.Stderr, "\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(os.Stderr, "  %-50s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Fprintln(os.Stderr, "\n  help                                               Show this help message")
	fmt.Fprintln(os.Stderr, "  exit, quit                                         Exit the interactive session")
}
