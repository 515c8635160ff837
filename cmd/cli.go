package cmd

import (
	"strings"

	"github.com/jessevdk/go-flags"
)

// Run parses args and executes the selected sub-command.
func Run(args []string) error {
	setConfigPath(extractConfigPath(args))

	opts := &Options{}
	opts.Init(firstCommand(args))

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

// extractConfigPath searches the raw argument list for the -f/--config option
// before the full flags parsing is performed so that sub-commands can load the
// config early from a deterministic location.
func extractConfigPath(args []string) string {
	for i, a := range args {
		switch a {
		case "-f", "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		default:
			if strings.HasPrefix(a, "--config=") {
				return strings.TrimPrefix(a, "--config=")
			}
		}
	}
	return ""
}

// firstCommand returns the first argument that is neither a global option
// nor its value.
func firstCommand(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-f" || a == "--config":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			return a
		}
	}
	return ""
}
