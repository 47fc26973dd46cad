package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the bestof CLI with the process arguments.
//
// Logging goes to stderr at info level; --verbose (-v) lowers it to debug and
// routes observability events to the log.
//
//	func main() {
//	    ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	    defer cancel()
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	return command(New(os.Stderr, LogInfo)).ExecuteContext(ctx)
}

// command wires the persistent --verbose flag into the root command.
func command(c *CLI) *cobra.Command {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
			registerLogHooks(c.Logger)
		}
	}
	return root
}
