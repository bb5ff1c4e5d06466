package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// rootFlags are shared by every command.
type rootFlags struct {
	logLevel  string
	logFormat string
}

func newRootCmd(outW, errW io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "geonodes",
		Short:         "Evaluate geometry node trees",
		Long:          `geonodes evaluates declarative geometry node trees, written in HCL, on meshes stored as YAML.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("geonodes %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")

	root.AddCommand(newEvalCmd(flags, outW, errW))
	root.AddCommand(newTypesCmd(outW))
	return root
}

// isUsageError reports whether err came from cobra's argument handling
// rather than from a command.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.Contains(msg, "required flag")
}
