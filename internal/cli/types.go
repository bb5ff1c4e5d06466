package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/geonodes/internal/app"
	"github.com/vk/geonodes/internal/nodetree"
)

func newTypesCmd(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered node types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := app.NewRegistry()
			for _, name := range reg.Names() {
				nt, _ := reg.Lookup(name)
				fmt.Fprintln(outW, name)
				printSockets(outW, "in ", nt.Inputs)
				printSockets(outW, "out", nt.Outputs)
			}
			return nil
		},
	}
}

func printSockets(w io.Writer, direction string, specs []nodetree.SocketSpec) {
	for _, s := range specs {
		if s.Default != nil {
			fmt.Fprintf(w, "  %s %s %s = %v\n", direction, s.Identifier, s.Type, s.Default)
			continue
		}
		fmt.Fprintf(w, "  %s %s %s\n", direction, s.Identifier, s.Type)
	}
}
