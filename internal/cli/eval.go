package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/geonodes/internal/app"
	"github.com/vk/geonodes/internal/ctxlog"
)

type evalFlags struct {
	tree            string
	mesh            string
	out             string
	primitive       string
	updateInterface bool
	strict          bool
}

func newEvalCmd(root *rootFlags, outW, errW io.Writer) *cobra.Command {
	flags := &evalFlags{}

	cmd := &cobra.Command{
		Use:   "eval [TREE_PATH]",
		Short: "Evaluate a node tree on a mesh",
		Long: `Evaluate a node tree on a mesh and write the resulting geometry as YAML.

TREE_PATH is a single .hcl file or a directory containing .hcl files. Without
--mesh the tree is applied to a built-in primitive.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctxlog.FromContext(cmd.Context())

			path := flags.tree
			if path == "" && len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				logger.Debug("No tree path provided, printing usage and exiting.")
				return cmd.Usage()
			}

			config, err := app.NewConfig(app.Config{
				TreePath:        path,
				MeshPath:        flags.mesh,
				OutPath:         flags.out,
				Primitive:       strings.ToLower(flags.primitive),
				UpdateInterface: flags.updateInterface,
				Strict:          flags.strict,
				LogFormat:       strings.ToLower(root.logFormat),
				LogLevel:        strings.ToLower(root.logLevel),
			})
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			return app.NewApp(outW, errW, config).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.tree, "tree", "t", "", "Path to the tree file or directory.")
	cmd.Flags().StringVarP(&flags.mesh, "mesh", "m", "", "Path to the input geometry YAML file.")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Path of the output geometry YAML file. Defaults to stdout.")
	cmd.Flags().StringVar(&flags.primitive, "primitive", app.PrimitiveCube, "Input primitive when no mesh is given. Options: 'cube' or 'grid'.")
	cmd.Flags().BoolVar(&flags.updateInterface, "update-interface", false, "Sync settings with the tree's group inputs before evaluating.")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Fail instead of passing the input through when the tree cannot be evaluated.")
	return cmd
}
