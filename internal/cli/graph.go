package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/graph"
	"github.com/matzehuels/codemeta/pkg/store"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		roles   bool
		rankdir string
	)
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Draw the credit graph of a CodeMeta document",
		Long: `Graph draws the software with its authors, contributors, maintainer,
affiliations, funders, requirements and publications.

The output format follows the file extension: .svg (rendered with Graphviz),
.dot or .json.

Examples:
  codemeta graph codemeta.json -o credits.svg
  codemeta graph codemeta.json -o credits.dot --roles --rankdir TB`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := store.ReadDocument(args[0])
			if err != nil {
				return usage(err)
			}
			g := graph.Build(doc)
			opts := graph.Options{Roles: roles, RankDir: strings.ToUpper(rankdir)}

			switch ext := strings.ToLower(filepath.Ext(output)); ext {
			case ".json":
				err = graph.WriteGraphFile(g, output)
			case ".dot", ".gv":
				err = store.WriteFileAtomic(output, []byte(graph.ToDOT(g, opts)), 0o644)
			case ".svg":
				spin := newSpinner(cmd.Context(), "Rendering "+output)
				spin.Start()
				var svg []byte
				svg, err = graph.RenderSVG(cmd.Context(), graph.ToDOT(g, opts))
				spin.Stop()
				if err == nil {
					err = store.WriteFileAtomic(output, svg, 0o644)
				}
			default:
				return usage(errors.New(errors.ErrCodeInvalidInput, "unsupported output format %q (want .svg, .dot or .json)", ext))
			}
			if err != nil {
				return err
			}
			printSuccess("Credit graph: %s", fmt.Sprintf("%d nodes, %d edges", g.NodeCount(), g.EdgeCount()))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "credits.svg", "output file (.svg, .dot or .json)")
	cmd.Flags().BoolVar(&roles, "roles", false, "label edges with roles")
	cmd.Flags().StringVar(&rankdir, "rankdir", "LR", "layout direction: LR, TB, RL or BT")
	return cmd
}
