package main

import (
	"fmt"
	"strings"

	"github.com/hupe1980/supportmesh"
	"github.com/hupe1980/supportmesh/support"
	"github.com/hupe1980/supportmesh/tool/mocktools"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workflow graph visualization",
	Long:  `Outputs a Mermaid (graph TD) or Graphviz DOT diagram of the support workflow. No credentials are needed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		wf, err := support.NewWorkflow(supportmesh.NewOfflineModel("offline"), mocktools.SupportRegistry())
		if err != nil {
			return err
		}

		if output != "" {
			if err := wf.WriteDiagram(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "diagram written to %s\n", output)
			return nil
		}

		switch strings.ToLower(format) {
		case "mermaid", "mmd":
			fmt.Fprint(cmd.OutOrStdout(), wf.Mermaid())
		case "dot", "gv":
			fmt.Fprint(cmd.OutOrStdout(), wf.DOT())
		default:
			return fmt.Errorf("unknown format %q (valid: mermaid, dot)", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringP("format", "f", "mermaid", "Diagram format (mermaid, dot)")
	graphCmd.Flags().StringP("output", "o", "", "Write the diagram to a file; the extension selects the format")
}
