package main

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/supportmesh/tool"
	"github.com/hupe1980/supportmesh/tool/mocktools"
	"github.com/spf13/cobra"
)

// toolsCmd represents the tools command
var toolsCmd = &cobra.Command{
	Use:       "tools [support|travel]",
	Short:     "List the mock tools and their parameter schemas",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"support", "travel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		set := "support"
		if len(args) > 0 {
			set = args[0]
		}

		var reg *tool.Registry
		switch set {
		case "travel":
			reg = mocktools.TravelRegistry()
		default:
			reg = mocktools.SupportRegistry()
		}

		out := cmd.OutOrStdout()
		for _, def := range reg.Definitions() {
			schema, err := json.MarshalIndent(def.Function.Parameters, "  ", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n  %s\n", def.Function.Name, def.Function.Description, schema)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
