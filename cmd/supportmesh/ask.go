package main

import (
	"fmt"
	"strings"

	"github.com/hupe1980/supportmesh"
	"github.com/hupe1980/supportmesh/logging"
	"github.com/hupe1980/supportmesh/tool/mocktools"
	"github.com/spf13/cobra"
)

const defaultAskPrompt = "What is the best food in Bangalore"

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [prompt...]",
	Short: "Run a single tool calling round trip with the travel tools",
	Long:  `Sends the prompt to the model with get_weather, book_flight and best_food declared, executes every requested call and asks the model again with the results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		llm, err := supportmesh.NewModel(cfg)
		if err != nil {
			return err
		}

		lc, err := cfg.LoggerConfig()
		if err != nil {
			return err
		}

		prompt := defaultAskPrompt
		if len(args) > 0 {
			prompt = strings.Join(args, " ")
		}

		res, err := supportmesh.Ask(cmd.Context(), llm, mocktools.TravelRegistry(), prompt, logging.NewLogger(lc))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Prompt: %s\n", prompt)
		for _, fc := range res.Calls {
			fmt.Fprintf(out, "Tool call: %s(%s) [%s]\n", fc.Name, fc.Arguments, fc.ID)
		}
		fmt.Fprintf(out, "Answer: %s\n", res.Answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
