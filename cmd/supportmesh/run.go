package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hupe1980/supportmesh"
	"github.com/hupe1980/supportmesh/core"
	"github.com/hupe1980/supportmesh/metrics"
	"github.com/hupe1980/supportmesh/support"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// samplePrompts are used when run is called without a message.
var samplePrompts = []string{
	"I'm a VIP customer, Check order ORD123 status and issue a refund",
	"Check my order ORD123 and issue my refund",
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [message...]",
	Short: "Route support messages through the workflow",
	Long:  `Routes each message through check_tier, classify_issue and the selected agent, printing the classification, the visited path and the resulting conversation. Without arguments two sample messages are used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("diagram") {
			cfg.DiagramPath, _ = cmd.Flags().GetString("diagram")
		}
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var collector *metrics.Collector
		if metricsAddr != "" {
			if collector, err = metrics.NewCollector(prometheus.NewRegistry()); err != nil {
				return err
			}
		}

		mesh, err := supportmesh.FromConfig(cfg, func(o *supportmesh.Options) {
			o.Metrics = collector
		})
		if err != nil {
			return err
		}

		prompts := samplePrompts
		if len(args) > 0 {
			prompts = []string{strings.Join(args, " ")}
		}

		out := cmd.OutOrStdout()
		for _, prompt := range prompts {
			res, err := mesh.Handle(ctx, prompt)
			if err != nil {
				return err
			}
			printResult(out, res)
		}

		if collector == nil {
			return nil
		}
		return serveMetrics(ctx, metricsAddr, collector.Handler(), out)
	},
}

func printResult(w io.Writer, res *support.Result) {
	fmt.Fprintf(w, "tier: %s, issue: %s\n", res.State.UserTier, res.State.IssueType)

	path := make([]string, len(res.Path))
	for i, n := range res.Path {
		path[i] = string(n)
	}
	fmt.Fprintf(w, "path: %s\n", strings.Join(path, " -> "))

	for _, msg := range res.State.Messages() {
		fmt.Fprintf(w, "%s: %s\n", msg.Role, describe(msg))
	}
	fmt.Fprintln(w)
}

func describe(msg core.Message) string {
	switch {
	case msg.IsToolResult():
		var parts []string
		for _, fr := range msg.FunctionResponses() {
			parts = append(parts, fmt.Sprintf("[%s %s] %s", fr.Name, fr.ID, fr.Content()))
		}
		return strings.Join(parts, " ")
	case msg.HasFunctionCalls():
		var parts []string
		for _, fc := range msg.FunctionCalls() {
			parts = append(parts, fmt.Sprintf("%s(%s)", fc.Name, fc.Arguments))
		}
		text := msg.Text()
		if text != "" {
			text += " "
		}
		return text + "calls " + strings.Join(parts, ", ")
	default:
		return msg.Text()
	}
}

// serveMetrics exposes metrics until ctx is canceled.
func serveMetrics(ctx context.Context, addr string, handler http.Handler, out io.Writer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	fmt.Fprintf(out, "Metrics available at http://%s/metrics. Press Ctrl+C to exit.\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("diagram", "", "Write the workflow diagram to this path (.mmd or .dot)")
	runCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address after the run (e.g. :2112)")
}
