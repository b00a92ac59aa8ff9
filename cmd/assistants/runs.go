package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haowjy/meridian-assistants-go"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create, inspect and control runs",
	}
	cmd.AddCommand(
		newRunCreateCmd(a),
		newRunGetCmd(a),
		newRunListCmd(a),
		newRunCancelCmd(a),
		newRunSubmitToolOutputsCmd(a),
	)
	return cmd
}

func newRunCreateCmd(a *app) *cobra.Command {
	var (
		assistantID  string
		model        string
		instructions string
		tools        string
		set          []string
	)

	cmd := &cobra.Command{
		Use:   "create THREAD_ID",
		Short: "Start a run of an assistant on a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := assistants.Pairs{{Key: "assistant_id", Value: assistantID}}
			if model != "" {
				pairs = append(pairs, assistants.Pair{Key: "model", Value: model})
			}
			if instructions != "" {
				pairs = append(pairs, assistants.Pair{Key: "instructions", Value: instructions})
			}
			if tools != "" {
				var list []any
				if err := json.Unmarshal([]byte(tools), &list); err != nil {
					return fmt.Errorf("invalid --tools: expected a JSON array: %w", err)
				}
				pairs = append(pairs, assistants.Pair{Key: "tools", Value: list})
			}
			extra, err := parseSet(set)
			if err != nil {
				return err
			}
			payload := a.client.Runs.Build(append(pairs, extra...))

			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Runs.Create(ctx, a.config(), args[0], payload)
			})
		},
	}
	cmd.Flags().StringVarP(&assistantID, "assistant", "a", "", "assistant id")
	cmd.Flags().StringVar(&model, "model", "", "model override")
	cmd.Flags().StringVar(&instructions, "instructions", "", "instructions override")
	cmd.Flags().StringVar(&tools, "tools", "", `tools override as a JSON array, e.g. '[{"type":"retrieval"}]'`)
	cmd.Flags().StringArrayVar(&set, "set", nil, "extra payload field as key=value (repeatable, unknown keys are dropped)")
	return cmd
}

func newRunGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get THREAD_ID RUN_ID",
		Short: "Retrieve a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Runs.Retrieve(ctx, a.config(), args[0], args[1])
			})
		},
	}
}

func newRunListCmd(a *app) *cobra.Command {
	var params assistants.ListParams

	cmd := &cobra.Command{
		Use:   "list THREAD_ID",
		Short: "List the runs of a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Runs.List(ctx, a.config(), args[0], &params)
			})
		},
	}
	addListFlags(cmd, &params)
	return cmd
}

func newRunCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel THREAD_ID RUN_ID",
		Short: "Cancel an in-progress run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Runs.Cancel(ctx, a.config(), args[0], args[1])
			})
		},
	}
}

func newRunSubmitToolOutputsCmd(a *app) *cobra.Command {
	var outputs []string

	cmd := &cobra.Command{
		Use:   "submit-tool-outputs THREAD_ID RUN_ID",
		Short: "Submit tool call results to a run that requires action",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toolOutputs := make([]map[string]any, 0, len(outputs))
			for _, raw := range outputs {
				callID, output, ok := strings.Cut(raw, "=")
				if !ok || callID == "" {
					return fmt.Errorf("invalid --output %q: expected call_id=output", raw)
				}
				toolOutputs = append(toolOutputs, assistants.ToolOutput(callID, output))
			}

			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Runs.SubmitToolOutputs(ctx, a.config(), args[0], args[1], toolOutputs)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&outputs, "output", "o", nil, "tool output as call_id=output (repeatable)")
	return cmd
}
