package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/haowjy/meridian-assistants-go"
)

func newThreadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Create, retrieve and delete threads",
	}
	cmd.AddCommand(
		newThreadCreateCmd(a),
		newThreadGetCmd(a),
		newThreadDeleteCmd(a),
		newThreadAddMessageCmd(a),
	)
	return cmd
}

func newThreadCreateCmd(a *app) *cobra.Command {
	var (
		messages []string
		set      []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a thread, optionally seeded with user messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var pairs assistants.Pairs
			if len(messages) > 0 {
				seeded := make([]assistants.Payload, 0, len(messages))
				for _, content := range messages {
					seeded = append(seeded, a.client.Messages.Build(assistants.Payload{
						"role":    "user",
						"content": content,
					}))
				}
				pairs = append(pairs, assistants.Pair{Key: "messages", Value: seeded})
			}

			extra, err := parseSet(set)
			if err != nil {
				return err
			}
			payload := a.client.Threads.Build(append(pairs, extra...))

			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Threads.Create(ctx, a.config(), payload)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&messages, "message", "m", nil, "user message to seed the thread with (repeatable)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "extra payload field as key=value (repeatable, unknown keys are dropped)")
	return cmd
}

func newThreadGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get THREAD_ID",
		Short: "Retrieve a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Threads.Retrieve(ctx, a.config(), args[0])
			})
		},
	}
}

func newThreadDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete THREAD_ID",
		Short: "Delete a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Threads.Delete(ctx, a.config(), args[0])
			})
		},
	}
}

func newThreadAddMessageCmd(a *app) *cobra.Command {
	var (
		role    string
		content string
		set     []string
	)

	cmd := &cobra.Command{
		Use:   "add-message THREAD_ID",
		Short: "Append a message to a thread, sending the payload as given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := assistants.Pairs{
				{Key: "role", Value: role},
				{Key: "content", Value: content},
			}
			extra, err := parseSet(set)
			if err != nil {
				return err
			}
			payload := append(pairs, extra...).AsPayload()

			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Threads.AddMessage(ctx, a.config(), args[0], payload)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "message role")
	cmd.Flags().StringVarP(&content, "content", "c", "", "message text")
	cmd.Flags().StringArrayVar(&set, "set", nil, "extra payload field as key=value (repeatable, sent unfiltered)")
	return cmd
}
