package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/haowjy/meridian-assistants-go"
)

func newMessageCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Create, retrieve and list thread messages",
	}
	cmd.AddCommand(
		newMessageCreateCmd(a),
		newMessageGetCmd(a),
		newMessageListCmd(a),
	)
	return cmd
}

func newMessageCreateCmd(a *app) *cobra.Command {
	var (
		role    string
		content string
		fileIDs []string
		set     []string
	)

	cmd := &cobra.Command{
		Use:   "create THREAD_ID",
		Short: "Create a message in a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := assistants.Pairs{
				{Key: "role", Value: role},
				{Key: "content", Value: content},
			}
			if len(fileIDs) > 0 {
				pairs = append(pairs, assistants.Pair{Key: "file_ids", Value: fileIDs})
			}
			extra, err := parseSet(set)
			if err != nil {
				return err
			}
			payload := a.client.Messages.Build(append(pairs, extra...))

			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Messages.Create(ctx, a.config(), args[0], payload)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "user", "message role")
	cmd.Flags().StringVarP(&content, "content", "c", "", "message text")
	cmd.Flags().StringSliceVar(&fileIDs, "file-id", nil, "attached file id (repeatable)")
	cmd.Flags().StringArrayVar(&set, "set", nil, "extra payload field as key=value (repeatable, unknown keys are dropped)")
	return cmd
}

func newMessageGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get THREAD_ID MESSAGE_ID",
		Short: "Retrieve a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Messages.Retrieve(ctx, a.config(), args[0], args[1])
			})
		},
	}
}

func newMessageListCmd(a *app) *cobra.Command {
	var params assistants.ListParams

	cmd := &cobra.Command{
		Use:   "list THREAD_ID",
		Short: "List the messages of a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, func(ctx context.Context) (assistants.Response, error) {
				return a.client.Messages.List(ctx, a.config(), args[0], &params)
			})
		},
	}
	addListFlags(cmd, &params)
	return cmd
}
