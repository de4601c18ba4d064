package main

import (
	"fmt"
	"strings"

	"github.com/mikelady/voicegit/internal/services"
	"github.com/spf13/cobra"
)

func newGenerateCmd(configPath *string) *cobra.Command {
	var systemPrompt string

	cmd := &cobra.Command{
		Use:   "generate <transcript>",
		Short: "Print a commit message for a transcript",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript := strings.TrimSpace(strings.Join(args, " "))
			if transcript == "" {
				return services.ErrEmptyTranscript
			}

			ctx := cmd.Context()
			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.initGateway(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), a.gateway.GenerateCommitMessage(ctx, transcript, systemPrompt))
			return nil
		},
	}
	cmd.Flags().StringVar(&systemPrompt, "system-prompt", services.CommitMessageSystemPrompt, "system prompt sent with the transcript")
	return cmd
}
