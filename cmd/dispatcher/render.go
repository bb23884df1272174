package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lead-dispatcher/internal/common/observability"
	"lead-dispatcher/internal/models"
)

var renderCmd = &cobra.Command{
	Use:   "render <payload.json>",
	Short: "Run a saved call report through the pipeline without sending email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		dry := *cfg
		dry.Notifications.Provider = "log"
		dry.Notifications.SNS.TopicARN = ""
		dry.Dedup.Enabled = false

		a, err := newApp(cmd.Context(), &dry, log, &observability.Observability{})
		if err != nil {
			return err
		}
		defer a.Close()

		event, err := models.ParseCallEvent(body)
		if err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}

		out, err := a.service.Execute(cmd.Context(), event)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
