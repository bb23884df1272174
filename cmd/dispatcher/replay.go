package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	commonhttp "lead-dispatcher/internal/common/http"
)

var (
	replayURL     string
	replayTimeout time.Duration
)

var replayCmd = &cobra.Command{
	Use:         "replay <payload.json>",
	Short:       "POST a saved call report to a running webhook",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		if !json.Valid(body) {
			return fmt.Errorf("%s is not valid JSON", args[0])
		}

		var resp map[string]interface{}
		client := commonhttp.NewClient(replayTimeout)
		if err := client.PostJSON(cmd.Context(), replayURL, nil, json.RawMessage(body), &resp); err != nil {
			return fmt.Errorf("replay to %s: %w", replayURL, err)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayURL, "url", "http://localhost:8000/webhook", "webhook URL")
	replayCmd.Flags().DurationVar(&replayTimeout, "timeout", 30*time.Second, "request timeout")
	rootCmd.AddCommand(replayCmd)
}
