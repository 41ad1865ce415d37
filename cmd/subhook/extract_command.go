package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <path>",
		Short: "Trigger subtitle extraction for a media file",
		Long:  "Sends the given filesystem path to the subhook daemon, which runs the extraction script on it and relays its output.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.serverBaseURL()
			if err != nil {
				return err
			}

			payload, err := json.Marshal(map[string]string{"path": args[0]})
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, base+"/extract", bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("build request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			if token := ctx.authToken(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			// No client timeout: the daemon blocks until the script exits.
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("contact daemon at %s: %w", base, err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, string(body))
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("extraction failed with HTTP %d", resp.StatusCode)
			}
			return nil
		},
	}
}
