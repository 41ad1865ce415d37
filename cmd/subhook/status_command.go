package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the subhook daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.serverBaseURL()
			if err != nil {
				return err
			}

			// The daemon exposes only /extract; a parameterless GET answers
			// 400 when the daemon is up, which is all the probe needs.
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, base+"/extract", nil)
			if err != nil {
				return fmt.Errorf("build request: %w", err)
			}
			if token := ctx.authToken(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}

			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("subhookd is not reachable at %s: %w", base, err)
			}
			defer resp.Body.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "subhookd is running at %s\n", base)
			return nil
		},
	}
}
