package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := client.GetText("/healthz")
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(HealthResult{Status: strings.TrimSpace(body)})
			return nil
		},
	}
}
