package cmd

import (
	"fmt"

	"github.com/httpfn/httpfn/pkg/context"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get URL",
	Short: "perform a GET and print the body",
	Long: `get performs the same request as http_get(url) and prints the body verbatim.

The command fails unless the final status is exactly 200.

usage:
httpfn get https://example.com/
httpfn get example.com:8080/health --timeout 2s
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newClient()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid client configuration")
		}

		body, err := c.Get(context.Context(), args[0])
		if err != nil {
			log.Fatal().Err(err).Str("url", args[0]).Msg("request failed")
		}
		fmt.Fprint(cmd.OutOrStdout(), body)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
