package cmd

import (
	"fmt"
	"strings"

	"github.com/httpfn/httpfn/pkg/context"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/spf13/cobra"
)

var (
	postHeaders = []string{}
	postBody    = ""
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post URL [-H 'Key: Value']... [-d BODY]",
	Short: "perform a POST with a json content type and print the body",
	Long: `post performs the same request as http_post(url, headers, body).

Every -H is one line of the header block. The body is sent verbatim and the
content type is always application/json. A body starting with @ is read from
the named file, and @- reads stdin.

usage:
httpfn post https://example.com/api -H 'X-Trace: abc123' -d '{"a":1}'
httpfn post https://example.com/api -d @payload.json
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := newClient()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid client configuration")
		}

		body, err := readBody(postBody)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read body")
		}

		resp, err := c.Post(context.Context(), args[0], strings.Join(postHeaders, "\n"), body)
		if err != nil {
			log.Fatal().Err(err).Str("url", args[0]).Msg("request failed")
		}
		fmt.Fprint(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringSliceVarP(&postHeaders, "header", "H", postHeaders, "header line to add to the request. can be repeated")
	postCmd.Flags().StringVarP(&postBody, "data", "d", postBody, "request body, or @file to read it from a file")
}
