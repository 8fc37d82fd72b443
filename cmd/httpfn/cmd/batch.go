package cmd

import (
	"github.com/httpfn/httpfn/internal/fetch"
	"github.com/httpfn/httpfn/pkg/context"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/spf13/cobra"
)

var (
	urlTemplate  = fetch.DefaultTemplate
	batchMethod  = ""
	batchHeaders = []string{}
	batchBody    = ""
	parallelism  = 1
	failFast     = false
	progressBar  = true
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch FILE|- [--template URL]",
	Short: "perform one request per input line",
	Long: `batch reads one input per line from a file or stdin ("-"), renders each line
through the url template and performs the requests with a pool of workers.

{line} is replaced with the input line and {index} with the zero based row
number. The same substitution applies to the body. Results are printed in input
order and every row fails on its own unless --fail-fast is set, in which case
the first failure cancels the rows that have not started.

If the input is not a file, it is used as the only line.

usage:
httpfn batch urls.txt
httpfn batch hosts.txt --template 'https://{line}/health' -j 16
cat ids.txt | httpfn batch - --template 'https://api.example.com/items/{line}' -o json
httpfn batch hosts.txt --template 'https://{line}/events' -d '{"host":"{line}"}' -H 'X-Trace: batch'
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := fetch.FormatFromString(Output)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid format")
		}

		c, err := newClient()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid client configuration")
		}

		body, err := readBody(batchBody)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read body")
		}

		opts := []fetch.BatchOption{
			fetch.URLTemplate(urlTemplate),
			fetch.Method(batchMethod),
			fetch.AddHeaders(batchHeaders),
			fetch.Body(body),
			fetch.Parallelism(parallelism),
			fetch.FailFast(failFast),
			fetch.ProgressBarEnabled(progressBar),
			fetch.OutputFormat(format),
			fetch.Writer(cmd.OutOrStdout()),
		}

		results, err := fetch.BatchInput(context.Context(), c, args[0], opts...)
		if err != nil {
			log.Fatal().Err(err).Int("failed", results.Failed()).Msg("batch failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&urlTemplate, "template", urlTemplate, "url template rendered for every line")
	batchCmd.Flags().StringVarP(&batchMethod, "method", "X", batchMethod, "request method. defaults to GET, or POST when a body is given")
	batchCmd.Flags().StringSliceVarP(&batchHeaders, "header", "H", batchHeaders, "header to add to every request. can be repeated")
	batchCmd.Flags().StringVarP(&batchBody, "data", "d", batchBody, "body template, or @file to read it from a file")
	batchCmd.Flags().IntVarP(&parallelism, "parallelism", "j", parallelism, "number of requests in flight at once")
	batchCmd.Flags().BoolVar(&failFast, "fail-fast", failFast, "cancel the remaining rows after the first failure")
	batchCmd.Flags().BoolVar(&progressBar, "progress", progressBar, "a progress bar while running. drawn on stderr")
}
