package cmd

import (
	"fmt"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/httpfn/httpfn/pkg/sqlfunc"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/httpfn/httpfn/cmd/httpfn/cmd.Version=..." by the release build
var (
	Version = "v0.0.0"
	Commit  = "commit"
	Date    = "today"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the httpfn build and the sql functions it registers",
	Long: `version prints the release, commit and build date of this httpfn binary.

It also lists the sql functions the query command registers with sqlite, and the
User-Agent sent when --user-agent is not given. Include this output when reporting
a request that behaves differently between builds.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "httpfn %s - %s\n", Version, Commit)
		fmt.Fprintf(out, "Built on %s\n", Date)
		fmt.Fprintf(out, "sql functions: %s(url), %s(url, headers, body)\n", sqlfunc.FuncGet, sqlfunc.FuncPost)
		fmt.Fprintf(out, "default user agent: %s\n", http.DefaultUserAgent)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
