package cmd

import (
	"database/sql"

	"github.com/httpfn/httpfn/internal/fetch"
	"github.com/httpfn/httpfn/pkg/context"
	"github.com/httpfn/httpfn/pkg/http"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/httpfn/httpfn/pkg/sqlfunc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	dsn = ":memory:"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query SQL",
	Short: "run sql against sqlite with http_get and http_post available",
	Long: `query opens the database with the http functions registered and renders
every row in the output format.

Each function call blocks for its request. Rows are evaluated one after the
other and the first failing request aborts the statement.

usage:
httpfn query "SELECT http_get('https://example.com/')"
httpfn query --db urls.db "SELECT url, length(http_get(url)) FROM urls" -o json
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

		db, err := openDB(dsn, c)
		if err != nil {
			log.Fatal().Err(err).Str("db", dsn).Msg("failed to open database")
		}
		defer db.Close()

		if err := fetch.Query(context.Context(), db, args[0], cmd.OutOrStdout(), format); err != nil {
			log.Fatal().Err(err).Msg("query failed")
		}
	},
}

// openDB binds the functions to the interruptible context, so an interrupt fails the running statement
func openDB(dsn string, c *http.Client) (*sql.DB, error) {
	if err := sqlfunc.RegisterContext(context.Context(), c); err != nil {
		return nil, errors.Wrap(err, "failed to register sql functions")
	}
	db, err := sql.Open(sqlfunc.DriverName, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", dsn)
	}
	// every connection to :memory: is a different database
	db.SetMaxOpenConns(1)
	return db, nil
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&dsn, "db", dsn, "sqlite dsn to open")
}
