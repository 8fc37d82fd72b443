/*
Package fetch contains the line oriented helpers behind the CLI: reading batch input, rendering request
templates, drawing the progress bar and writing results as a table, tab separated text or json lines.

	results, err := fetch.BatchInput(ctx, client, "urls.txt",
		fetch.URLTemplate("https://{line}/health"),
		fetch.Parallelism(8),
		fetch.ProgressBarEnabled(true),
	)
*/
package fetch
