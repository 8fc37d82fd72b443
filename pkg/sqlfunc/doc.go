/*
Package sqlfunc exposes the http client to SQL as two scalar functions on the pure go sqlite driver.

	http_get(url)                 -> body
	http_post(url, headers, body) -> body

Both functions block for the full round trip and raise a sql error carrying the request error message
when the status is not exactly 200 or no response was obtained. A NULL argument yields NULL.

	db, err := sqlfunc.Open(":memory:", client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	var body string
	err = db.QueryRowContext(ctx, "SELECT http_get(?)", "https://example.com").Scan(&body)
*/
package sqlfunc
