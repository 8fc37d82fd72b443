/*
Package httpfn provides a blocking http client exposed to sqlite as the http_get and http_post scalar
functions, and a CLI to drive it.

There are no exports in the root package.

Packages:
	- pkg/http - url splitting, header block parsing, the request executor and its error table
	- pkg/sqlfunc - registers http_get(url) and http_post(url, headers, body) with modernc.org/sqlite

CLI tools part of `cmd/` include:
	- httpfn - get, post, query and batch commands over the same client
	- testServer - a fasthttp server with echo, status, redirect and gzip routes for manual checks
*/
package httpfn
