/*
Package testServer provides a fasthttp server with fixed behaviours to point httpfn at when checking
redirects, status handling and body decoding by hand.

	/echo            echoes the request line, headers and body
	/status/{code}   replies with the given status code
	/redirect/{n}    redirects n times then replies 200
	/gzip            replies with a gzip encoded body

Usage

	go run ./cmd/testServer -p 14000-14002
	httpfn get localhost:14000/redirect/5
	httpfn query "SELECT http_post('http://localhost:14000/echo', 'X-Trace: 1', '{}')"

The server is used for testing, and should not be used in a production environment.
*/
package main
