/*
Package http provides one-shot HTTP requests on top of the fasthttp library.

Every request is a single linear sequence: split the url, dial the host, send, await the response,
classify, return. There is exactly one attempt. Nothing is retried or cached, and no connections are
kept between calls.

	c, err := http.NewClient()
	if err != nil {
		return err
	}
	body, err := c.Get(ctx, "https://example.com/status")

Failures come back as one of two typed errors so callers can tell them apart without string matching

 - *StatusError: a response was received but the status code was not exactly 200. 201 and 204 are failures too
 - *TransportError: no response was obtained. The message is a fixed sentence picked by ErrorKind

The url splitter and header parser are forgiving. A url without a scheme is treated as
a bare host, a header line without a colon is dropped, and neither reports an error. Garbage input
surfaces as a connection error when the request is made.

DoBatch runs many requests over a worker pool while preserving the order of the results.
*/
package http
