/*
Package context provides utilities wrapping the native go/context package
for catching and handling multiple interrupts.

The main use-case is to attach an interrupt signal handler to the context used by the CLI,
so a long running query or batch is cancelled on the first interrupt and the process exits on the second.

	import "github.com/httpfn/httpfn/pkg/context"

	...

	body, err := client.Get(context.Context(), url)
	if err != nil {
		log.Fatal().Err(err).Msg("request failed")
	}
*/
package context
