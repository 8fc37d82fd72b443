/*
Package cmd provides all the commands for the httpfn binary.

The commands are separated by file, one per subcommand. The client flags are persistent and bound into
viper, so each one can also be set in $HOME/.httpfn.yaml or through an HTTPFN_ prefixed environment
variable, e.g. HTTPFN_MAX_REDIRECTS=5 or HTTPFN_CA_FILE=/etc/ssl/internal.pem

Usage

	httpfn get https://example.com/
	httpfn query "SELECT http_get('https://example.com/')"
*/
package cmd
