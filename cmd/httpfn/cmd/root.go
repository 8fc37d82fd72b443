package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/httpfn/httpfn/pkg/log"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// These global variables can be configured with the corresponding lowercase flag
var (
	Verbose string // Verbose defines the logging level, either trace, debug, info, error, fatal
	Output  string // Output defines the output format, either pretty, text, json

	cfgFile string
)

const envPrefix = "HTTPFN"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "httpfn",
	Short: "httpfn performs blocking http requests from the shell or from sql",
	Long: `httpfn wraps a one shot http client that is also exposed to sqlite
as the http_get(url) and http_post(url, headers, body) functions.

Every request fails unless the final status is exactly 200.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnInitialize(initLogging)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.httpfn.yaml)")

	pf.StringVarP(&Verbose, "verbose", "v", "info", "level of logging verbosity. can be error,info,debug,trace")
	pf.StringVarP(&Output, "output", "o", "pretty", "output format. can be json,text,pretty")

	pf.Duration("timeout", http.DefaultReadTimeout, "read timeout for every request")
	pf.Duration("connect-timeout", http.DefaultConnectTimeout, "timeout for establishing the connection. 0 is unbounded")
	pf.Int("max-redirects", http.DefaultMaxRedirects, "maximum number of redirects to follow")
	pf.Bool("no-follow", false, "do not follow redirects")
	pf.String("user-agent", http.DefaultUserAgent, "user agent to use for requests")
	pf.String("ca-file", "", "PEM bundle to verify servers with instead of the system roots")
	pf.Bool("insecure", false, "skip server certificate verification")
	pf.String("local-addr", "", "source ip address to bind outgoing connections to")

	for _, name := range []string{
		"verbose", "output",
		"timeout", "connect-timeout", "max-redirects", "no-follow",
		"user-agent", "ca-file", "insecure", "local-addr",
	} {
		viper.BindPFlag(name, pf.Lookup(name))
	}
}

func initLogging() {
	if err := log.SetFormat(viper.GetString("output")); err != nil {
		// the commands reject the bad output format themselves
		log.SetFormat(string(log.Pretty))
	}

	level := viper.GetString("verbose")
	if level != "" {
		if err := log.SetLevelString(level); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize logging")
		}
	}
	log.Debug().Str("level", level).Str("format", viper.GetString("output")).Msg("custom log settings")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".httpfn" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".httpfn")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientOptions maps the persistent flags, config file and environment onto client options
func clientOptions() []http.ConfigOption {
	return []http.ConfigOption{
		http.ReadTimeout(viper.GetDuration("timeout")),
		http.ConnectTimeout(viper.GetDuration("connect-timeout")),
		http.MaxRedirects(viper.GetInt("max-redirects")),
		http.FollowRedirects(!viper.GetBool("no-follow")),
		http.UserAgent(viper.GetString("user-agent")),
		http.CAFile(viper.GetString("ca-file")),
		http.InsecureSkipVerify(viper.GetBool("insecure")),
		http.LocalAddr(viper.GetString("local-addr")),
	}
}

func newClient(extra ...http.ConfigOption) (*http.Client, error) {
	opts := append(clientOptions(), extra...)
	c, err := http.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}
	log.Debug().
		Dur("timeout", c.Config().ReadTimeout).
		Int("max_redirects", c.Config().MaxRedirects).
		Dur("connect_timeout", c.Config().ConnectTimeout).
		Msg("client configured")
	return c, nil
}

// readBody resolves a -d value. A leading @ reads the rest as a file name, and @- reads stdin
func readBody(v string) (string, error) {
	if !strings.HasPrefix(v, "@") {
		return v, nil
	}
	name := strings.TrimPrefix(v, "@")
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read body from %s", name)
	}
	return string(b), nil
}
