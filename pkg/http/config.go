package http

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	DefaultConnectTimeout = 10 * time.Second
	// DefaultMaxRedirects is the redirect cap of the http library the functions were first written against
	DefaultMaxRedirects = 20
	DefaultUserAgent    = "httpfn"
)

// Config provides every option available when building a Client
type Config struct {
	// ReadTimeout bounds reading a response off the wire
	ReadTimeout time.Duration `toml:"read_timeout" json:"read_timeout" mapstructure:"read_timeout"`
	// WriteTimeout bounds writing the request
	WriteTimeout time.Duration `toml:"write_timeout" json:"write_timeout" mapstructure:"write_timeout"`
	// ConnectTimeout bounds the dial, including DNS resolution. 0 means no bound
	ConnectTimeout time.Duration `toml:"connect_timeout" json:"connect_timeout" mapstructure:"connect_timeout"`

	// FollowRedirects toggles following Location headers on 3xx responses
	FollowRedirects bool `toml:"follow_redirects" json:"follow_redirects" mapstructure:"follow_redirects"`
	// MaxRedirects corresponds to how many redirects to follow before failing with ErrorExceedRedirectCount
	MaxRedirects int `toml:"max_redirects" json:"max_redirects" mapstructure:"max_redirects"`

	// UserAgent is sent on every request. If empty, no User-Agent header is sent
	UserAgent string `toml:"user_agent" json:"user_agent" mapstructure:"user_agent"`
	// LocalAddr is the source IP to bind outgoing connections to
	LocalAddr string `toml:"local_addr" json:"local_addr" mapstructure:"local_addr"`

	// CAFile is a PEM bundle used instead of the system roots
	CAFile string `toml:"ca_file" json:"ca_file" mapstructure:"ca_file"`
	// InsecureSkipVerify disables server certificate verification
	InsecureSkipVerify bool `toml:"insecure" json:"insecure" mapstructure:"insecure"`

	// MaxResponseBodySize limits the body that will be read. 0 is unlimited
	MaxResponseBodySize int `toml:"max_response_body_size" json:"max_response_body_size" mapstructure:"max_response_body_size"`
	// DecodeBody decodes gzip, deflate and br bodies based on the Content-Encoding header
	DecodeBody bool `toml:"decode_body" json:"decode_body" mapstructure:"decode_body"`

	// Dial replaces the TCP dialer, e.g. with an in-memory listener. ConnectTimeout and LocalAddr are ignored
	Dial fasthttp.DialFunc `toml:"-" json:"-" mapstructure:"-"`
}

func NewDefaultConfig() *Config {
	return &Config{
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ConnectTimeout:  DefaultConnectTimeout,
		FollowRedirects: true,
		MaxRedirects:    DefaultMaxRedirects,
		UserAgent:       DefaultUserAgent,
		DecodeBody:      true,
	}
}

type ErrBadConfig struct {
	fields []string
}

func (e *ErrBadConfig) Error() string {
	return fmt.Sprintf("config has invalid values in: %v", strings.Join(e.fields, ", "))
}

// Fields returns the names of the invalid fields
func (e *ErrBadConfig) Fields() []string {
	return append([]string{}, e.fields...)
}

func (c *Config) Validate() error {
	badFields := make([]string, 0)
	if c.ReadTimeout < 0 {
		badFields = append(badFields, "ReadTimeout")
	}
	if c.WriteTimeout < 0 {
		badFields = append(badFields, "WriteTimeout")
	}
	if c.ConnectTimeout < 0 {
		badFields = append(badFields, "ConnectTimeout")
	}
	if c.MaxRedirects < 0 {
		badFields = append(badFields, "MaxRedirects")
	}
	if c.MaxResponseBodySize < 0 {
		badFields = append(badFields, "MaxResponseBodySize")
	}
	if c.LocalAddr != "" && net.ParseIP(c.LocalAddr) == nil {
		badFields = append(badFields, "LocalAddr")
	}
	if len(badFields) != 0 {
		return &ErrBadConfig{fields: badFields}
	}
	return nil
}

type ConfigOption func(*Config)

func ReadTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ReadTimeout = d
	}
}

func WriteTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.WriteTimeout = d
	}
}

func ConnectTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.ConnectTimeout = d
	}
}

func FollowRedirects(v bool) ConfigOption {
	return func(c *Config) {
		c.FollowRedirects = v
	}
}

func MaxRedirects(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRedirects = n
	}
}

func UserAgent(v string) ConfigOption {
	return func(c *Config) {
		c.UserAgent = v
	}
}

func LocalAddr(ip string) ConfigOption {
	return func(c *Config) {
		c.LocalAddr = ip
	}
}

func CAFile(path string) ConfigOption {
	return func(c *Config) {
		c.CAFile = path
	}
}

func InsecureSkipVerify(v bool) ConfigOption {
	return func(c *Config) {
		c.InsecureSkipVerify = v
	}
}

func MaxResponseBodySize(n int) ConfigOption {
	return func(c *Config) {
		c.MaxResponseBodySize = n
	}
}

func Dial(f fasthttp.DialFunc) ConfigOption {
	return func(c *Config) {
		c.Dial = f
	}
}

func DecodeBody(v bool) ConfigOption {
	return func(c *Config) {
		c.DecodeBody = v
	}
}

var (
	systemRoots     *x509.CertPool
	systemRootsErr  error
	systemRootsOnce sync.Once
)

// loadSystemRoots reads the system certificate pool exactly once per process. The pool is never
// mutated afterwards, so it is shared by every client
func loadSystemRoots() (*x509.CertPool, error) {
	systemRootsOnce.Do(func() {
		systemRoots, systemRootsErr = x509.SystemCertPool()
	})
	return systemRoots, systemRootsErr
}

// tlsConfig builds the tls.Config used by every connection of a client.
// Failures are wrapped in ErrLoadCerts so they surface as ErrorSSLLoadingCerts
func (c *Config) tlsConfig() (*tls.Config, error) {
	cfg := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}
	if c.InsecureSkipVerify {
		return cfg, nil
	}

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadCerts, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates found in %s", ErrLoadCerts, c.CAFile)
		}
		cfg.RootCAs = pool
		return cfg, nil
	}

	pool, err := loadSystemRoots()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadCerts, err)
	}
	cfg.RootCAs = pool
	return cfg, nil
}
