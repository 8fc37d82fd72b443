package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/httpfn/httpfn/pkg/http"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	got, err := readBody(`{"inline":true}`)
	require.NoError(t, err)
	assert.Equal(t, `{"inline":true}`, got)

	got, err = readBody("@" + path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	_, err = readBody("@" + filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewClientFromFlags(t *testing.T) {
	c, err := newClient()
	require.NoError(t, err)
	assert.Equal(t, http.DefaultReadTimeout, c.Config().ReadTimeout)
	assert.Equal(t, http.DefaultMaxRedirects, c.Config().MaxRedirects)
	assert.True(t, c.Config().FollowRedirects)

	viper.Set("timeout", 2*time.Second)
	viper.Set("no-follow", true)
	defer viper.Set("timeout", http.DefaultReadTimeout)
	defer viper.Set("no-follow", false)

	c, err = newClient()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, c.Config().ReadTimeout)
	assert.False(t, c.Config().FollowRedirects)
}

func TestNewClientBadFlags(t *testing.T) {
	viper.Set("local-addr", "not-an-ip")
	defer viper.Set("local-addr", "")

	_, err := newClient()
	require.Error(t, err)

	var berr *http.ErrBadConfig
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, []string{"LocalAddr"}, berr.Fields())
}

func TestVersionOutput(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	out := buf.String()
	assert.Contains(t, out, "httpfn "+Version+" - "+Commit+"\n")
	assert.Contains(t, out, "Built on "+Date+"\n")
	assert.Contains(t, out, "sql functions: http_get(url), http_post(url, headers, body)\n")
	assert.Contains(t, out, "default user agent: "+http.DefaultUserAgent+"\n")
}
