package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filepanel/internal/app"
)

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, &app.Config{}, cfg)
}

func TestParse_AllFlags(t *testing.T) {
	cfg, exit, err := Parse([]string{
		"-config", "base.hcl",
		"-config", "conf.d",
		"-remote", "http://files:8000",
		"-home", "/docs/",
		"-listen", ":9090",
		"-serve-files", "./data",
		"-files-listen", ":9000",
		"-log-format", "JSON",
		"-log-level", "Debug",
		"local.hcl",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, exit)

	assert.Equal(t, &app.Config{
		ConfigPaths:      []string{"base.hcl", "conf.d", "local.hcl"},
		RemoteURL:        "http://files:8000",
		HomeDirectory:    "/docs/",
		Listen:           ":9090",
		LogFormat:        "json",
		LogLevel:         "debug",
		FileServerRoot:   "./data",
		FileServerListen: ":9000",
	}, cfg)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, exit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "-serve-files")
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"unknown flag": {[]string{"-nope"}, "flag provided but not defined: -nope"},
		"log format":   {[]string{"-log-format", "xml"}, "invalid log-format"},
		"log level":    {[]string{"-log-level", "trace"}, "invalid log-level"},
		"empty config": {[]string{"-config", ""}, "configuration paths cannot be empty"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, exit, err := Parse(tc.args, &bytes.Buffer{})
			assert.False(t, exit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
