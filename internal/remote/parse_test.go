package remote

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	urls := []string{
		"git@github.com:JNRowe/misc-overlay.git",
		"git@github.com:JNRowe/misc-overlay",
		"git://github.com/JNRowe/misc-overlay.git",
		"git://github.com/JNRowe/misc-overlay",
		"https://JNRowe@github.com/JNRowe/misc-overlay.git",
		"https://JNRowe@github.com/JNRowe/misc-overlay",
		"http://JNRowe@github.com/JNRowe/misc-overlay.git",
		"http://JNRowe@github.com/JNRowe/misc-overlay",
		"http://github.com/JNRowe/misc-overlay.git",
		"https://github.com/JNRowe/misc-overlay",
		"git+ssh://git@github.com:JNRowe/misc-overlay.git",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			got, err := Parse(u)
			require.NoError(t, err)
			assert.Equal(t, "JNRowe/misc-overlay", got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	urls := []string{
		"git://github.com/misc-overlay.git",
		"",
		"http://example.com/dog.git",
		"http://example.com/JNRowe/misc-overlay.git",
		"git@gitlab.com:JNRowe/misc-overlay.git",
		"https://github.com.evil.org/JNRowe/misc-overlay",
		"git@github.com/JNRowe/misc-overlay.git",
		"git://github.com:JNRowe/misc-overlay.git",
		"https://github.com:JNRowe/misc-overlay.git",
		"git+ssh://git@github.com/JNRowe/misc-overlay.git",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			_, err := Parse(u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnrecognizedURL))
		})
	}
}

func TestParseHost(t *testing.T) {
	got, err := ParseHost("git@ghe.example.com:team/tool.git", "ghe.example.com")
	require.NoError(t, err)
	assert.Equal(t, "team/tool", got)

	_, err = ParseHost("git@github.com:team/tool.git", "ghe.example.com")
	assert.ErrorIs(t, err, ErrUnrecognizedURL)
}

func TestWebHost(t *testing.T) {
	tests := map[string]string{
		"https://api.github.com":         "github.com",
		"https://api.github.com/":        "github.com",
		"https://ghe.example.com/api/v3": "ghe.example.com",
		"https://api.ghe.example.com":    "ghe.example.com",
		"":                               "github.com",
	}
	for in, want := range tests {
		assert.Equal(t, want, WebHost(in), in)
	}
}
