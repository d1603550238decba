package handler_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaygroundPage(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, string(body), `id="result"`)

	resp, err = http.Get(app.srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPlaygroundRun_PatchesResult(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "a@x.com", "secret")
	token := app.login(t, "a@x.com", "secret").AccessToken

	tests := []struct {
		name     string
		signals  map[string]string
		contains []string
	}{
		{
			name:     "public query",
			signals:  map[string]string{"query": "{ books { _id } }"},
			contains: []string{"event: datastar-patch-elements", `id="result"`, `class="ok"`, "books"},
		},
		{
			name:     "protected query with token",
			signals:  map[string]string{"query": "{ me { email } }", "token": token},
			contains: []string{"a@x.com"},
		},
		{
			name:     "protected query without token",
			signals:  map[string]string{"query": "{ me { email } }"},
			contains: []string{"UNAUTHENTICATED", `class="error"`},
		},
		{
			name:     "bad variables",
			signals:  map[string]string{"query": "{ books { _id } }", "variables": "[1"},
			contains: []string{"variables must be a JSON object"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := app.call(t, http.MethodPost, "/playground/run", "", tt.signals, nil)
			require.Equal(t, http.StatusOK, status)
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}
