package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cryptodiscord/cryptobot/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoHttp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"coins":[]}`))
		case "/slow":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		}
	}))
	defer srv.Close()
	client := &http.Client{Timeout: 100 * time.Millisecond}

	t.Run("ok", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/ok", nil)
		res := DoHttp(client, req)
		require.Nil(t, res.Error)
		assert.Equal(t, 200, res.Status)
		assert.Equal(t, `{"coins":[]}`, res.Content)
	})

	t.Run("status", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/fail", nil)
		res := DoHttp(client, req)
		require.NotNil(t, res.Error)
		assert.Equal(t, 500, res.Error.Code)
		assert.Equal(t, "boom", res.Content)
	})

	t.Run("timeout", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/slow", nil)
		res := DoHttp(client, req)
		require.NotNil(t, res.Error)
		assert.Equal(t, core.ErrNetTimeout, res.Error.Code)
	})
}

func TestDoHttpConnRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, _ := http.NewRequest(http.MethodGet, url, nil)
	res := DoHttp(&http.Client{Timeout: time.Second}, req)
	require.NotNil(t, res.Error)
	assert.Equal(t, core.ErrNetConnect, res.Error.Code)
	assert.True(t, core.IsNetErr(res.Error.Code))
}
