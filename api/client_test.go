package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "bot-secret"

type seenReq struct {
	path  string
	query url.Values
}

func newFakeApi(t *testing.T, status int, body string) (*httptest.Server, chan seenReq) {
	seen := make(chan seenReq, 4)
	signer := NewSigner(testSecret)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce := r.Header.Get(HeaderNonce)
		if !signer.Verify(nonce, r.Header.Get(HeaderSignature)) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Invalid Signature"))
			return
		}
		assert.Equal(t, http.MethodGet, r.Method)
		seen <- seenReq{path: r.URL.Path, query: r.URL.Query()}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		q      query.ParsedQuery
		path   string
		params map[string]string
	}{
		{"all assets", query.ParsedQuery{Exchange: query.ExchangeAll, Action: query.ActionAssets},
			PathMyAssets, map[string]string{"discord_id": "7"}},
		{"exchange assets", query.ParsedQuery{Exchange: query.ExchangeBithumb, Action: query.ActionAssets},
			PathExchangeAssets, map[string]string{"discord_id": "7", "exchange": "bithumb"}},
		{"trades bare", query.ParsedQuery{Exchange: query.ExchangeGateio, Action: query.ActionTrades},
			PathTrades, map[string]string{"discord_id": "7", "exchange": "gateio"}},
		{"trades full", query.ParsedQuery{Exchange: query.ExchangeBithumb, Action: query.ActionTrades,
			Market: "KRW-BTC", State: query.StateDone},
			PathTrades, map[string]string{"discord_id": "7", "exchange": "bithumb", "market": "KRW-BTC", "state": "done"}},
		{"trades unknown exchange", query.ParsedQuery{Action: query.ActionTrades},
			PathTrades, map[string]string{"discord_id": "7", "exchange": "unknown"}},
		{"trades all", query.ParsedQuery{Exchange: query.ExchangeAll, Action: query.ActionTrades, State: query.StateWatch},
			PathTrades, map[string]string{"discord_id": "7", "exchange": "all", "state": "watch"}},
	}
	for _, c := range tests {
		t.Run(c.name, func(t *testing.T) {
			path, params, err := Endpoint(c.q, "7")
			require.Nil(t, err)
			assert.Equal(t, c.path, path)
			assert.Len(t, params, len(c.params))
			for k, v := range c.params {
				assert.Equal(t, v, params.Get(k), k)
			}
		})
	}
}

func TestEndpointUnsupported(t *testing.T) {
	_, _, err := Endpoint(query.ParsedQuery{Exchange: query.ExchangeAll, Action: query.ActionPnl}, "7")
	require.NotNil(t, err)
	assert.Equal(t, core.ErrUnsupportedAction, err.Code)
}

func TestDispatch(t *testing.T) {
	srv, seen := newFakeApi(t, http.StatusOK, `{"coins":[]}`)
	c := NewClient(srv.URL+"/", testSecret, 0)
	q := query.ParsedQuery{Exchange: query.ExchangeBithumb, Action: query.ActionTrades, Market: "KRW-BTC"}

	body, err := c.Dispatch(context.Background(), q, "12345")
	require.Nil(t, err)
	assert.Equal(t, `{"coins":[]}`, string(body))

	req := <-seen
	assert.Equal(t, PathTrades, req.path)
	assert.Equal(t, "12345", req.query.Get("discord_id"))
	assert.Equal(t, "KRW-BTC", req.query.Get("market"))
	assert.False(t, req.query.Has("state"))
}

func TestDispatchBadSecret(t *testing.T) {
	srv, _ := newFakeApi(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, "wrong", 0)
	_, err := c.Dispatch(context.Background(), query.Parse("전체 자산"), "1")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusUnauthorized, err.Code)
}

func TestDispatchStatusError(t *testing.T) {
	srv, _ := newFakeApi(t, http.StatusInternalServerError, "지원하지 않는 거래소입니다.")
	c := NewClient(srv.URL, testSecret, 0)
	_, err := c.Dispatch(context.Background(), query.Parse("1 자산"), "1")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusInternalServerError, err.Code)
	assert.Contains(t, err.Error(), "지원하지 않는 거래소입니다.")
}

func TestDispatchSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSecret, 50*time.Millisecond)
	_, err := c.Dispatch(context.Background(), query.Parse("전체 자산"), "1")
	require.NotNil(t, err)
	assert.Equal(t, core.ErrNetTimeout, err.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDispatchUnsupportedSkipsNetwork(t *testing.T) {
	srv, seen := newFakeApi(t, http.StatusOK, `{}`)
	c := NewClient(srv.URL, testSecret, 0)
	_, err := c.Dispatch(context.Background(), query.Parse("전체 수익"), "1")
	require.NotNil(t, err)
	assert.Equal(t, core.ErrUnsupportedAction, err.Code)
	assert.Len(t, seen, 0)
}
