package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/query"
	"github.com/cryptodiscord/cryptobot/utils"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 30 * time.Second

	PathMyAssets       = "/my-assets"
	PathExchangeAssets = "/assets/exchange"
	PathTrades         = "/trades"
)

/*
Client
sends signed GET requests to the account API. One attempt per call: no retry, no backoff.
*/
type Client struct {
	baseURL string
	signer  *Signer
	http    *http.Client
}

func NewClient(baseURL, secret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  NewSigner(secret),
		http:    &http.Client{Timeout: timeout},
	}
}

/*
Dispatch
picks the endpoint for q, attaches fresh auth headers and returns the raw JSON body.
Remote status failures carry the HTTP status as error code; transport failures carry
a core.ErrNet* code.
*/
func (c *Client) Dispatch(ctx context.Context, q query.ParsedQuery, userID string) ([]byte, *errs.Error) {
	path, params, err := Endpoint(q, userID)
	if err != nil {
		return nil, err
	}
	reqUrl := c.baseURL + path + "?" + params.Encode()
	req, err_ := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err_ != nil {
		return nil, errs.New(core.ErrRunTime, err_)
	}
	c.signer.Sign().Apply(req.Header)
	start := time.Now()
	res := utils.DoHttp(c.http, req)
	fields := []zap.Field{zap.String("path", path), zap.String("user", userID),
		zap.Int("status", res.Status), zap.Duration("cost", time.Since(start))}
	if res.Error != nil {
		log.Warn("account api call fail", append(fields, zap.Error(res.Error))...)
		return nil, res.Error
	}
	log.Info("account api call done", fields...)
	return []byte(res.Content), nil
}

/*
Endpoint
maps a parsed query to the account API path and query parameters.
The exchange is passed verbatim, including "unknown".
*/
func Endpoint(q query.ParsedQuery, userID string) (string, url.Values, *errs.Error) {
	params := url.Values{}
	params.Set("discord_id", userID)
	switch q.Action {
	case query.ActionAssets:
		if q.Exchange == query.ExchangeAll {
			return PathMyAssets, params, nil
		}
		params.Set("exchange", q.Exchange.String())
		return PathExchangeAssets, params, nil
	case query.ActionTrades:
		params.Set("exchange", q.Exchange.String())
		if q.Market != "" {
			params.Set("market", q.Market)
		}
		if q.State != query.StateNone {
			params.Set("state", q.State.String())
		}
		return PathTrades, params, nil
	default:
		return "", nil, errs.NewMsg(core.ErrUnsupportedAction, "action `%s` is not supported", q.Action)
	}
}
