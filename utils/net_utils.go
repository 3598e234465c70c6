package utils

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/banbox/banexg"
	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/core"
	"go.uber.org/zap"
)

/*
DoHttp
executes req once. Transport failures are tagged with a core.ErrNet* code, non-2xx
responses carry the HTTP status as error code and the body as message.
*/
func DoHttp(client *http.Client, req *http.Request) *banexg.HttpRes {
	rsp, err_ := client.Do(req)
	if err_ != nil {
		return &banexg.HttpRes{Error: errs.New(NetErrCode(err_), err_)}
	}
	var result = banexg.HttpRes{Status: rsp.StatusCode, Headers: rsp.Header}
	rspData, err := io.ReadAll(rsp.Body)
	defer func() {
		cerr := rsp.Body.Close()
		if err == nil && cerr != nil {
			log.Warn("close rsp body fail", zap.Error(cerr))
		}
	}()
	if err != nil {
		result.Error = errs.New(core.ErrNetReadFail, err)
		return &result
	}
	result.Content = string(rspData)
	cutLen := min(len(result.Content), 3000)
	bodyShort := zap.String("body", result.Content[:cutLen])
	log.Debug("rsp", zap.String("method", req.Method), zap.String("path", req.URL.Path),
		zap.Int("status", result.Status), zap.Int("len", len(result.Content)),
		zap.Object("head", banexg.HttpHeader(result.Headers)), bodyShort)
	if result.Status < 200 || result.Status >= 300 {
		result.Error = errs.NewMsg(result.Status, "%s", result.Content)
	}
	return &result
}

// NetErrCode classifies a transport error returned by http.Client.Do.
func NetErrCode(err error) int {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return core.ErrNetDNS
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ErrNetTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return core.ErrNetTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return core.ErrNetConnect
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return core.ErrNetConnect
	}
	return core.ErrNetUnknown
}
