package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradesEmpty(t *testing.T) {
	for _, payload := range []string{`[]`, `null`} {
		rep, err := Trades([]byte(payload), Meta{UserName: "alice", Exchange: "bithumb"})
		require.Nil(t, err)
		assert.Equal(t, "[BITHUMB] alice님의 거래 내역", rep.Title)
		assert.Equal(t, "**주문 상태:** 전체 상태", rep.Description)
		assert.Equal(t, []Field{{"알림", "거래 내역이 없습니다."}}, rep.Fields)
	}
}

func TestTradesTruncate(t *testing.T) {
	items := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		items = append(items, fmt.Sprintf(`{"symbol":"KRW-T%d","side":"bid","ord_type":"limit","price":"%d"}`, i, i+1))
	}
	rep, err := Trades([]byte("["+strings.Join(items, ",")+"]"), Meta{UserName: "a", Exchange: "gateio"})
	require.Nil(t, err)
	require.Len(t, rep.Fields, 1)
	body := rep.Fields[0].Value
	assert.Equal(t, "최근 거래", rep.Fields[0].Name)
	assert.Equal(t, 10, strings.Count(body, "- [종목]"))
	assert.Contains(t, body, "KRW-T9\n")
	assert.NotContains(t, body, "KRW-T10")
}

func TestTradesEntry(t *testing.T) {
	payload := `[
		{"symbol":"KRW-BTC","side":"bid","ord_type":"limit","price":"95000000","amount":"0.01","paid_fee":"475"},
		{"symbol":"KRW-ETH","side":"ask","ord_type":"price","price":"정보 없음","amount":"","paid_fee":0},
		{"symbol":"KRW-XRP","side":"ask","price":720.5,"amount":3}]`
	rep, err := Trades([]byte(payload), Meta{UserName: "a", Exchange: "bithumb", State: query.StateDone})
	require.Nil(t, err)
	assert.Equal(t, "**주문 상태:** 전체 체결 완료 (done)", rep.Description)
	expect := "```\n- [종목] KRW-BTC\n= [주문 종류] 매수\n+ [주문 유형] 지정가\n" +
		"! 가격: 95000000 KRW\n# 수량: 0.01 개\n; 수수료: 475 KRW\n```\n" +
		"```\n- [종목] KRW-ETH\n= [주문 종류] 매도\n+ [주문 유형] 시장가\n" +
		"! 가격: 정보 없음\n# 수량: 정보 없음\n; 수수료: 정보 없음\n```\n" +
		"```\n- [종목] KRW-XRP\n= [주문 종류] 매도\n+ [주문 유형] 시장가\n" +
		"! 가격: 720.5 KRW\n# 수량: 3 개\n; 수수료: 정보 없음\n```\n"
	assert.Equal(t, expect, rep.Fields[0].Value)
}

func TestStateLabel(t *testing.T) {
	tests := map[query.State]string{
		query.StateNone:   "전체 상태",
		query.StateWait:   "체결 대기 (wait)",
		query.StateWatch:  "예약주문 대기 (watch)",
		query.StateDone:   "전체 체결 완료 (done)",
		query.StateCancel: "주문 취소 (cancel)",
		query.State(42):   "전체 상태",
	}
	for st, label := range tests {
		assert.Equal(t, label, StateLabel(st))
	}
}

func TestTradesRenderFault(t *testing.T) {
	for _, payload := range []string{`{"trades":[]}`, `[{"side":"bid"}]`, `[null]`, `oops`} {
		_, err := Trades([]byte(payload), Meta{})
		require.NotNil(t, err, payload)
		assert.Equal(t, core.ErrRenderFail, err.Code, payload)
	}
}
