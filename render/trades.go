package render

import (
	"fmt"
	"strings"

	"github.com/banbox/banexg/errs"
	"github.com/bytedance/sonic"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/query"
	"github.com/spf13/cast"
)

const MaxTrades = 10

var stateLabels = map[query.State]string{
	query.StateWait:   "체결 대기 (wait)",
	query.StateWatch:  "예약주문 대기 (watch)",
	query.StateDone:   "전체 체결 완료 (done)",
	query.StateCancel: "주문 취소 (cancel)",
}

func StateLabel(st query.State) string {
	if label, ok := stateLabels[st]; ok {
		return label
	}
	return "전체 상태"
}

/*
Trades
renders a trade list. Only the first MaxTrades entries are shown; a null or empty list
yields a single notice field. Entries without symbol or side are a render fault.
*/
func Trades(payload []byte, meta Meta) (*Report, *errs.Error) {
	var trades []map[string]any
	if err_ := sonic.Unmarshal(payload, &trades); err_ != nil {
		return nil, errs.New(core.ErrRenderFail, err_)
	}
	res := &Report{
		Content:     ContentDone,
		Title:       fmt.Sprintf("[%s] %s님의 거래 내역", strings.ToUpper(meta.Exchange), meta.UserName),
		Description: "**주문 상태:** " + StateLabel(meta.State),
	}
	if len(trades) == 0 {
		res.AddField("알림", "거래 내역이 없습니다.")
		return res, nil
	}
	if len(trades) > MaxTrades {
		trades = trades[:MaxTrades]
	}
	var b strings.Builder
	for i, t := range trades {
		if t == nil || t["symbol"] == nil || t["side"] == nil {
			return nil, errs.NewMsg(core.ErrRenderFail, "trade %d: symbol and side are required", i)
		}
		side := "매도"
		if cast.ToString(t["side"]) == "bid" {
			side = "매수"
		}
		ordType := "시장가"
		if cast.ToString(t["ord_type"]) == "limit" {
			ordType = "지정가"
		}
		b.WriteString("```\n")
		b.WriteString("- [종목] " + cast.ToString(t["symbol"]) + "\n")
		b.WriteString("= [주문 종류] " + side + "\n")
		b.WriteString("+ [주문 유형] " + ordType + "\n")
		b.WriteString("! 가격: " + optText(t["price"], "KRW") + "\n")
		b.WriteString("# 수량: " + optText(t["amount"], "개") + "\n")
		b.WriteString("; 수수료: " + optText(t["paid_fee"], "KRW") + "\n")
		b.WriteString("```\n")
	}
	res.AddField("최근 거래", b.String())
	return res, nil
}
