package render

import (
	"fmt"

	"github.com/banbox/banexg/errs"
	"github.com/bytedance/sonic"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/spf13/cast"
)

const (
	CurrencyCash  = "KRW"
	CurrencyPoint = "P"

	DefaultUsdtRate = 1350
)

type assetsPayload struct {
	Coins []map[string]any `json:"coins"`
}

type assetRecord struct {
	Currency     string
	Balance      float64
	Locked       float64
	AvgBuyPrice  float64
	CurrentPrice float64
}

func toAssetRecord(raw map[string]any) (*assetRecord, *errs.Error) {
	res := &assetRecord{Currency: cast.ToString(raw["currency"])}
	fields := []struct {
		key string
		out *float64
	}{
		{"balance", &res.Balance},
		{"locked", &res.Locked},
		{"avg_buy_price", &res.AvgBuyPrice},
		{"current_price", &res.CurrentPrice},
	}
	for _, f := range fields {
		v, err_ := cast.ToFloat64E(raw[f.key])
		if err_ != nil {
			return nil, errs.NewMsg(core.ErrRenderFail, "%s.%s: %v", res.Currency, f.key, err_)
		}
		*f.out = v
	}
	return res, nil
}

/*
Assets
renders the asset overview. Every coin value is added to the running total before cash
(KRW) and points (P) are split off, so the grand total counts them twice.
*/
func Assets(payload []byte, meta Meta) (*Report, *errs.Error) {
	var data assetsPayload
	if err_ := sonic.Unmarshal(payload, &data); err_ != nil {
		return nil, errs.New(core.ErrRenderFail, err_)
	}
	usdtRate := meta.UsdtRate
	if usdtRate <= 0 {
		usdtRate = DefaultUsdtRate
	}
	res := &Report{
		Content: ContentDone,
		Title:   meta.UserName + "님의 자산 현황",
	}
	var total, cash, point float64
	for _, raw := range data.Coins {
		coin, err := toAssetRecord(raw)
		if err != nil {
			return nil, err
		}
		balance := coin.Balance + coin.Locked
		value := balance * coin.CurrentPrice
		total += value
		if coin.Currency == CurrencyCash {
			cash += balance
			continue
		}
		if coin.Currency == CurrencyPoint {
			point += balance
			continue
		}
		profit := 0.0
		if coin.AvgBuyPrice > 0 {
			profit = (coin.CurrentPrice - coin.AvgBuyPrice) / coin.AvgBuyPrice * 100
		}
		arrow := "📈"
		if profit < 0 {
			arrow = "📉"
		}
		res.AddField(fmt.Sprintf("%s (%.4f)", coin.Currency, balance),
			fmt.Sprintf("평단 %s KRW | 현재 %s KRW | 총액 %s KRW | %s %s%%",
				Grouped(coin.AvgBuyPrice, 0), Grouped(coin.CurrentPrice, 0), Grouped(value, 0),
				arrow, Signed(profit)))
	}
	res.AddField("💰 현금", GroupedInt(cash)+" KRW")
	res.AddField("💰 포인트", GroupedInt(point)+" KRW")
	res.AddField("💰 총 평가금액", fmt.Sprintf("%s KRW / $%s USDT",
		GroupedInt(total+cash+point), Grouped(total/usdtRate, 2)))
	return res, nil
}
