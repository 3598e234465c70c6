package query

import (
	"strings"
	"unicode/utf8"
)

const maxMarketLen = 10

type alias[T any] struct {
	val   T
	words []string
}

// checked in order, first matching family wins
var exchangeAliases = []alias[Exchange]{
	{ExchangeGateio, []string{"게이트아이오", "gateio", "1"}},
	{ExchangeBithumb, []string{"빗썸", "bithumb", "3"}},
	{ExchangeAll, []string{"전체", "all", "0"}},
}

var actionAliases = []alias[Action]{
	{ActionAssets, []string{"자산"}},
	{ActionTrades, []string{"거래내역", "거래"}},
	{ActionPnl, []string{"수익", "pnl"}},
}

// watch is deliberately absent
var stateTokens = map[string]State{
	"wait":   StateWait,
	"done":   StateDone,
	"cancel": StateCancel,
}

/*
Parse
tokenizes a free-text command into a ParsedQuery. It never fails: fields that can not
be resolved stay Unknown / empty.
*/
func Parse(text string) ParsedQuery {
	tokens := strings.Fields(strings.ToLower(text))
	q := ParsedQuery{
		Exchange: matchFamily(tokens, exchangeAliases, ExchangeUnknown),
		Action:   matchFamily(tokens, actionAliases, ActionUnknown),
	}
	for _, tok := range tokens {
		if strings.Contains(tok, "-") && utf8.RuneCountInString(tok) <= maxMarketLen {
			q.Market = strings.ToUpper(tok)
			break
		}
	}
	for _, tok := range tokens {
		if st, ok := stateTokens[tok]; ok {
			q.State = st
			break
		}
	}
	return q
}

func matchFamily[T any](tokens []string, families []alias[T], defVal T) T {
	for _, fam := range families {
		for _, word := range fam.words {
			for _, tok := range tokens {
				if strings.Contains(tok, word) {
					return fam.val
				}
			}
		}
	}
	return defVal
}
