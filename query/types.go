package query

type Exchange int

const (
	ExchangeUnknown Exchange = iota
	ExchangeGateio
	ExchangeBithumb
	ExchangeAll
)

var exchangeNames = map[Exchange]string{
	ExchangeUnknown: "unknown",
	ExchangeGateio:  "gateio",
	ExchangeBithumb: "bithumb",
	ExchangeAll:     "all",
}

func (e Exchange) String() string {
	if name, ok := exchangeNames[e]; ok {
		return name
	}
	return "unknown"
}

type Action int

const (
	ActionUnknown Action = iota
	ActionAssets
	ActionTrades
	ActionPnl
)

var actionNames = map[Action]string{
	ActionUnknown: "unknown",
	ActionAssets:  "assets",
	ActionTrades:  "trades",
	ActionPnl:     "pnl",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

/*
State order state filter for trade queries. StateNone means no filter was given.
StateWatch is accepted by the account API and the renderer, but Parse never produces it.
*/
type State int

const (
	StateNone State = iota
	StateWait
	StateWatch
	StateDone
	StateCancel
)

var stateNames = map[State]string{
	StateNone:   "",
	StateWait:   "wait",
	StateWatch:  "watch",
	StateDone:   "done",
	StateCancel: "cancel",
}

func (s State) String() string {
	return stateNames[s]
}

// StateFromString maps an API state code to State; unknown codes give StateNone.
func StateFromString(code string) State {
	for st, name := range stateNames {
		if name != "" && name == code {
			return st
		}
	}
	return StateNone
}

type ParsedQuery struct {
	Exchange Exchange
	Action   Action
	Market   string // upper-cased BASE-QUOTE, empty when absent
	State    State
}

// Resolved reports whether the query names both an exchange and an action.
func (q ParsedQuery) Resolved() bool {
	return q.Exchange != ExchangeUnknown && q.Action != ActionUnknown
}
