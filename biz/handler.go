package biz

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/query"
	"github.com/cryptodiscord/cryptobot/render"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultPrefix  = "!조회"
	MsgErrorPrefix = "❌ 오류: "
)

func InvalidText(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("명령어가 올바르지 않습니다. `%s` 를 입력하세요.", prefix)
}

type Outcome int

const (
	OutcomeReplied Outcome = iota
	OutcomeFailed
	OutcomeDropped
	OutcomeHelpShown
	OutcomeInvalid
	outcomeNum
)

var outcomeNames = map[Outcome]string{
	OutcomeReplied:   "replied",
	OutcomeFailed:    "failed",
	OutcomeDropped:   "dropped",
	OutcomeHelpShown: "help",
	OutcomeInvalid:   "invalid",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// Command one inbound chat command with the prefix already stripped from Text.
type Command struct {
	UserID   string
	UserName string
	Text     string
}

// MessageRef identifies a sent message so it can be edited later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

/*
Channel
reply surface of the chat platform for a single conversation.
Edit replaces the text of a message sent earlier; rep is nil for plain error text.
*/
type Channel interface {
	Send(ctx context.Context, text string) (*MessageRef, error)
	Edit(ctx context.Context, ref *MessageRef, text string, rep *render.Report) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, q query.ParsedQuery, userID string) ([]byte, *errs.Error)
}

// Stats counts finished commands per outcome since start.
type Stats struct {
	Replied int64 `json:"replied"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
	Help    int64 `json:"help"`
	Invalid int64 `json:"invalid"`
}

type Orchestrator struct {
	api      Dispatcher
	guard    InFlight
	usdtRate float64
	help     string
	invalid  string
	counts   [outcomeNum]atomic.Int64
}

func NewOrchestrator(api Dispatcher, guard InFlight, usdtRate float64, prefix string) *Orchestrator {
	if guard == nil {
		guard = NewInFlight()
	}
	return &Orchestrator{
		api:      api,
		guard:    guard,
		usdtRate: usdtRate,
		help:     HelpText(prefix),
		invalid:  InvalidText(prefix),
	}
}

/*
Handle
runs one command to completion: help, guard, parse, placeholder, dispatch, render, edit.
A second command of a user whose first one is still running is dropped without reply.
Errors of the dispatch and render stage never escape; they are shown by editing the
placeholder.
*/
func (o *Orchestrator) Handle(ctx context.Context, cmd Command, ch Channel) (res Outcome) {
	defer func() {
		// panics of the channel itself can not be reported to the user
		if r := recover(); r != nil {
			log.Error("command panic outside run", zap.String("user", cmd.UserID), zap.Any("panic", r),
				zap.Stack("stack"))
			res = OutcomeFailed
		}
		o.counts[res].Add(1)
	}()
	return o.handle(ctx, cmd, ch)
}

func (o *Orchestrator) Stats() Stats {
	return Stats{
		Replied: o.counts[OutcomeReplied].Load(),
		Failed:  o.counts[OutcomeFailed].Load(),
		Dropped: o.counts[OutcomeDropped].Load(),
		Help:    o.counts[OutcomeHelpShown].Load(),
		Invalid: o.counts[OutcomeInvalid].Load(),
	}
}

func (o *Orchestrator) handle(ctx context.Context, cmd Command, ch Channel) Outcome {
	fields := []zap.Field{zap.String("trace", uuid.NewString()), zap.String("user", cmd.UserID)}
	log.Debug("receive command", append(fields, zap.String("text", cmd.Text))...)
	if strings.TrimSpace(cmd.Text) == "" {
		if _, err := ch.Send(ctx, o.help); err != nil {
			log.Warn("send help fail", append(fields, zap.Error(err))...)
			return OutcomeFailed
		}
		return OutcomeHelpShown
	}
	if !o.guard.TryAcquire(cmd.UserID) {
		log.Debug("drop command, user busy", fields...)
		return OutcomeDropped
	}
	defer o.guard.Release(cmd.UserID)

	q := query.Parse(cmd.Text)
	if !q.Resolved() {
		if _, err := ch.Send(ctx, o.invalid); err != nil {
			log.Warn("send guidance fail", append(fields, zap.Error(err))...)
			return OutcomeFailed
		}
		return OutcomeInvalid
	}
	fields = append(fields, zap.Stringer("exchange", q.Exchange), zap.Stringer("action", q.Action))
	ref, err_ := ch.Send(ctx, fmt.Sprintf("요청 처리 중... (`%s` | `%s`)", q.Exchange, q.Action))
	if err_ != nil {
		log.Warn("send placeholder fail", append(fields, zap.Error(err_))...)
		return OutcomeFailed
	}
	rep, err := o.run(ctx, q, cmd)
	if err != nil {
		log.Warn("command fail", append(fields, zap.Int("code", err.Code), zap.String("err", err.Short()))...)
		if err_ = ch.Edit(ctx, ref, MsgErrorPrefix+ErrorText(err), nil); err_ != nil {
			log.Warn("edit error reply fail", append(fields, zap.Error(err_))...)
		}
		return OutcomeFailed
	}
	if err_ = ch.Edit(ctx, ref, rep.Content, rep); err_ != nil {
		log.Warn("edit report fail", append(fields, zap.Error(err_))...)
		return OutcomeFailed
	}
	log.Info("command done", fields...)
	return OutcomeReplied
}

func (o *Orchestrator) run(ctx context.Context, q query.ParsedQuery, cmd Command) (rep *render.Report, err *errs.Error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("command panic", zap.String("user", cmd.UserID), zap.Any("panic", r),
				zap.Stack("stack"))
			err = errs.NewMsg(core.ErrRunTime, "%v", r)
		}
	}()
	// an issued call is never cancelled by the caller, only by the client timeout
	payload, err := o.api.Dispatch(context.WithoutCancel(ctx), q, cmd.UserID)
	if err != nil {
		return nil, err
	}
	meta := render.Meta{UserName: cmd.UserName, Exchange: q.Exchange.String(), State: q.State,
		UsdtRate: o.usdtRate}
	switch q.Action {
	case query.ActionAssets:
		return render.Assets(payload, meta)
	case query.ActionTrades:
		return render.Trades(payload, meta)
	default:
		return nil, errs.NewMsg(core.ErrUnsupportedAction, "action `%s` is not supported", q.Action)
	}
}

/*
ErrorText
formats an error for chat users. Remote status errors read "<status> <body>",
everything else "<Tag>: <detail>".
*/
func ErrorText(err *errs.Error) string {
	if err == nil {
		return ""
	}
	if err.Code >= 100 {
		return strings.TrimSpace(fmt.Sprintf("%d %s", err.Code, err.Message()))
	}
	tag, ok := core.ErrCodeNames[err.Code]
	if !ok {
		tag = fmt.Sprintf("Err%d", err.Code)
	}
	return tag + ": " + err.Message()
}

func HelpText(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return "**Crypto Bot 명령어 도움말**\n" +
		"`" + prefix + " [거래소] [기능] [옵션]`\n\n" +
		"**[거래소]**\n" +
		"`0` 또는 `전체`: 모든 거래소\n" +
		"`1` 또는 `게이트아이오`: Gate.io\n" +
		"`3` 또는 `빗썸`: Bithumb\n\n" +
		"**[기능]**\n" +
		"`자산`: 자산 조회\n" +
		"`거래내역`: 거래 기록 조회\n\n" +
		"**[옵션]**\n" +
		"`KRW-BTC`, `xrp-krw` 등 마켓\n" +
		"`wait`: 체결 대기, `done`: 전체 체결 완료, `cancel`: 주문 취소\n\n" +
		"**예시**\n" +
		"`" + prefix + " 빗썸 자산`\n" +
		"`" + prefix + " 3 거래내역 KRW-BTC done`"
}
