package rpc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/btime"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// same caller reports at most once per excIntvMS
const excIntvMS = int64(60000)

var (
	nextSendMS = map[string]int64{}
	lockExcKey deadlock.Mutex
)

/*
NewExcNotify
returns a zap core that forwards ERROR entries to the admin chat. Install it with
log.Setup(level, logfile, rpc.NewExcNotify()).
*/
func NewExcNotify() *ExcNotify {
	return &ExcNotify{LevelEnabler: zapcore.ErrorLevel}
}

// ExcNotify keeps the fields bound by With; entries are rendered as one line of text.
type ExcNotify struct {
	zapcore.LevelEnabler
	bound []zapcore.Field
}

func (h *ExcNotify) With(fields []zapcore.Field) zapcore.Core {
	bound := make([]zapcore.Field, 0, len(h.bound)+len(fields))
	bound = append(bound, h.bound...)
	return &ExcNotify{
		LevelEnabler: h.LevelEnabler,
		bound:        append(bound, fields...),
	}
}

func (h *ExcNotify) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if h.Enabled(ent.Level) {
		return ce.AddCore(ent, h)
	}
	return ce
}

func (h *ExcNotify) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	TrySendExc(ent.Caller.TrimmedPath(), h.excText(ent, fields))
	return nil
}

func (h *ExcNotify) Sync() error {
	return nil
}

// excText renders "<time> <msg> key=val ...", stack traces stay in the log file
func (h *ExcNotify) excText(ent zapcore.Entry, fields []zapcore.Field) string {
	var b strings.Builder
	b.WriteString(ent.Time.Format("2006/01/02 15:04"))
	b.WriteByte(' ')
	b.WriteString(ent.Message)
	for _, f := range append(h.bound[:len(h.bound):len(h.bound)], fields...) {
		if f.Key == "stack" || f.Type == zapcore.SkipType {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(fieldText(f))
	}
	return b.String()
}

func fieldText(f zapcore.Field) string {
	if f.Type == zapcore.ErrorType {
		err, _ := f.Interface.(error)
		var err2 *errs.Error
		if errors.As(err, &err2) {
			return err2.Short()
		}
		if err != nil {
			return err.Error()
		}
		return ""
	}
	enc := zapcore.NewMapObjectEncoder()
	f.AddTo(enc)
	return fmt.Sprint(enc.Fields[f.Key])
}

/*
TrySendExc
counts occurrences per cacheKey (the caller location). The first one in a window is sent
after a one second grace period, later ones in the same window are folded into a single
message when the window ends.
*/
func TrySendExc(cacheKey string, content string) {
	if core.Cache == nil {
		if err := core.Setup(); err != nil {
			log.Warn("run core.Setup fail", zap.String("err", err.Short()))
			return
		}
	}
	ttl := time.Duration(excIntvMS) * time.Millisecond
	num := core.GetCacheVal(cacheKey, 0)
	core.Cache.SetWithTTL(cacheKey, num+1, 1, ttl)
	core.Cache.SetWithTTL(cacheKey+"_text", content, 1, ttl)
	core.Cache.Wait()

	curMS := btime.UTCStamp()
	lockExcKey.Lock()
	nextMS, ok := nextSendMS[cacheKey]
	var waitMS int64
	switch {
	case !ok || curMS >= nextMS:
		// window passed: flush soon, next flush not before a full interval
		waitMS = 1000
		nextSendMS[cacheKey] = curMS + excIntvMS
	case nextMS-curMS > excIntvMS-1000:
		// a flush for this window is already scheduled
		lockExcKey.Unlock()
		return
	default:
		waitMS = nextMS - curMS
		nextSendMS[cacheKey] = nextMS + excIntvMS
	}
	lockExcKey.Unlock()
	sendExcAfter(waitMS, cacheKey)
}

func sendExcAfter(waitMS int64, key string) {
	time.AfterFunc(time.Duration(waitMS)*time.Millisecond, func() {
		flushExc(key)
	})
}

func flushExc(key string) {
	textKey := key + "_text"
	num := core.GetCacheVal(key, 0)
	content := core.GetCacheVal(textKey, "")
	core.Cache.Del(key)
	core.Cache.Del(textKey)
	if num == 0 {
		return
	}
	SendMsg(MsgTypeException, fmt.Sprintf("num:%d, %s\n%s", num, key, content))
}
