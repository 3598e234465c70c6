package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/banbox/banexg/log"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/zap"
)

const (
	MsgTypeStartUp   = "startup"
	MsgTypeStatus    = "status"
	MsgTypeException = "exception"
)

var (
	adminBox  *Outbox
	botName   string
	lockAdmin deadlock.Mutex
)

/*
InitRPC
starts the admin outbox. send delivers one text to the admin chat; nil disables
admin notifications.
*/
func InitRPC(name string, send func(ctx context.Context, text string) error) {
	lockAdmin.Lock()
	defer lockAdmin.Unlock()
	botName = name
	if send == nil {
		log.Info("no admin chat, skip send rpc msg")
		return
	}
	adminBox = NewOutbox("admin", 3, 5*time.Second, send)
	go adminBox.ConsumeForever()
}

// SendMsg queues a message of the given type for the admin chat.
func SendMsg(msgType, text string) bool {
	lockAdmin.Lock()
	box := adminBox
	name := botName
	lockAdmin.Unlock()
	if box == nil {
		return false
	}
	return box.Push(fmt.Sprintf("[%s] %s\n%s", name, msgType, text))
}

func CleanUp() {
	lockAdmin.Lock()
	box := adminBox
	adminBox = nil
	lockAdmin.Unlock()
	if box != nil {
		box.CleanUp(10 * time.Second)
		log.Debug("rpc cleaned up", zap.String("name", botName))
	}
}
