package rpc

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	lock  sync.Mutex
	texts []string
	fails int
}

func (r *recorder) send(_ context.Context, text string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.fails > 0 {
		r.fails--
		return errors.New("chat down")
	}
	r.texts = append(r.texts, text)
	return nil
}

func (r *recorder) all() string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return strings.Join(r.texts, batchSep)
}

func TestOutboxDelivers(t *testing.T) {
	rec := &recorder{}
	box := NewOutbox("test", 1, 0, rec.send)
	go box.ConsumeForever()
	for _, text := range []string{"one", "two", "three"} {
		require.True(t, box.Push(text))
	}
	box.CleanUp(time.Second)
	assert.Equal(t, "one"+batchSep+"two"+batchSep+"three", rec.all())
	assert.False(t, box.Push("late"))
}

func TestOutboxRetry(t *testing.T) {
	rec := &recorder{fails: 2}
	box := NewOutbox("test", 3, time.Millisecond, rec.send)
	go box.ConsumeForever()
	require.True(t, box.Push("msg"))
	box.CleanUp(time.Second)
	assert.Equal(t, "msg", rec.all())
}

func TestSendMsg(t *testing.T) {
	assert.False(t, SendMsg(MsgTypeStartUp, "nobody listens"))

	rec := &recorder{}
	InitRPC("cryptobot", rec.send)
	require.True(t, SendMsg(MsgTypeStartUp, "ready"))
	CleanUp()
	assert.Equal(t, "[cryptobot] startup\nready", rec.all())
	assert.False(t, SendMsg(MsgTypeStartUp, "after cleanup"))
}
