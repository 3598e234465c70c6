package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/banbox/banexg/log"
	"go.uber.org/zap"
)

const (
	batchSep    = "\n\n━━━━━━━━━━━━━━━━━━━━\n\n"
	sendTimeout = 30 * time.Second
)

/*
Outbox
queues outgoing admin messages and sends them in batches from a single consumer
goroutine. Messages pushed while a send is in progress are joined into the next batch.
*/
type Outbox struct {
	name       string
	retryNum   int
	retryDelay time.Duration
	send       func(ctx context.Context, text string) error
	queue      chan string
	wg         sync.WaitGroup
	lock       sync.Mutex
	disable    bool
}

func NewOutbox(name string, retryNum int, retryDelay time.Duration, send func(ctx context.Context, text string) error) *Outbox {
	if retryNum < 1 {
		retryNum = 1
	}
	return &Outbox{
		name:       name,
		retryNum:   retryNum,
		retryDelay: retryDelay,
		send:       send,
		queue:      make(chan string, 64),
	}
}

// Push enqueues text, returns false when the outbox is closed or full.
func (o *Outbox) Push(text string) bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.disable {
		return false
	}
	o.wg.Add(1)
	select {
	case o.queue <- text:
		return true
	default:
		o.wg.Done()
		log.Warn("outbox full, drop msg", zap.String("name", o.name))
		return false
	}
}

// ConsumeForever sends queued messages until CleanUp closes the queue.
func (o *Outbox) ConsumeForever() {
	log.Debug("start consume outbox", zap.String("name", o.name))
	for first := range o.queue {
		batch := []string{first}
	readMore:
		for {
			select {
			case item, ok := <-o.queue:
				if !ok {
					break readMore
				}
				batch = append(batch, item)
			default:
				break readMore
			}
		}
		o.doSendRetry(batch)
		o.wg.Add(-len(batch))
	}
}

func (o *Outbox) doSendRetry(batch []string) {
	text := strings.Join(batch, batchSep)
	for i := 0; i < o.retryNum; i++ {
		if i > 0 {
			time.Sleep(o.retryDelay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := o.send(ctx, text)
		cancel()
		if err == nil {
			return
		}
		log.Warn("outbox send fail", zap.String("name", o.name), zap.Int("attempt", i+1),
			zap.Int("num", len(batch)), zap.Error(err))
	}
}

/*
CleanUp
stops accepting messages and waits up to timeout for queued ones to be sent.
*/
func (o *Outbox) CleanUp(timeout time.Duration) {
	o.lock.Lock()
	if o.disable {
		o.lock.Unlock()
		return
	}
	o.disable = true
	o.lock.Unlock()
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn("outbox cleanup timeout", zap.String("name", o.name))
	}
	close(o.queue)
}
