package core

import (
	"context"
	"log/slog"

	"github.com/anyongjin/cron"
	"github.com/banbox/banexg/errs"
	"github.com/dgraph-io/ristretto"
)

const (
	RunModeLocal    = "local"
	RunModeDeployed = "deployed"
)

var (
	Cache *ristretto.Cache
	Cron  *cron.Cron

	Ctx     context.Context
	StopAll context.CancelFunc

	RunMode   string
	LocalMode bool

	ExitCalls []func()
)

func init() {
	Ctx, StopAll = context.WithCancel(context.Background())
	// for cron logging
	slog.SetLogLoggerLevel(slog.LevelWarn)
	Cron = cron.New(cron.WithSeconds())
}

func Setup() *errs.Error {
	if Cache != nil {
		return nil
	}
	var err_ error
	Cache, err_ = ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err_ != nil {
		return errs.New(ErrCacheErr, err_)
	}
	return nil
}

func GetCacheVal[T any](key interface{}, defVal T) T {
	obj, has := Cache.Get(key)
	if has {
		if val, ok := obj.(T); ok {
			return val
		}
	}
	return defVal
}

func RunExitCalls() {
	for _, method := range ExitCalls {
		method()
	}
	ExitCalls = nil
}
