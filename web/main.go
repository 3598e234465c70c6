package web

import (
	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/biz"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type StatsSource interface {
	Stats() biz.Stats
}

/*
NewApp
builds the status api: /health for container probes, /api/stats and /api/parse for operators.
*/
func NewApp(name string, src StatsSource) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ErrorHandler:          ErrHandler,
		DisableStartupMessage: true,
	})
	h := &handlers{name: name, src: src}
	app.Get("/health", h.getHealth)
	grp := app.Group("/api")
	grp.Get("/stats", h.getStats)
	grp.Get("/parse", h.getParse)
	return app
}

/*
StartApi
serves the status api on addr in the background; an empty addr disables it.
The server shuts down with core.Ctx.
*/
func StartApi(addr, name string, src StatsSource) *errs.Error {
	if addr == "" {
		return nil
	}
	app := NewApp(name, src)
	log.Info("serve status api at", zap.String("addr", addr))
	go func() {
		err_ := app.Listen(addr)
		if err_ != nil {
			log.Error("run status api fail", zap.Error(err_))
		}
	}()
	go func() {
		<-core.Ctx.Done()
		if err_ := app.Shutdown(); err_ != nil {
			log.Warn("shutdown status api fail", zap.Error(err_))
		}
	}()
	return nil
}
