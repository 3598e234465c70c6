package entry

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/api"
	"github.com/cryptodiscord/cryptobot/biz"
	"github.com/cryptodiscord/cryptobot/config"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/rpc"
	"github.com/cryptodiscord/cryptobot/web"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupComs loads config, then logging and the shared cache.
func SetupComs(args *config.CmdArgs) *errs.Error {
	err := config.LoadConfig(args)
	if err != nil {
		return err
	}
	var logCores []zapcore.Core
	if config.Data.AdminChatID != 0 {
		logCores = append(logCores, rpc.NewExcNotify())
	}
	log.Setup(config.Data.LogLevel, args.Logfile, logCores...)
	return core.Setup()
}

/*
RunBot
wires the account api client, the orchestrator and the telegram gateway, then serves
until SIGINT/SIGTERM.
*/
func RunBot(args *config.CmdArgs) *errs.Error {
	err := SetupComs(args)
	if err != nil {
		return err
	}
	cfg := config.Data
	client := api.NewClient(cfg.ApiURL, cfg.AccessKey, time.Duration(cfg.RequestTimeoutSecs)*time.Second)
	orch := biz.NewOrchestrator(client, biz.NewInFlight(), cfg.UsdtKrwRate, cfg.CommandPrefix)
	tg, err := rpc.NewTelegram(rpc.TelegramOpts{
		Token:       cfg.BotToken,
		Proxy:       cfg.Proxy,
		Prefix:      cfg.CommandPrefix,
		HelpCommand: cfg.HelpCommand,
		AdminChat:   cfg.AdminChatID,
	}, orch)
	if err != nil {
		return err
	}
	if cfg.AdminChatID != 0 {
		rpc.InitRPC(cfg.Name, tg.SendAdmin)
		core.ExitCalls = append(core.ExitCalls, rpc.CleanUp)
		rpc.SendMsg(rpc.MsgTypeStartUp, fmt.Sprintf("mode: %s, api: %s", core.RunMode, cfg.ApiURL))
		if err = startHeartbeat(cfg.HeartbeatCron, cfg.Name, orch); err != nil {
			return err
		}
	}
	if err = web.StartApi(cfg.StatusAddr, cfg.Name, orch); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(core.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log.Info("bot starting", zap.String("name", cfg.Name), zap.String("mode", core.RunMode))
	tg.Start(ctx)
	core.StopAll()
	core.RunExitCalls()
	return nil
}

// startHeartbeat posts the status snapshot to the admin chat on schedule.
func startHeartbeat(expr, name string, src web.StatsSource) *errs.Error {
	if expr == "" {
		return nil
	}
	_, err_ := core.Cron.Add(expr, func() {
		rpc.SendMsg(rpc.MsgTypeStatus, web.Snapshot(name, src).Text())
	})
	if err_ != nil {
		return errs.NewFull(core.ErrBadConfig, err_, "invalid heartbeat_cron: %s", expr)
	}
	core.Cron.Start()
	core.ExitCalls = append(core.ExitCalls, func() {
		core.Cron.Stop()
	})
	log.Info("heartbeat scheduled", zap.String("cron", expr))
	return nil
}
