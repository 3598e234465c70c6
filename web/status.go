package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/biz"
	"github.com/cryptodiscord/cryptobot/btime"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/query"
	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"
)

var startMS = btime.UTCStamp()

type Status struct {
	Name      string    `json:"name"`
	Mode      string    `json:"mode"`
	StartedAt string    `json:"startedAt"`
	UpSecs    int64     `json:"upSecs"`
	CpuPct    float64   `json:"cpuPct"`
	MemPct    float64   `json:"memPct"`
	Commands  biz.Stats `json:"commands"`
}

// Snapshot collects the current process status, host metrics are best effort.
func Snapshot(name string, src StatsSource) *Status {
	res := &Status{
		Name:      name,
		Mode:      core.RunMode,
		StartedAt: btime.ToDateStr(startMS, ""),
		UpSecs:    (btime.UTCStamp() - startMS) / 1000,
	}
	if src != nil {
		res.Commands = src.Stats()
	}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		res.CpuPct = pcts[0]
	} else if err != nil {
		log.Debug("read cpu fail", zap.Error(err))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		res.MemPct = vm.UsedPercent
	} else {
		log.Debug("read mem fail", zap.Error(err))
	}
	return res
}

// Text renders the status for the admin chat.
func (s *Status) Text() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s) up %s\n", s.Name, s.Mode, time.Duration(s.UpSecs)*time.Second))
	b.WriteString(fmt.Sprintf("cpu %.1f%%, mem %.1f%%\n", s.CpuPct, s.MemPct))
	c := s.Commands
	b.WriteString(fmt.Sprintf("replied %d, failed %d, dropped %d, help %d, invalid %d",
		c.Replied, c.Failed, c.Dropped, c.Help, c.Invalid))
	return b.String()
}

type handlers struct {
	name string
	src  StatsSource
}

func (h *handlers) getHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"mode":   core.RunMode,
	})
}

func (h *handlers) getStats(c *fiber.Ctx) error {
	return c.JSON(Snapshot(h.name, h.src))
}

func (h *handlers) getParse(c *fiber.Ctx) error {
	type ParseArgs struct {
		Text string `query:"text" validate:"required"`
	}
	var data = new(ParseArgs)
	if err := VerifyArg(c, data); err != nil {
		return err
	}
	q := query.Parse(data.Text)
	return c.JSON(fiber.Map{
		"exchange": q.Exchange.String(),
		"action":   q.Action.String(),
		"market":   q.Market,
		"state":    q.State.String(),
		"resolved": q.Resolved(),
	})
}
