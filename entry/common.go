package entry

import (
	"flag"
	"fmt"
	"os"

	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/config"
	"go.uber.org/zap"
)

const VERSION = "0.1.0"

func RunCmd() {
	var args config.CmdArgs
	sub := flag.NewFlagSet("cryptobot", flag.ExitOnError)
	bindFlags(&args, sub)
	version := sub.Bool("version", false, "print version and exit")
	if err_ := sub.Parse(os.Args[1:]); err_ != nil {
		log.Error("parse args fail", zap.Error(err_))
		os.Exit(1)
	}
	if *version {
		fmt.Printf("cryptobot %v\n", VERSION)
		return
	}
	if err := RunBot(&args); err != nil {
		log.Error("bot stopped", zap.Error(err))
		os.Exit(1)
	}
}

func bindFlags(args *config.CmdArgs, cmd *flag.FlagSet) {
	cmd.Var(&args.Configs, "config", "config path to use, Multiple -config options may be used")
	cmd.StringVar(&args.Logfile, "logfile", "", "Log to the file specified")
	cmd.StringVar(&args.DataDir, "datadir", "", "dir holding .env.local, default: working dir")
	cmd.StringVar(&args.LogLevel, "level", "", "override `log_level` in config")
}
