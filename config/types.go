package config

import "strings"

var (
	Data   Config
	Args   *CmdArgs
	Loaded bool
)

const (
	DefaultPrefix      = "!조회"
	DefaultHelpCommand = "!help"
	DefaultUsdtKrwRate = 1350
	DefaultTimeoutSecs = 30
	DefaultLogLevel    = "info"
	DefaultHeartbeat   = "0 0 * * * *"
	EnvLocalName       = ".env.local"
)

// secret and endpoint env names, the *_FILE_PATH variants point to docker secret files
const (
	EnvTokenPath     = "TOKEN_FILE_PATH"
	EnvToken         = "DISCORD_BOT_TOKEN"
	EnvTelegramToken = "TELEGRAM_BOT_TOKEN"
	EnvAccessKeyPath = "BOT_ACCESS_KEY_FILE_PATH"
	EnvAccessKey     = "BOT_ACCESS_KEY"
	EnvApiURL        = "SPRING_BOOT_API_URL"
)

type ArrString []string

func (i *ArrString) String() string {
	if i == nil {
		return ""
	}
	return strings.Join(*i, ",")
}

func (i *ArrString) Set(value string) error {
	*i = append(*i, value)
	return nil
}

type CmdArgs struct {
	Configs  ArrString
	DataDir  string
	Logfile  string
	LogLevel string
}

/*
Config
non-secret knobs come from yaml files, secrets and the api url only from the environment.
*/
type Config struct {
	Name               string  `yaml:"name" mapstructure:"name"`
	CommandPrefix      string  `yaml:"command_prefix" mapstructure:"command_prefix" validate:"required"`
	HelpCommand        string  `yaml:"help_command" mapstructure:"help_command"`
	UsdtKrwRate        float64 `yaml:"usdt_krw_rate" mapstructure:"usdt_krw_rate" validate:"gt=0"`
	RequestTimeoutSecs int     `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs" validate:"gte=1,lte=300"`
	AdminChatID        int64   `yaml:"admin_chat_id" mapstructure:"admin_chat_id"`
	Proxy              string  `yaml:"proxy" mapstructure:"proxy" validate:"omitempty,url"`
	LogLevel           string  `yaml:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`
	StatusAddr         string  `yaml:"status_addr" mapstructure:"status_addr" validate:"omitempty,hostname_port"`
	HeartbeatCron      string  `yaml:"heartbeat_cron" mapstructure:"heartbeat_cron"` // with seconds, needs admin_chat_id

	BotToken  string `yaml:"-" mapstructure:"-" validate:"required"`
	AccessKey string `yaml:"-" mapstructure:"-" validate:"required"`
	ApiURL    string `yaml:"-" mapstructure:"-" validate:"required,http_url"`
}
