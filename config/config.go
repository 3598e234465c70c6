package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/banbox/banexg/errs"
	"github.com/banbox/banexg/log"
	"github.com/cryptodiscord/cryptobot/core"
	"github.com/cryptodiscord/cryptobot/utils"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func defaultConfig() Config {
	return Config{
		Name:               "cryptobot",
		CommandPrefix:      DefaultPrefix,
		HelpCommand:        DefaultHelpCommand,
		UsdtKrwRate:        DefaultUsdtKrwRate,
		RequestTimeoutSecs: DefaultTimeoutSecs,
		LogLevel:           DefaultLogLevel,
		HeartbeatCron:      DefaultHeartbeat,
	}
}

/*
LoadConfig
resolves the run mode, reads the yaml knobs and secrets into Data and validates them.
A present .env.local switches to local mode and is loaded into the environment;
variables already set are not overridden.
*/
func LoadConfig(args *CmdArgs) *errs.Error {
	if Loaded {
		return nil
	}
	if args == nil {
		args = &CmdArgs{}
	}
	Args = args
	envPath := filepath.Join(args.DataDir, EnvLocalName)
	if utils.Exists(envPath) {
		if err_ := godotenv.Load(envPath); err_ != nil {
			return errs.NewFull(core.ErrIOReadFail, err_, "Read %s Fail", envPath)
		}
		core.SetRunMode(core.RunModeLocal)
	} else {
		core.SetRunMode(core.RunModeDeployed)
	}
	cfg, err := ParseConfigs(args.Configs)
	if err != nil {
		return err
	}
	if err = cfg.loadSecrets(); err != nil {
		return err
	}
	if args.LogLevel != "" {
		cfg.LogLevel = args.LogLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	Data = *cfg
	Loaded = true
	log.Info("config loaded", zap.String("mode", core.RunMode), zap.Bool("docker", utils.IsDocker()),
		zap.String("api", cfg.ApiURL), zap.String("prefix", cfg.CommandPrefix))
	return nil
}

// ParseConfigs merges yaml files in order over the defaults.
func ParseConfigs(paths []string) (*Config, *errs.Error) {
	res := defaultConfig()
	var merged = make(map[string]interface{})
	for _, path := range paths {
		log.Info("Using " + path)
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.NewFull(core.ErrIOReadFail, err, "Read %s Fail", path)
		}
		var unpak map[string]interface{}
		err = yaml.Unmarshal(fileData, &unpak)
		if err != nil {
			return nil, errs.NewFull(core.ErrBadConfig, err, "Unmarshal %s Fail", path)
		}
		utils.DeepCopyMap(merged, unpak)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &res,
	})
	if err == nil {
		err = decoder.Decode(merged)
	}
	if err != nil {
		return nil, errs.NewFull(core.ErrBadConfig, err, "decode Config Fail")
	}
	return &res, nil
}

func (c *Config) loadSecrets() *errs.Error {
	var err *errs.Error
	if c.BotToken, err = loadSecret(EnvTokenPath, EnvToken); err != nil {
		return err
	}
	if c.BotToken == "" {
		c.BotToken = os.Getenv(EnvTelegramToken)
	}
	if c.AccessKey, err = loadSecret(EnvAccessKeyPath, EnvAccessKey); err != nil {
		return err
	}
	c.ApiURL = strings.TrimSpace(os.Getenv(EnvApiURL))
	return nil
}

/*
loadSecret
reads the file named by pathEnv when set (docker secret), otherwise the value of valueEnv.
*/
func loadSecret(pathEnv, valueEnv string) (string, *errs.Error) {
	path := os.Getenv(pathEnv)
	if path == "" {
		return strings.TrimSpace(os.Getenv(valueEnv)), nil
	}
	val, err := utils.ReadTrimmed(path)
	if err != nil {
		return "", errs.NewFull(core.ErrIOReadFail, err, "read secret %s Fail", pathEnv)
	}
	return val, nil
}

func (c *Config) Validate() *errs.Error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errs.New(core.ErrBadConfig, err)
	}
	names := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		names = append(names, fe.Field()+":"+fe.Tag())
	}
	return errs.NewMsg(core.ErrBadConfig, "invalid config: %s", strings.Join(names, ", "))
}
