// Package settings resolves run settings from flags, SASSY_* environment
// variables and an optional YAML config file, in that order of precedence.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/halia-ca/sassy/internal/logger"
)

const (
	EnvPrefix = "SASSY"
	homeDir   = ".sassy"
	fileName  = "config"
	fileType  = "yaml"
)

// Setting keys. Flags of the same name are bound to them.
const (
	KeyPath     = "path"
	KeyTemplate = "template"
	KeyMessages = "messages"
	KeyOutput   = "output"
	KeyQuiet    = "quiet"
	KeyLogLevel = "log-level"
	KeyGitName  = "git.name"
	KeyGitEmail = "git.email"
)

// Settings holds everything a run can be configured with
type Settings struct {
	Path     string      `mapstructure:"path"`
	Template string      `mapstructure:"template"`
	Messages string      `mapstructure:"messages"`
	Output   string      `mapstructure:"output"`
	Quiet    bool        `mapstructure:"quiet"`
	LogLevel string      `mapstructure:"log-level"`
	Git      GitSettings `mapstructure:"git"`
}

// GitSettings is the identity used for the initial commit
type GitSettings struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// Dir returns the path to the sassy config directory (~/.sassy/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", homeDir)
	}
	return filepath.Join(home, homeDir)
}

// FilePath returns the default config file (~/.sassy/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyPath, ".")
	v.SetDefault(KeyTemplate, "")
	v.SetDefault(KeyMessages, "")
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyQuiet, false)
	v.SetDefault(KeyLogLevel, logger.LevelOff)
	v.SetDefault(KeyGitName, "")
	v.SetDefault(KeyGitEmail, "")
}

// Load resolves settings. configFile names the config file; when empty the
// default file is read if it exists. Flags from flags that match a key
// override every other source once set on the command line.
func Load(configFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{KeyPath, KeyTemplate, KeyMessages, KeyOutput, KeyQuiet, KeyLogLevel} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	explicit := configFile != ""
	if !explicit {
		configFile = FilePath()
	}
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)

	if _, err := os.Stat(configFile); err == nil || explicit {
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", configFile, err)
			}
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

func validate(s *Settings) error {
	s.Output = strings.ToLower(strings.TrimSpace(s.Output))
	switch s.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", s.Output)
	}

	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	switch s.LogLevel {
	case "", logger.LevelOff, logger.LevelDebug, logger.LevelInfo, logger.LevelWarn, logger.LevelError:
	default:
		return fmt.Errorf("unknown log level %q", s.LogLevel)
	}

	if strings.TrimSpace(s.Path) == "" {
		s.Path = "."
	}
	return nil
}
