package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/go-sentseg/internal/extract"
	"github.com/example/go-sentseg/internal/text"
)

type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Input    InputConfig   `mapstructure:"input"`
	Output   OutputConfig  `mapstructure:"output"`
	Subword  SubwordConfig `mapstructure:"subword"`
	Server   ServerConfig  `mapstructure:"server"`
}

type InputConfig struct {
	Type   string `mapstructure:"type"`
	NFC    bool   `mapstructure:"nfc"`
	Sample string `mapstructure:"sample"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

type SubwordConfig struct {
	ModelPath string `mapstructure:"model_path"`
	Lowercase bool   `mapstructure:"lowercase"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	Workers         int    `mapstructure:"workers"`
	MaxTextBytes    int    `mapstructure:"max_text_bytes"`
	RequestTimeout  int    `mapstructure:"request_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Input: InputConfig{
			Type:   extract.KindText,
			NFC:    false,
			Sample: text.DefaultSample,
		},
		Output: OutputConfig{
			Format: FormatText,
			Color:  false,
		},
		Subword: SubwordConfig{
			ModelPath: "",
			Lowercase: false,
		},
		Server: ServerConfig{
			ListenAddr:      ":8080",
			Workers:         4,
			MaxTextBytes:    64 * 1024,
			RequestTimeout:  10,
			ShutdownTimeout: 30,
		},
	}
}

// flagKeys maps every registered flag to the config key it sets.
var flagKeys = map[string]string{
	"log-level":               "log_level",
	"input-type":              "input.type",
	"input-nfc":               "input.nfc",
	"input-sample":            "input.sample",
	"output-format":           "output.format",
	"output-color":            "output.color",
	"subword-model-path":      "subword.model_path",
	"subword-lowercase":       "subword.lowercase",
	"server-listen-addr":      "server.listen_addr",
	"server-workers":          "server.workers",
	"server-max-text-bytes":   "server.max_text_bytes",
	"server-request-timeout":  "server.request_timeout",
	"server-shutdown-timeout": "server.shutdown_timeout",
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("input-type", defaults.Input.Type, "Input document type (text|html|pdf)")
	fs.Bool("input-nfc", defaults.Input.NFC, "Apply Unicode NFC normalization before tokenizing")
	fs.String("input-sample", defaults.Input.Sample, "Text analyzed when input is empty")
	fs.String("output-format", defaults.Output.Format, "Output format (text|json|yaml)")
	fs.Bool("output-color", defaults.Output.Color, "Colour token types in text output")
	fs.String("subword-model-path", defaults.Subword.ModelPath, "Path to a SentencePiece model for subword IDs")
	fs.Bool("subword-lowercase", defaults.Subword.Lowercase, "Lower-case text before subword encoding")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent analyses in the HTTP server")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Max request text size in bytes")
	fs.Int("server-request-timeout", defaults.Server.RequestTimeout, "Per-request timeout in seconds")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown timeout in seconds")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("SENTSEG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("sentseg")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	format, err := NormalizeFormat(cfg.Output.Format)
	if err != nil {
		return Config{}, err
	}
	cfg.Output.Format = format

	kind, err := extract.NormalizeKind(cfg.Input.Type)
	if err != nil {
		return Config{}, err
	}
	cfg.Input.Type = kind

	return cfg, nil
}

// bindFlags binds each known flag present in fs to its config key. Only
// flags set on the command line take precedence over env and file values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("input.type", c.Input.Type)
	v.SetDefault("input.nfc", c.Input.NFC)
	v.SetDefault("input.sample", c.Input.Sample)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.color", c.Output.Color)
	v.SetDefault("subword.model_path", c.Subword.ModelPath)
	v.SetDefault("subword.lowercase", c.Subword.Lowercase)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.request_timeout", c.Server.RequestTimeout)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
}
