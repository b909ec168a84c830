package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ConsoleConfig holds tunables that operators adjust without redeploying:
// refresh cadence, snapshot TTL, and the company identity printed on
// invoices and receipts.
type ConsoleConfig struct {
	Refresh RefreshConfig `mapstructure:"refresh"`
	Company CompanyConfig `mapstructure:"company"`
}

type RefreshConfig struct {
	Interval       time.Duration `mapstructure:"interval"`
	SnapshotTTL    time.Duration `mapstructure:"snapshotTtl"`
	SweepBatchSize int           `mapstructure:"sweepBatchSize"`
}

type CompanyConfig struct {
	Name         string `mapstructure:"name"`
	Address      string `mapstructure:"address"`
	City         string `mapstructure:"city"`
	BillingEmail string `mapstructure:"billingEmail"`
	SupportEmail string `mapstructure:"supportEmail"`
}

func DefaultConsoleConfig() ConsoleConfig {
	return ConsoleConfig{
		Refresh: RefreshConfig{
			Interval:       5 * time.Minute,
			SnapshotTTL:    15 * time.Minute,
			SweepBatchSize: 50,
		},
		Company: CompanyConfig{
			Name:         "Innovatun ERP Solutions",
			Address:      "123 Business Street",
			City:         "City, State 12345",
			BillingEmail: "billing@innovatun.com",
			SupportEmail: "support@innovatun.com",
		},
	}
}

// ConsoleConfigHolder serves the current console config and hot-reloads it
// when the backing file changes.
type ConsoleConfigHolder struct {
	current atomic.Value // holds ConsoleConfig
}

func NewConsoleConfigHolder() (*ConsoleConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("console")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/innovatun/config") // Volume-mounted config
	v.AddConfigPath("/etc/innovatun")            // System config
	v.AddConfigPath(".")                         // Current directory (dev mode)

	v.SetEnvPrefix("INNOVATUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultConsoleConfig()
		v.SetDefault("console.refresh", defaults.Refresh)
		v.SetDefault("console.company", defaults.Company)
	}

	var cfg ConsoleConfig
	if err := v.UnmarshalKey("console", &cfg); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if err := validateConsoleConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ConsoleConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated ConsoleConfig
		if err := v.UnmarshalKey("console", &updated); err != nil {
			log.Printf("[console-config] reload failed: %v", err)
			return
		}
		updated = updated.withDefaults()
		if err := validateConsoleConfig(updated); err != nil {
			log.Printf("[console-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[console-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *ConsoleConfigHolder) Get() ConsoleConfig {
	return h.current.Load().(ConsoleConfig)
}

func (c ConsoleConfig) withDefaults() ConsoleConfig {
	defaults := DefaultConsoleConfig()
	if c.Refresh.Interval <= 0 {
		c.Refresh.Interval = defaults.Refresh.Interval
	}
	if c.Refresh.SnapshotTTL <= 0 {
		c.Refresh.SnapshotTTL = defaults.Refresh.SnapshotTTL
	}
	if c.Refresh.SweepBatchSize <= 0 {
		c.Refresh.SweepBatchSize = defaults.Refresh.SweepBatchSize
	}
	if strings.TrimSpace(c.Company.Name) == "" {
		c.Company = defaults.Company
	}
	return c
}

func validateConsoleConfig(cfg ConsoleConfig) error {
	if cfg.Refresh.Interval < time.Second {
		return errors.New("refresh interval must be at least one second")
	}
	if cfg.Refresh.SnapshotTTL < cfg.Refresh.Interval {
		return errors.New("snapshot ttl must cover at least one refresh interval")
	}
	return nil
}
