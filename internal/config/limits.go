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

// Limits groups the tunable product limits: the monthly free-generation
// quota, the OTP daily cap, and background poll intervals.
type Limits struct {
	MaxFreeGenerations int           `mapstructure:"maxFreeGenerations"`
	OTPDailyCap        int           `mapstructure:"otpDailyCap"`
	OTPTTL             time.Duration `mapstructure:"otpTtl"`
	RatesPollInterval  time.Duration `mapstructure:"ratesPollInterval"`
	KeepaliveInterval  time.Duration `mapstructure:"keepaliveInterval"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxFreeGenerations: 5,
		OTPDailyCap:        3,
		OTPTTL:             5 * time.Minute,
		RatesPollInterval:  12 * time.Hour,
		KeepaliveInterval:  30 * time.Second,
	}
}

// LimitsHolder exposes the current limits and hot-reloads them when the
// limits.yml file changes.
type LimitsHolder struct {
	current atomic.Value // holds Limits
}

func NewLimitsHolder() (*LimitsHolder, error) {
	v := viper.New()

	v.SetConfigName("limits")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/amanah")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AMANAH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultLimits()
	v.SetDefault("limits.maxFreeGenerations", defaults.MaxFreeGenerations)
	v.SetDefault("limits.otpDailyCap", defaults.OTPDailyCap)
	v.SetDefault("limits.otpTtl", defaults.OTPTTL)
	v.SetDefault("limits.ratesPollInterval", defaults.RatesPollInterval)
	v.SetDefault("limits.keepaliveInterval", defaults.KeepaliveInterval)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var limits Limits
	if err := v.UnmarshalKey("limits", &limits); err != nil {
		return nil, err
	}
	if err := validateLimits(limits); err != nil {
		return nil, err
	}

	holder := &LimitsHolder{}
	holder.current.Store(limits)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated Limits
		if err := v.UnmarshalKey("limits", &updated); err != nil {
			log.Printf("[limits-config] reload failed: %v", err)
			return
		}
		if err := validateLimits(updated); err != nil {
			log.Printf("[limits-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[limits-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Current returns the limits in effect.
func (h *LimitsHolder) Current() Limits {
	if h == nil {
		return DefaultLimits()
	}
	if limits, ok := h.current.Load().(Limits); ok {
		return limits
	}
	return DefaultLimits()
}

// NewStaticLimitsHolder returns a holder pinned to the given limits. Tests
// use it to avoid touching the filesystem.
func NewStaticLimitsHolder(limits Limits) *LimitsHolder {
	holder := &LimitsHolder{}
	holder.current.Store(limits)
	return holder
}

func validateLimits(l Limits) error {
	if l.MaxFreeGenerations <= 0 {
		return errors.New("limits: maxFreeGenerations must be positive")
	}
	if l.OTPDailyCap <= 0 {
		return errors.New("limits: otpDailyCap must be positive")
	}
	if l.OTPTTL <= 0 {
		return errors.New("limits: otpTtl must be positive")
	}
	if l.RatesPollInterval <= 0 {
		return errors.New("limits: ratesPollInterval must be positive")
	}
	if l.KeepaliveInterval <= 0 {
		return errors.New("limits: keepaliveInterval must be positive")
	}
	return nil
}
