package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/maio/mopub-adapter/errortypes"
	"github.com/spf13/viper"
)

// Configuration specifies the static application config.
type Configuration struct {
	Host       string `mapstructure:"host"`
	AdminPort  int    `mapstructure:"admin_port"`
	EnableGzip bool   `mapstructure:"enable_gzip"`
	// RequestTimeoutMS bounds how long an admin request may wait on a network SDK.
	RequestTimeoutMS int `mapstructure:"request_timeout_ms"`
	// AdapterInfoDir holds one <network>.yaml metadata file per adapter.
	AdapterInfoDir string             `mapstructure:"adapter_info_dir"`
	Adapters       map[string]Adapter `mapstructure:"adapters"`
	Metrics        Metrics            `mapstructure:"metrics"`
}

type Metrics struct {
	Influxdb   InfluxMetrics     `mapstructure:"influxdb"`
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

type InfluxMetrics struct {
	Host               string `mapstructure:"host"`
	Database           string `mapstructure:"database"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MetricSendInterval int    `mapstructure:"metric_send_interval"`
}

func (cfg *InfluxMetrics) validate(errs []error) []error {
	// Reporting is disabled when no host is configured.
	if cfg.Host == "" {
		return errs
	}
	if cfg.MetricSendInterval <= 0 {
		errs = append(errs, fmt.Errorf("metrics.influxdb.metric_send_interval must be positive when metrics.influxdb.host is set. Got %d", cfg.MetricSendInterval))
	}
	if cfg.Database == "" {
		errs = append(errs, errors.New("metrics.influxdb.database must be set when metrics.influxdb.host is set"))
	}
	return errs
}

type PrometheusMetrics struct {
	Port      int    `mapstructure:"port"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

func (cfg *PrometheusMetrics) validate(errs []error) []error {
	if cfg.Port < 0 {
		errs = append(errs, fmt.Errorf("metrics.prometheus.port must not be negative. Got %d", cfg.Port))
	}
	return errs
}

func (cfg *Configuration) validate() []error {
	var errs []error
	if cfg.AdminPort <= 0 {
		errs = append(errs, fmt.Errorf("admin_port must be positive. Got %d", cfg.AdminPort))
	}
	if cfg.RequestTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("request_timeout_ms must not be negative. Got %d", cfg.RequestTimeoutMS))
	}
	if cfg.Metrics.Prometheus.Port != 0 && cfg.Metrics.Prometheus.Port == cfg.AdminPort {
		errs = append(errs, fmt.Errorf("metrics.prometheus.port and admin_port must differ. Both are %d", cfg.AdminPort))
	}
	errs = cfg.Metrics.Influxdb.validate(errs)
	errs = cfg.Metrics.Prometheus.validate(errs)
	errs = validateAdapters(cfg.Adapters, errs)
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	// Viper lower-cases map keys; normalize so lookups by network name are predictable.
	adapters := make(map[string]Adapter, len(c.Adapters))
	for name, adapter := range c.Adapters {
		adapters[strings.ToLower(name)] = adapter
	}
	c.Adapters = adapters

	glog.Info("Logging the resolved configuration:")
	logGeneral(reflect.ValueOf(c), "")

	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}

	return &c, nil
}

// RequestTimeout returns the admin request timeout, or zero when unbounded.
func (cfg *Configuration) RequestTimeout() time.Duration {
	return time.Duration(cfg.RequestTimeoutMS) * time.Millisecond
}

// SetupViper sets the default values and file lookup paths for the application config.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("request_timeout_ms", 10000)
	v.SetDefault("adapter_info_dir", "./static/adapter-info")
	v.SetDefault("metrics.influxdb.host", "")
	v.SetDefault("metrics.influxdb.database", "")
	v.SetDefault("metrics.influxdb.username", "")
	v.SetDefault("metrics.influxdb.password", "")
	v.SetDefault("metrics.influxdb.metric_send_interval", 20)
	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "")

	v.SetDefault("adapters.maio.enabled", true)
	v.SetDefault("adapters.maio.endpoint", "https://sdk.maio.example/v1")
	v.SetDefault("adapters.maio.timeout_ms", 5000)
	v.SetDefault("adapters.maio.token_refresh_seconds", 0)
	v.SetDefault("adapters.maio.test_mode", false)

	v.SetEnvPrefix("MAIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename != "" {
		if err := v.ReadInConfig(); err != nil {
			glog.Warningf("Failed to read config file %s, using defaults and environment: %v", filename, err)
		}
	}
}
