package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validator "github.com/asaskevich/govalidator"
	"github.com/spf13/viper"

	"github.com/week8/rpnserver/errortypes"
)

// MinMetricSendInterval is the lowest accepted influxdb push interval, in seconds.
const MinMetricSendInterval = 2

// Configuration
type Configuration struct {
	Host       string     `mapstructure:"host"`
	Port       int        `mapstructure:"port"`
	AdminPort  int        `mapstructure:"admin_port"`
	EnableGzip bool       `mapstructure:"enable_gzip"`
	StaticDir  string     `mapstructure:"static_dir"`
	Random     Random     `mapstructure:"random"`
	TestRunner TestRunner `mapstructure:"test_runner"`
	Metrics    Metrics    `mapstructure:"metrics"`
}

// Random configures the bounded random number generator.
type Random struct {
	// DefaultMaximum is the bound in effect until a client sets one.
	DefaultMaximum int `mapstructure:"default_maximum"`
}

// TestRunner configures the child process launched when the server is started with a target argument.
type TestRunner struct {
	Command string `mapstructure:"command"`
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

type PrometheusMetrics struct {
	Port             int    `mapstructure:"port"`
	Namespace        string `mapstructure:"namespace"`
	Subsystem        string `mapstructure:"subsystem"`
	TimeoutMillisRaw int    `mapstructure:"timeout_ms"`
}

func (cfg *PrometheusMetrics) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMillisRaw) * time.Millisecond
}

func (cfg *Configuration) validate() []error {
	var errs []error
	errs = validatePort(errs, "port", cfg.Port)
	errs = validatePort(errs, "admin_port", cfg.AdminPort)
	if cfg.Port == cfg.AdminPort {
		errs = append(errs, fmt.Errorf("port and admin_port must differ, both are %d", cfg.Port))
	}
	if cfg.StaticDir == "" {
		errs = append(errs, errors.New("static_dir must not be empty"))
	}
	if cfg.Random.DefaultMaximum <= 0 {
		errs = append(errs, fmt.Errorf("random.default_maximum must be positive. Got %d", cfg.Random.DefaultMaximum))
	}
	if strings.TrimSpace(cfg.TestRunner.Command) == "" {
		errs = append(errs, errors.New("test_runner.command must not be empty"))
	}
	errs = cfg.Metrics.validate(errs)
	return errs
}

func (cfg *Metrics) validate(errs []error) []error {
	if cfg.Influxdb.Host != "" {
		if !validator.IsURL(cfg.Influxdb.Host) || !validator.IsRequestURL(cfg.Influxdb.Host) {
			errs = append(errs, fmt.Errorf("metrics.influxdb.host must be a valid URL. Got %s", cfg.Influxdb.Host))
		}
		if cfg.Influxdb.MetricSendInterval < MinMetricSendInterval {
			errs = append(errs, fmt.Errorf("metrics.influxdb.metric_send_interval must be at least %d seconds. Got %d", MinMetricSendInterval, cfg.Influxdb.MetricSendInterval))
		}
	}
	if cfg.Prometheus.Port != 0 {
		errs = validatePort(errs, "metrics.prometheus.port", cfg.Prometheus.Port)
		if cfg.Prometheus.TimeoutMillisRaw <= 0 {
			errs = append(errs, fmt.Errorf("metrics.prometheus.timeout_ms must be positive. Got %d", cfg.Prometheus.TimeoutMillisRaw))
		}
	}
	return errs
}

func validatePort(errs []error, key string, port int) []error {
	if port < 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("%s must be in [0, 65535]. Got %d", key, port))
	}
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}

	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}
	return &c, nil
}

// SetupViper sets the defaults, environment bindings and config file search path on v.
//
// Every key can be overridden by an RPN_-prefixed environment variable with "." replaced by
// "_" (e.g. RPN_METRICS_PROMETHEUS_PORT). The listening port additionally honours a bare PORT.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8046)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("static_dir", "static")
	v.SetDefault("random.default_maximum", 10)
	v.SetDefault("test_runner.command", "make")
	v.SetDefault("metrics.influxdb.host", "")
	v.SetDefault("metrics.influxdb.database", "")
	v.SetDefault("metrics.influxdb.username", "")
	v.SetDefault("metrics.influxdb.password", "")
	v.SetDefault("metrics.influxdb.metric_send_interval", 20)
	v.SetDefault("metrics.prometheus.port", 0)
	v.SetDefault("metrics.prometheus.namespace", "rpnserver")
	v.SetDefault("metrics.prometheus.subsystem", "")
	v.SetDefault("metrics.prometheus.timeout_ms", 10000)

	v.SetEnvPrefix("RPN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("port", "RPN_PORT", "PORT")
}
