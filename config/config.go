package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SysConfig system-level settings
type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// WebConfig admin API listener settings
type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// LogConfig logger settings
type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// DBConfig database connection settings
type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// SnmpConfig SNMP transport settings shared by all sessions
type SnmpConfig struct {
	Port    int `yaml:"port" json:"port"`       // agent port, default 161
	Timeout int `yaml:"timeout" json:"timeout"` // per request timeout in seconds
	Retries int `yaml:"retries" json:"retries"` // retry count after first timeout
}

// PollerConfig concurrency and batching limits for the poll engine
type PollerConfig struct {
	MaxWorkers        int `yaml:"max_workers" json:"max_workers"`               // devices polled concurrently
	NodeWorkers       int `yaml:"node_workers" json:"node_workers"`             // batches in flight per device
	BatchSize         int `yaml:"batch_size" json:"batch_size"`                 // metric queries per SNMP GET
	PollInterval      int `yaml:"poll_interval" json:"poll_interval"`           // seconds between telemetry cycles
	DiscoveryInterval int `yaml:"discovery_interval" json:"discovery_interval"` // seconds between discovery cycles
	CycleTimeout      int `yaml:"cycle_timeout" json:"cycle_timeout"`           // seconds before a whole cycle is cancelled
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Snmp     SnmpConfig   `yaml:"snmp" json:"snmp"`
	Poller   PollerConfig `yaml:"poller" json:"poller"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
}

func (c *SnmpConfig) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

func (c *PollerConfig) CycleDeadline() time.Duration {
	if c.CycleTimeout <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.CycleTimeout) * time.Second
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "OltWatch",
		Location: "Asia/Kathmandu",
		Workdir:  "/var/oltwatch",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1920,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "oltwatch",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Snmp: SnmpConfig{
		Port:    161,
		Timeout: 10,
		Retries: 1,
	},
	Poller: PollerConfig{
		MaxWorkers:        50,
		NodeWorkers:       4,
		BatchSize:         25,
		PollInterval:      900,
		DiscoveryInterval: 3600,
		CycleTimeout:      1800,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/oltwatch/oltwatch.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvIntValue(name string, f func(v int)) {
	setEnvValue(name, func(v string) {
		f(cast.ToInt(v))
	})
}

func setEnvBoolValue(name string, f func(v bool)) {
	setEnvValue(name, func(v string) {
		f(cast.ToBool(v))
	})
}

// LoadConfig loads the YAML configuration file and applies environment
// overrides. A missing file yields the default configuration.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			if err = yaml.Unmarshal(data, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "config file %s parse error: %v\n", cfile, err)
			}
		}
	}

	setEnvValue("OLTWATCH_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("OLTWATCH_SYSTEM_LOCATION", func(v string) { cfg.System.Location = v })
	setEnvBoolValue("OLTWATCH_SYSTEM_DEBUG", func(v bool) { cfg.System.Debug = v })

	setEnvValue("OLTWATCH_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvIntValue("OLTWATCH_DB_PORT", func(v int) { cfg.Database.Port = v })
	setEnvValue("OLTWATCH_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("OLTWATCH_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("OLTWATCH_DB_PWD", func(v string) { cfg.Database.Passwd = v })

	setEnvValue("OLTWATCH_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvIntValue("OLTWATCH_WEB_PORT", func(v int) { cfg.Web.Port = v })

	setEnvIntValue("OLTWATCH_SNMP_TIMEOUT", func(v int) { cfg.Snmp.Timeout = v })
	setEnvIntValue("OLTWATCH_SNMP_RETRIES", func(v int) { cfg.Snmp.Retries = v })

	setEnvIntValue("OLTWATCH_POLLER_MAX_WORKERS", func(v int) { cfg.Poller.MaxWorkers = v })
	setEnvIntValue("OLTWATCH_POLLER_NODE_WORKERS", func(v int) { cfg.Poller.NodeWorkers = v })
	setEnvIntValue("OLTWATCH_POLLER_BATCH_SIZE", func(v int) { cfg.Poller.BatchSize = v })

	return cfg
}
