package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Значения по умолчанию.
const (
	DefaultCluster   = "redis://127.0.0.1:6379/0"
	DefaultNamespace = "QuasarDB"
	DefaultSink      = SinkCloudWatch
	DefaultKeyLimit  = 200
	DefaultLogLevel  = "info"

	// MaxDimensions — ограничение API назначения на число измерений одной записи.
	MaxDimensions = 30
)

// Поддерживаемые получатели метрик.
const (
	SinkCloudWatch = "cloudwatch"
	SinkHTTP       = "http"
	SinkLog        = "log"
)

// Ошибки конфигурации. Любая из них фатальна до начала работы.
var (
	ErrMissingNodeID      = errors.New("node id is required")
	ErrEmptyNamespace     = errors.New("namespace must not be empty")
	ErrUnsupportedCluster = errors.New("unsupported cluster uri")
	ErrUnknownSink        = errors.New("unknown sink")
	ErrMissingEndpoint    = errors.New("endpoint is required for the http sink")
	ErrInvalidKeyLimit    = errors.New("key limit must be positive")
)

// Config — неизменяемая после разбора конфигурация одного запуска экспортёра.
type Config struct {
	Cluster        string
	NodeID         string
	Namespace      string
	InstanceID     string
	Region         string
	Dimensions     DimensionList
	HostDimension  bool
	Sink           string
	Endpoint       string
	Key            string
	CryptoKey      string
	KeyLimit       int
	SkipUnreadable bool
	LogDiagnostics bool
	ReportFile     string
	ReportURL      string
	Migrate        bool
	LogLevel       string
	LogFile        string
	ListMetrics    bool
	ShowVersion    bool
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		Cluster:   DefaultCluster,
		Namespace: DefaultNamespace,
		Sink:      DefaultSink,
		KeyLimit:  DefaultKeyLimit,
		LogLevel:  DefaultLogLevel,
	}
}

// Parse собирает конфигурацию из аргументов, JSON-файла и переменных окружения.
//
// Приоритет (от низшего к высшему): значения по умолчанию, JSON-файл,
// явно заданные флаги, переменные окружения.
//
// args   — аргументы командной строки без имени программы.
// output — куда выводить справку по флагам (nil — io.Discard).
func Parse(args []string, output io.Writer) (*Config, error) {
	if output == nil {
		output = io.Discard
	}
	cfg := Default()

	fs := flag.NewFlagSet("qdb-cloudwatch", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Cluster, FlagCluster, cfg.Cluster, "Statistics store uri: redis://, postgres://, file://, mem://")
	fs.StringVar(&cfg.NodeID, FlagNodeID, "", "Node id to collect metrics from, e.g. 0-0-0-1")
	fs.StringVar(&cfg.Namespace, FlagNamespace, cfg.Namespace, "Destination namespace for metrics")
	fs.StringVar(&cfg.InstanceID, FlagInstanceID, "", "Instance id dimension; looked up from EC2 metadata when empty")
	fs.StringVar(&cfg.Region, FlagRegion, "", "AWS region override")
	fs.Var(&cfg.Dimensions, FlagDimension, "Extra Name=Value dimension, may be repeated")
	fs.BoolVar(&cfg.HostDimension, FlagHostDimension, false, "Add Host=<hostname> dimension")
	fs.StringVar(&cfg.Sink, FlagSink, cfg.Sink, "Metrics sink: cloudwatch, http, log")
	fs.StringVar(&cfg.Endpoint, FlagEndpoint, "", "Base url of the http sink")
	fs.StringVar(&cfg.Key, FlagKey, "", "Key for signing http sink requests")
	fs.StringVar(&cfg.CryptoKey, FlagCryptoKey, "", "Path to RSA public key for http sink payload encryption")
	fs.IntVar(&cfg.KeyLimit, FlagKeyLimit, cfg.KeyLimit, "Maximum number of statistic keys to discover")
	fs.BoolVar(&cfg.SkipUnreadable, FlagSkipUnreadable, false, "Skip statistics that cannot be read instead of failing")
	fs.BoolVar(&cfg.LogDiagnostics, FlagLogDiagnostics, false, "Read and log string statistics at debug level")
	fs.StringVar(&cfg.ReportFile, FlagReportFile, "", "Append batch results to this file")
	fs.StringVar(&cfg.ReportURL, FlagReportURL, "", "POST batch results to this url")
	fs.BoolVar(&cfg.Migrate, FlagMigrate, false, "Run schema migrations for the postgres store")
	fs.StringVar(&cfg.LogLevel, FlagLogLevel, cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, FlagLogFile, "", "Additional log file")
	fs.BoolVar(&cfg.ListMetrics, FlagListMetrics, false, "Print the statistic registry and exit")
	fs.BoolVar(&cfg.ShowVersion, FlagVersion, false, "Print build info and exit")
	configPath := fs.String(FlagConfig, "", "Path to JSON config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if path := GetConfigFilePathWithFlag(*configPath); path != "" {
		fileCfg, err := LoadJSONConfig(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.applyJSON(fileCfg, explicit); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyJSON(j *JSONConfig, explicit map[string]bool) error {
	setString := func(flagName string, dst *string, v string) {
		if !explicit[flagName] && v != "" {
			*dst = v
		}
	}
	setBool := func(flagName string, dst *bool, v *bool) {
		if !explicit[flagName] && v != nil {
			*dst = *v
		}
	}

	setString(FlagCluster, &c.Cluster, j.Cluster)
	setString(FlagNodeID, &c.NodeID, j.NodeID)
	setString(FlagNamespace, &c.Namespace, j.Namespace)
	setString(FlagInstanceID, &c.InstanceID, j.InstanceID)
	setString(FlagRegion, &c.Region, j.Region)
	setString(FlagSink, &c.Sink, j.Sink)
	setString(FlagEndpoint, &c.Endpoint, j.Endpoint)
	setString(FlagKey, &c.Key, j.Key)
	setString(FlagCryptoKey, &c.CryptoKey, j.CryptoKey)
	setString(FlagReportFile, &c.ReportFile, j.ReportFile)
	setString(FlagReportURL, &c.ReportURL, j.ReportURL)
	setString(FlagLogLevel, &c.LogLevel, j.LogLevel)
	setString(FlagLogFile, &c.LogFile, j.LogFile)
	setBool(FlagHostDimension, &c.HostDimension, j.HostDimension)
	setBool(FlagSkipUnreadable, &c.SkipUnreadable, j.SkipUnreadable)
	setBool(FlagLogDiagnostics, &c.LogDiagnostics, j.LogDiagnostics)
	setBool(FlagMigrate, &c.Migrate, j.Migrate)

	if !explicit[FlagKeyLimit] && j.KeyLimit != nil {
		c.KeyLimit = *j.KeyLimit
	}
	if !explicit[FlagDimension] && len(j.Dimensions) > 0 {
		var dims DimensionList
		for _, d := range j.Dimensions {
			if err := dims.Set(d); err != nil {
				return err
			}
		}
		c.Dimensions = dims
	}
	return nil
}

func (c *Config) applyEnv() error {
	for key, dst := range map[string]*string{
		EnvCluster:    &c.Cluster,
		EnvNodeID:     &c.NodeID,
		EnvNamespace:  &c.Namespace,
		EnvInstanceID: &c.InstanceID,
		EnvRegion:     &c.Region,
		EnvSink:       &c.Sink,
		EnvEndpoint:   &c.Endpoint,
		EnvKey:        &c.Key,
		EnvCryptoKey:  &c.CryptoKey,
		EnvReportFile: &c.ReportFile,
		EnvReportURL:  &c.ReportURL,
		EnvLogLevel:   &c.LogLevel,
		EnvLogFile:    &c.LogFile,
	} {
		if v := EnvString(key); v != "" {
			*dst = v
		}
	}

	for key, dst := range map[string]*bool{
		EnvHostDimension:  &c.HostDimension,
		EnvSkipUnreadable: &c.SkipUnreadable,
		EnvLogDiagnostics: &c.LogDiagnostics,
		EnvMigrate:        &c.Migrate,
	} {
		v, ok, err := EnvBool(key)
		if err != nil {
			return err
		}
		if ok {
			*dst = v
		}
	}

	if v, err := EnvInt(EnvKeyLimit); err != nil {
		return err
	} else if v != 0 {
		c.KeyLimit = v
	}

	if v := EnvString(EnvDimensions); v != "" {
		dims, err := ParseDimensions(v)
		if err != nil {
			return err
		}
		c.Dimensions = dims
	}
	return nil
}

// Validate проверяет конфигурацию перед началом работы.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.NodeID) == "" {
		return ErrMissingNodeID
	}
	if strings.TrimSpace(c.Namespace) == "" {
		return ErrEmptyNamespace
	}
	if _, err := c.ClusterScheme(); err != nil {
		return err
	}
	switch c.Sink {
	case SinkCloudWatch, SinkLog:
	case SinkHTTP:
		if c.Endpoint == "" {
			return ErrMissingEndpoint
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSink, c.Sink)
	}
	if c.KeyLimit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidKeyLimit, c.KeyLimit)
	}
	// InstanceId и Host могут добавиться к пользовательским измерениям.
	if len(c.Dimensions)+2 > MaxDimensions {
		return fmt.Errorf("%w: at most %d dimensions allowed", ErrInvalidDimension, MaxDimensions-2)
	}
	return nil
}

// ClusterScheme возвращает нормализованную схему URI хранилища статистик.
//
// Возвращает одну из: "redis", "postgres", "file", "mem".
func (c *Config) ClusterScheme() (string, error) {
	u, err := url.Parse(c.Cluster)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedCluster, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "redis", "rediss":
		return "redis", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "file":
		if u.Host+u.Path == "" {
			return "", fmt.Errorf("%w: empty snapshot path", ErrUnsupportedCluster)
		}
		return "file", nil
	case "mem":
		return "mem", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCluster, c.Cluster)
	}
}

// SnapshotPath возвращает путь к файлу снимка для URI вида file://.
func (c *Config) SnapshotPath() string {
	u, err := url.Parse(c.Cluster)
	if err != nil {
		return ""
	}
	return u.Host + u.Path
}
