package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Константы для имен переменных окружения
const (
	EnvCluster        = "CLUSTER"
	EnvNodeID         = "NODE_ID"
	EnvNamespace      = "NAMESPACE"
	EnvInstanceID     = "INSTANCE_ID"
	EnvRegion         = "REGION"
	EnvDimensions     = "DIMENSIONS"
	EnvHostDimension  = "HOST_DIMENSION"
	EnvSink           = "SINK"
	EnvEndpoint       = "ENDPOINT"
	EnvKey            = "KEY"
	EnvCryptoKey      = "CRYPTO_KEY"
	EnvKeyLimit       = "KEY_LIMIT"
	EnvSkipUnreadable = "SKIP_UNREADABLE"
	EnvLogDiagnostics = "LOG_DIAGNOSTICS"
	EnvReportFile     = "REPORT_FILE"
	EnvReportURL      = "REPORT_URL"
	EnvMigrate        = "MIGRATE"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFile        = "LOG_FILE"
	EnvConfig         = "CONFIG"
)

// Константы для флагов командной строки
const (
	FlagCluster        = "cluster"
	FlagNodeID         = "node-id"
	FlagNamespace      = "namespace"
	FlagInstanceID     = "instance-id"
	FlagRegion         = "region"
	FlagDimension      = "dimension"
	FlagHostDimension  = "host-dimension"
	FlagSink           = "sink"
	FlagEndpoint       = "endpoint"
	FlagKey            = "k"
	FlagCryptoKey      = "crypto-key"
	FlagKeyLimit       = "key-limit"
	FlagSkipUnreadable = "skip-unreadable"
	FlagLogDiagnostics = "log-diagnostics"
	FlagReportFile     = "report-file"
	FlagReportURL      = "report-url"
	FlagMigrate        = "migrate"
	FlagLogLevel       = "log-level"
	FlagLogFile        = "log-file"
	FlagListMetrics    = "list-metrics"
	FlagVersion        = "version"
	FlagConfig         = "c"
)

// JSONConfig представляет конфигурацию экспортёра в формате JSON.
//
// Указатели используются для различения "не задано" и нулевого значения.
type JSONConfig struct {
	Cluster        string   `json:"cluster"`         // CLUSTER или флаг -cluster
	NodeID         string   `json:"node_id"`         // NODE_ID или флаг -node-id
	Namespace      string   `json:"namespace"`       // NAMESPACE или флаг -namespace
	InstanceID     string   `json:"instance_id"`     // INSTANCE_ID или флаг -instance-id
	Region         string   `json:"region"`          // REGION или флаг -region
	Dimensions     []string `json:"dimensions"`      // DIMENSIONS или флаг -dimension (Name=Value)
	HostDimension  *bool    `json:"host_dimension"`  // HOST_DIMENSION или флаг -host-dimension
	Sink           string   `json:"sink"`            // SINK или флаг -sink
	Endpoint       string   `json:"endpoint"`        // ENDPOINT или флаг -endpoint
	Key            string   `json:"key"`             // KEY или флаг -k
	CryptoKey      string   `json:"crypto_key"`      // CRYPTO_KEY или флаг -crypto-key
	KeyLimit       *int     `json:"key_limit"`       // KEY_LIMIT или флаг -key-limit
	SkipUnreadable *bool    `json:"skip_unreadable"` // SKIP_UNREADABLE или флаг -skip-unreadable
	LogDiagnostics *bool    `json:"log_diagnostics"` // LOG_DIAGNOSTICS или флаг -log-diagnostics
	ReportFile     string   `json:"report_file"`     // REPORT_FILE или флаг -report-file
	ReportURL      string   `json:"report_url"`      // REPORT_URL или флаг -report-url
	Migrate        *bool    `json:"migrate"`         // MIGRATE или флаг -migrate
	LogLevel       string   `json:"log_level"`       // LOG_LEVEL или флаг -log-level
	LogFile        string   `json:"log_file"`        // LOG_FILE или флаг -log-file
}

// LoadJSONConfig загружает конфигурацию из JSON файла.
//
// filePath — путь к JSON файлу конфигурации; пустой путь даёт пустую конфигурацию.
func LoadJSONConfig(filePath string) (*JSONConfig, error) {
	cfg := &JSONConfig{}
	if filePath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetConfigFilePathWithFlag получает путь к файлу конфигурации, учитывая явно переданный флаг.
// Используется после разбора флагов.
func GetConfigFilePathWithFlag(flagValue string) string {
	// Флаги имеют больший приоритет
	if flagValue != "" {
		return flagValue
	}
	// Затем проверяем переменную окружения
	return EnvString(EnvConfig)
}
