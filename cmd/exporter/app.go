package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/RoGogDBD/qdb-cloudwatch/internal/config"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/config/db"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/crypto"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/exporter"
	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/registry"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/repository"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/sink"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/version"
	"go.uber.org/zap"
)

// Коды завершения процесса.
const (
	exitOK     = 0
	exitRun    = 1
	exitConfig = 2
)

// Имена измерений, добавляемых экспортёром.
const (
	dimInstanceID = "InstanceId"
	dimHost       = "Host"
)

// instanceIDSource возвращает идентификатор инстанса для измерения InstanceId.
type instanceIDSource interface {
	InstanceID(ctx context.Context) (string, error)
}

// hostnameFunc подменяется в тестах.
var hostnameFunc = sink.Hostname

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitConfig
	}

	switch {
	case cfg.ShowVersion:
		version.Print(stdout)
		return exitOK
	case cfg.ListMetrics:
		if err := printRegistry(stdout); err != nil {
			fmt.Fprintf(stderr, "failed to print registry: %v\n", err)
			return exitRun
		}
		return exitOK
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitConfig
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(stderr, "failed to create logger: %v\n", err)
		return exitConfig
	}
	defer func() { _ = logger.Sync() }()
	restore := zap.ReplaceGlobals(logger)
	defer restore()

	report, err := export(ctx, cfg, logger)
	if report != nil {
		printResults(stdout, report)
	}
	if err != nil {
		logger.Error("export failed", zap.Error(err))
		return exitRun
	}
	return exitOK
}

// export собирает зависимости по конфигурации и выполняет один проход.
func export(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*exporter.Report, error) {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	target, ids, err := newSink(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	dims, err := dimensions(ctx, cfg, ids, logger)
	if err != nil {
		return nil, err
	}

	exp := exporter.New(store, target, exporter.Options{
		Namespace:      cfg.Namespace,
		NodeID:         cfg.NodeID,
		KeyLimit:       cfg.KeyLimit,
		Dimensions:     dims,
		SkipUnreadable: cfg.SkipUnreadable,
		LogDiagnostics: cfg.LogDiagnostics,
	}, logger)

	reports, err := newReportManager(cfg, logger)
	if err != nil {
		return nil, err
	}
	if reports.HasObservers() {
		exp.SetObserver(reports)
	}

	return exp.Run(ctx)
}

// openStore открывает хранилище статистик по схеме URI кластера.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	scheme, err := cfg.ClusterScheme()
	if err != nil {
		return nil, nil, err
	}

	switch scheme {
	case "redis":
		s, err := repository.NewRedisStore(cfg.Cluster)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		if cfg.Migrate {
			if err := db.RunMigrations(cfg.Cluster, logger); err != nil {
				return nil, nil, err
			}
		}
		conn, err := db.Open(ctx, cfg.Cluster, logger)
		if err != nil {
			return nil, nil, err
		}
		s := repository.NewPostgresStore(conn)
		return s, func() { _ = s.Close() }, nil
	case "file":
		s, err := repository.LoadSnapshot(cfg.SnapshotPath())
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return repository.NewMemStore(), func() {}, nil
	}
}

// newSink создаёт получателя метрик. Для CloudWatch дополнительно возвращается
// источник идентификатора инстанса из метаданных EC2.
func newSink(ctx context.Context, cfg *config.Config, logger *zap.Logger) (exporter.Sink, instanceIDSource, error) {
	switch cfg.Sink {
	case config.SinkCloudWatch:
		awsCfg, err := sink.LoadAWSConfig(ctx, cfg.Region)
		if err != nil {
			return nil, nil, err
		}
		return sink.NewCloudWatch(awsCfg), sink.NewInstanceIDLookup(awsCfg), nil
	case config.SinkHTTP:
		opts := sink.HTTPOptions{
			Endpoint:   cfg.Endpoint,
			Key:        cfg.Key,
			RetryCount: 3,
		}
		if cfg.CryptoKey != "" {
			pub, err := crypto.LoadPublicKey(cfg.CryptoKey)
			if err != nil {
				return nil, nil, err
			}
			opts.PublicKey = pub
		}
		return sink.NewHTTP(opts, logger), nil, nil
	case config.SinkLog:
		return sink.NewLog(logger), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownSink, cfg.Sink)
	}
}

// dimensions собирает измерения записей: InstanceId, Host, затем пользовательские.
//
// Если идентификатор инстанса не задан и не получен из метаданных,
// измерение InstanceId опускается.
func dimensions(ctx context.Context, cfg *config.Config, ids instanceIDSource, logger *zap.Logger) ([]models.Dimension, error) {
	dims := make([]models.Dimension, 0, len(cfg.Dimensions)+2)

	instanceID := cfg.InstanceID
	if instanceID == "" && ids != nil {
		id, err := ids.InstanceID(ctx)
		if err != nil {
			logger.Warn("instance id lookup failed, InstanceId dimension omitted", zap.Error(err))
		} else {
			instanceID = id
		}
	}
	if instanceID != "" {
		dims = append(dims, models.Dimension{Name: dimInstanceID, Value: instanceID})
	}

	if cfg.HostDimension {
		host, err := hostnameFunc(ctx)
		if err != nil {
			return nil, err
		}
		dims = append(dims, models.Dimension{Name: dimHost, Value: host})
	}

	return append(dims, cfg.Dimensions...), nil
}

func newReportManager(cfg *config.Config, logger *zap.Logger) (*repository.ReportManager, error) {
	reports := repository.NewReportManager(logger)
	if cfg.ReportFile != "" {
		obs, err := repository.NewFileReportObserver(cfg.ReportFile)
		if err != nil {
			return nil, err
		}
		reports.Attach(obs)
	}
	if cfg.ReportURL != "" {
		reports.Attach(repository.NewHTTPReportObserver(cfg.ReportURL))
	}
	return reports, nil
}

// printResults выводит по одной строке на каждый отправленный пакет.
func printResults(w io.Writer, report *exporter.Report) {
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(w, "batch %d: %d metrics: failed: %v\n", res.Index, len(res.Metrics), res.Err)
			continue
		}
		fmt.Fprintf(w, "batch %d: %d metrics: ok\n", res.Index, len(res.Metrics))
	}
}

// printRegistry выводит реестр статистик в виде "имя тип единица", отсортированный по имени.
func printRegistry(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range registry.Names() {
		d, _ := registry.Lookup(name)
		unit := d.Unit
		if unit == "" {
			unit = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, d.Kind, unit)
	}
	return tw.Flush()
}
