package exporter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/RoGogDBD/qdb-cloudwatch/internal/repository"
)

type submitCall struct {
	namespace string
	records   []models.Record
}

// fakeSink запоминает вызовы и возвращает ошибку для вызовов из failOn.
type fakeSink struct {
	mu     sync.Mutex
	calls  []submitCall
	failOn map[int]error
}

func (f *fakeSink) Submit(_ context.Context, namespace string, records []models.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, submitCall{namespace: namespace, records: records})
	if err, ok := f.failOn[idx]; ok {
		return err
	}
	return nil
}

type recordingObserver struct {
	events []models.SubmissionEvent
	err    error
}

func (r *recordingObserver) OnSubmission(event models.SubmissionEvent) error {
	r.events = append(r.events, event)
	return r.err
}

// failingStore возвращает ошибку для всех операций.
type failingStore struct{ err error }

func (f failingStore) ScanKeys(context.Context, string, int) ([]string, error) { return nil, f.err }
func (f failingStore) Integer(context.Context, string) (int64, error)          { return 0, f.err }
func (f failingStore) Text(context.Context, string) (string, error)            { return "", f.err }

func newStore(values map[string]int64, texts map[string]string) *repository.MemStore {
	s := repository.NewMemStore()
	for k, v := range values {
		s.SetInteger(k, v)
	}
	for k, v := range texts {
		s.SetText(k, v)
	}
	return s
}

func TestExporter_Run_EndToEnd(t *testing.T) {
	store := newStore(map[string]int64{
		"ns.n1.cpu.idle":                   3000,
		"ns.n1.memory.physmem.bytes_total": 1 << 30,
		"ns.n1.network.sessions.max_count": 64,
		"ns.n2.cpu.idle":                   9,
	}, map[string]string{
		"ns.n1.engine_version": "3.14.1",
	})
	store.SetInteger("ns.n1.foo.bar", 1)

	sink := &fakeSink{}
	dims := []models.Dimension{{Name: "InstanceId", Value: "i-1"}}
	exp := New(store, sink, Options{
		Namespace:           "QuasarDB",
		NodeID:              "n1",
		StatisticsNamespace: "ns",
		Dimensions:          dims,
	}, nil)

	report, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.Discovered)
	assert.Equal(t, 1, report.Unknown)
	assert.Equal(t, 1, report.Strings)
	assert.Equal(t, 3, report.Collected)
	require.Len(t, report.Results, 1)
	assert.Zero(t, report.Failed())

	require.Len(t, sink.calls, 1)
	call := sink.calls[0]
	assert.Equal(t, "QuasarDB", call.namespace)
	assert.Equal(t, []models.Record{
		{Name: "cpu.idle", Value: 3, Unit: models.UnitMicroseconds, Dimensions: dims},
		{Name: "memory.physmem.bytes_total", Value: 1 << 30, Unit: models.UnitBytes, Dimensions: dims},
		{Name: "network.sessions.max_count", Value: 64, Unit: models.UnitCount, Dimensions: dims},
	}, call.records)
}

func TestExporter_Run_StringsNeverSubmitted(t *testing.T) {
	store := newStore(nil, map[string]string{
		"ns.n1.engine_version":    "3.14.1",
		"ns.n1.engine_build_date": "2024-01-01",
		"ns.n1.disk.path":         "/var/lib/qdb",
	})
	core, logs := observer.New(zapcore.DebugLevel)
	sink := &fakeSink{}

	exp := New(store, sink, Options{NodeID: "n1", StatisticsNamespace: "ns", LogDiagnostics: true}, zap.New(core))
	report, err := exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Strings)
	assert.Empty(t, report.Results)
	assert.Empty(t, sink.calls)
	assert.Len(t, logs.FilterMessage("diagnostic statistic").All(), 3)
}

func TestExporter_Run_BatchesPreserveOrder(t *testing.T) {
	store := repository.NewMemStore()
	// Порядок хранилища лексикографический.
	names := []string{
		"cpu.idle", "cpu.system", "cpu.user",
		"disk.bytes_free", "disk.bytes_total",
		"hardware_concurrency",
		"memory.bytes_resident_size",
		"memory.physmem.bytes_total",
		"network.sessions.available_count",
		"network.sessions.max_count",
	}
	for _, n := range names {
		store.SetInteger("ns.n1."+n, 1)
	}
	sink := &fakeSink{}

	exp := New(store, sink, Options{NodeID: "n1", StatisticsNamespace: "ns"}, nil)
	_, err := exp.Run(context.Background())
	require.NoError(t, err)

	var got []string
	for _, c := range sink.calls {
		for _, r := range c.records {
			got = append(got, r.Name)
		}
	}
	assert.Equal(t, names, got)
}

func TestExporter_Run_CollectionFailure(t *testing.T) {
	tests := []struct {
		name        string
		skip        bool
		wantErr     bool
		wantSkipped int
		wantRecords int
	}{
		{name: "abort by default", skip: false, wantErr: true},
		{name: "skip unreadable", skip: true, wantSkipped: 1, wantRecords: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(map[string]int64{"ns.n1.cpu.idle": 1000}, map[string]string{
				"ns.n1.cpu.user": "garbage",
			})
			sink := &fakeSink{}
			exp := New(store, sink, Options{NodeID: "n1", StatisticsNamespace: "ns", SkipUnreadable: tt.skip}, nil)

			report, err := exp.Run(context.Background())
			if tt.wantErr {
				var collErr *CollectionError
				require.True(t, errors.As(err, &collErr))
				assert.Equal(t, "ns.n1.cpu.user", collErr.Key)
				assert.ErrorIs(t, err, repository.ErrWrongKind)
				assert.Empty(t, sink.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkipped, report.Skipped)
			require.Len(t, sink.calls, 1)
			assert.Len(t, sink.calls[0].records, tt.wantRecords)
		})
	}
}

func TestExporter_Run_DiscoveryFailure(t *testing.T) {
	boom := errors.New("connection refused")
	exp := New(failingStore{err: boom}, &fakeSink{}, Options{NodeID: "n1"}, nil)

	_, err := exp.Run(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestExporter_Run_SubmissionFailureContinues(t *testing.T) {
	boom := errors.New("throttled")
	sink := &fakeSink{failOn: map[int]error{1: boom}}
	obs := &recordingObserver{err: errors.New("observer down")}

	exp := New(repository.NewMemStore(), sink, Options{Namespace: "QuasarDB", NodeID: "n1"}, nil)
	exp.SetObserver(obs)

	batches := Assemble(makeMetrics(45), nil)
	results := exp.Submit(context.Background(), batches)

	require.Len(t, results, 3)
	require.Len(t, sink.calls, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, boom)
	assert.NoError(t, results[2].Err)
	assert.Len(t, results[2].Metrics, 5)

	report := &Report{Results: results}
	assert.Equal(t, 1, report.Failed())
	err := report.Err()
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "batch 1")

	require.Len(t, obs.events, 3)
	assert.Equal(t, "throttled", obs.events[1].Error)
	assert.Equal(t, "n1", obs.events[1].NodeID)
	assert.Equal(t, 1, obs.events[1].Batch)
	assert.Empty(t, obs.events[0].Error)
}

func TestExporter_Run_KeyLimit(t *testing.T) {
	store := repository.NewMemStore()
	for i := 0; i < 5; i++ {
		store.SetInteger(fmt.Sprintf("ns.n1.unknown_%d", i), int64(i))
	}
	exp := New(store, &fakeSink{}, Options{NodeID: "n1", StatisticsNamespace: "ns", KeyLimit: 3}, nil)

	report, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 3, report.Unknown)
}

func TestNew_Defaults(t *testing.T) {
	exp := New(repository.NewMemStore(), &fakeSink{}, Options{NodeID: "n1"}, nil)
	assert.Equal(t, StatisticsNamespace, exp.opts.StatisticsNamespace)
	assert.Equal(t, DefaultKeyLimit, exp.opts.KeyLimit)
}
