package registry

import (
	"sort"
	"strings"
	"testing"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
	"github.com/stretchr/testify/require"
)

func TestLookup_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		wantOK   bool
		wantKind models.MetricKind
		wantUnit string
		raw      float64
		want     float64
	}{
		{"nanos counter", "cpu.idle", true, models.Counter, models.UnitMicroseconds, 3000, 3},
		{"perf counter", "perf.ts.table_insert.processing.total_ns", true, models.Counter, models.UnitMicroseconds, 1500, 1.5},
		{"bytes gauge", "memory.physmem.bytes_total", true, models.Gauge, models.UnitBytes, 4096, 4096},
		{"count gauge", "partitions_count", true, models.Gauge, models.UnitCount, 7, 7},
		{"bytes counter", "persistence.bytes_read", true, models.Counter, models.UnitBytes, 10, 10},
		{"startup has no unit", "startup", true, models.Counter, "", 1, 1},
		{"string stat", "engine_version", true, models.String, "", 0, 0},
		{"unknown", "unmapped.thing", false, 0, "", 0, 0},
		{"prefixed key is not a name", "$qdb.statistics.0-0-0-1.cpu.idle", false, 0, "", 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Lookup(tt.key)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			require.Equal(t, tt.wantKind, d.Kind)
			require.Equal(t, tt.wantUnit, d.Unit)
			require.InDelta(t, tt.want, d.Apply(tt.raw), 1e-9)
		})
	}
}

func TestLookup_Idempotent(t *testing.T) {
	for _, name := range []string{"cpu.user", "disk.path", "missing"} {
		d1, ok1 := Lookup(name)
		d2, ok2 := Lookup(name)
		require.Equal(t, ok1, ok2)
		require.Equal(t, d1.Kind, d2.Kind)
		require.Equal(t, d1.Unit, d2.Unit)
	}
}

func TestRegistry_Invariants(t *testing.T) {
	names := Names()
	require.Len(t, names, Len())
	require.True(t, sort.StringsAreSorted(names))

	for _, name := range names {
		d, ok := Lookup(name)
		require.True(t, ok, name)

		switch d.Kind {
		case models.String:
			require.Empty(t, d.Unit, name)
			require.Nil(t, d.Transform, name)
		case models.Counter, models.Gauge:
			require.Contains(t, []string{models.UnitBytes, models.UnitCount, models.UnitMicroseconds, ""}, d.Unit, name)
		default:
			t.Fatalf("unexpected kind %v for %s", d.Kind, name)
		}

		// Все *_ns статистики собираются в наносекундах и отправляются в микросекундах.
		if strings.HasSuffix(name, ".total_ns") {
			require.Equal(t, models.UnitMicroseconds, d.Unit, name)
			require.NotNil(t, d.Transform, name)
		}
		if d.Transform != nil {
			require.Equal(t, models.UnitMicroseconds, d.Unit, name)
		}
	}
}

func TestNanosToMicros(t *testing.T) {
	require.Equal(t, 3.0, NanosToMicros(3000))
	require.Equal(t, 0.0, NanosToMicros(0))
	require.Equal(t, 0.5, NanosToMicros(500))
}
