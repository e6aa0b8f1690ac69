package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	models "github.com/RoGogDBD/qdb-cloudwatch/internal/model"
)

func TestLog_Submit(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLog(zap.New(core))

	err := l.Submit(context.Background(), "QuasarDB", []models.Record{
		{Name: "cpu.idle", Value: 3, Unit: models.UnitMicroseconds, Dimensions: []models.Dimension{{Name: "InstanceId", Value: "i-1"}}},
		{Name: "startup", Value: 10},
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("metric").All()
	require.Len(t, entries, 2)
	fields := entries[0].ContextMap()
	assert.Equal(t, "QuasarDB", fields["namespace"])
	assert.Equal(t, "cpu.idle", fields["name"])
	assert.Equal(t, 3.0, fields["value"])
	assert.Equal(t, "i-1", fields["dim.InstanceId"])
}

func TestLog_Submit_TooLarge(t *testing.T) {
	l := NewLog(zap.NewNop())
	err := l.Submit(context.Background(), "QuasarDB", records(MaxRecords+1))
	require.ErrorIs(t, err, ErrBatchTooLarge)
}
