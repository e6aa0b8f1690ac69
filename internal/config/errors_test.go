package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff(t *testing.T) {
	delay := retryIntervals
	defer func() { retryIntervals = delay }()

	fatal := errors.New("fatal")

	tests := []struct {
		name      string
		intervals []time.Duration
		errs      []error // ошибки по номеру вызова; дальше — успех
		cancel    bool
		wantCalls int
		wantErrIs error
		wantCode  string
		wantMsg   string
	}{
		{
			name:      "succeeds after retry",
			intervals: []time.Duration{time.Millisecond, time.Millisecond},
			errs:      []error{&pgconn.PgError{Code: "08006", Message: "connection error"}},
			wantCalls: 2,
		},
		{
			name:      "non retriable error returned immediately",
			intervals: []time.Duration{time.Millisecond, time.Millisecond},
			errs:      []error{fatal},
			wantCalls: 1,
			wantErrIs: fatal,
		},
		{
			name:      "exhausts retries",
			intervals: []time.Duration{time.Millisecond, time.Millisecond},
			errs: []error{
				&pgconn.PgError{Code: "08003", Message: "lost"},
				&pgconn.PgError{Code: "08003", Message: "lost"},
			},
			wantCalls: 2,
			wantCode:  "08003",
			wantMsg:   "operation failed after retries",
		},
		{
			name:      "context canceled",
			intervals: []time.Duration{200 * time.Millisecond},
			errs:      []error{&pgconn.PgError{Code: "08006"}},
			cancel:    true,
			wantCalls: 1,
			wantErrIs: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retryIntervals = tt.intervals
			calls := 0
			op := func() error {
				calls++
				if calls <= len(tt.errs) {
					return tt.errs[calls-1]
				}
				return nil
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				go func() {
					time.Sleep(10 * time.Millisecond)
					cancel()
				}()
			}

			err := RetryWithBackoff(ctx, op)
			assert.Equal(t, tt.wantCalls, calls)

			switch {
			case tt.wantErrIs != nil:
				require.ErrorIs(t, err, tt.wantErrIs)
			case tt.wantCode != "":
				var pgErr *pgconn.PgError
				require.ErrorAs(t, err, &pgErr)
				assert.Equal(t, tt.wantCode, pgErr.Code)
				assert.Contains(t, err.Error(), tt.wantMsg)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestIsRetriableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"connection exception class", &pgconn.PgError{Code: "08001"}, true},
		{"wrapped connection exception", errors.Join(errors.New("ping"), &pgconn.PgError{Code: "08006"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetriableError(tt.err))
		})
	}
}
