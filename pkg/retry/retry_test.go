package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func immediateBackoff(int) time.Duration { return 0 }

func TestDo(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name        string
		policy      Policy
		results     []int
		errs        []error
		valid       func(int) bool
		want        int
		wantErr     error
		wantCalls   int
	}{
		{
			name:      "first attempt succeeds",
			policy:    Policy{MaxAttempts: 3, Backoff: immediateBackoff},
			results:   []int{42},
			errs:      []error{nil},
			want:      42,
			wantCalls: 1,
		},
		{
			name:      "succeeds after failures",
			policy:    Policy{MaxAttempts: 3, Backoff: immediateBackoff},
			results:   []int{0, 0, 7},
			errs:      []error{errBoom, errBoom, nil},
			want:      7,
			wantCalls: 3,
		},
		{
			name:      "attempts exhausted returns last error",
			policy:    Policy{MaxAttempts: 2, Backoff: immediateBackoff},
			results:   []int{0, 0},
			errs:      []error{errBoom, errBoom},
			wantErr:   errBoom,
			wantCalls: 2,
		},
		{
			name:      "invalid result retried then rejected",
			policy:    Policy{MaxAttempts: 2, Backoff: immediateBackoff},
			results:   []int{-1, -1},
			errs:      []error{nil, nil},
			valid:     func(v int) bool { return v > 0 },
			wantErr:   ErrInvalidResult,
			wantCalls: 2,
		},
		{
			name:      "invalid result then valid one",
			policy:    Policy{MaxAttempts: 3, Backoff: immediateBackoff},
			results:   []int{-1, 5},
			errs:      []error{nil, nil},
			valid:     func(v int) bool { return v > 0 },
			want:      5,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := Do(context.Background(), tt.policy,
				func(ctx context.Context) (int, error) {
					i := calls
					calls++
					return tt.results[i], tt.errs[i]
				},
				tt.valid,
			)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, Policy{MaxAttempts: 3, Backoff: DefaultBackoff},
		func(ctx context.Context) (int, error) {
			return 0, errors.New("always fails")
		},
		nil,
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, DefaultBackoff(1))
	assert.Equal(t, 4*time.Second, DefaultBackoff(2))
}
