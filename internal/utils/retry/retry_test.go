package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"alethiq-server/services/chat-api/internal/utils/retry"
)

func TestPolicy_CalculateDelay(t *testing.T) {
	tests := []struct {
		name    string
		policy  retry.Policy
		attempt int
		want    time.Duration
	}{
		{
			name: "fixed backoff - attempt 1",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffFixed,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
			},
			attempt: 1,
			want:    100 * time.Millisecond,
		},
		{
			name: "fixed backoff - attempt 5",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffFixed,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
			},
			attempt: 5,
			want:    100 * time.Millisecond,
		},
		{
			name: "linear backoff - attempt 3",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffLinear,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        1 * time.Second,
			},
			attempt: 3,
			want:    300 * time.Millisecond,
		},
		{
			name: "exponential backoff - attempt 3",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffExponential,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        10 * time.Second,
			},
			attempt: 3,
			want:    400 * time.Millisecond,
		},
		{
			name: "respects max delay",
			policy: retry.Policy{
				BackoffStrategy: retry.BackoffExponential,
				InitialDelay:    100 * time.Millisecond,
				MaxDelay:        200 * time.Millisecond,
			},
			attempt: 10,
			want:    200 * time.Millisecond,
		},
		{
			name:    "attempt zero has no delay",
			policy:  retry.DefaultPolicy(),
			attempt: 0,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.CalculateDelay(tt.attempt); got != tt.want {
				t.Errorf("Policy.CalculateDelay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      3,
		InitialDelay:    time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}

	attempts := 0
	err := retry.Do(context.Background(), policy, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestDo_ReturnsLastError(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      2,
		InitialDelay:    time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}

	sentinel := errors.New("still broken")
	attempts := 0
	err := retry.Do(context.Background(), policy, func() error {
		attempts++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Do() = %v, want %v", err, sentinel)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestDo_StopsOnContextCancel(t *testing.T) {
	policy := retry.Policy{
		MaxRetries:      10,
		InitialDelay:    50 * time.Millisecond,
		BackoffStrategy: retry.BackoffFixed,
	}

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := retry.Do(ctx, policy, func() error {
		attempts++
		return errors.New("failing")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt before cancellation, got %d", attempts)
	}
}
