package pddlrun

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func retryTestConfig(maxRetries int, sleeps *[]time.Duration) RetryConfig {
	return RetryConfig{
		MaxRetries:    maxRetries,
		InitialDelay:  100 * time.Millisecond,
		BackoffFactor: 2.0,
		Logger:        zerolog.Nop(),
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
	}
}

func TestRetryFirstAttemptSucceeds(t *testing.T) {
	var sleeps []time.Duration

	calls := 0
	got, err := Retry(retryTestConfig(3, &sleeps), func() (string, error) {
		calls++

		return "ok", nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got != "ok" {
		t.Fatalf("unexpected result: %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if len(sleeps) != 0 {
		t.Fatalf("expected no sleeps, got %v", sleeps)
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var sleeps []time.Duration

	calls := 0
	got, err := Retry(retryTestConfig(3, &sleeps), func() (int, error) {
		calls++
		if calls <= 2 {
			return 0, errors.New("transient")
		}

		return 42, nil
	})
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got != 42 {
		t.Fatalf("unexpected result: %d", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}

	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(sleeps) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep %d: expected %v, got %v", i, want[i], sleeps[i])
		}
	}
}

func TestRetryExhaustionReturnsLastErrorUnchanged(t *testing.T) {
	var sleeps []time.Duration

	errs := []error{
		errors.New("first"),
		errors.New("second"),
		errors.New("third"),
	}

	calls := 0
	_, err := Retry(retryTestConfig(2, &sleeps), func() (string, error) {
		err := errs[calls]
		calls++

		return "", err
	})

	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if err != errs[2] {
		t.Fatalf("expected the exact last error, got %v", err)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %v", sleeps)
	}
}

func TestRetryFailurePassesThroughUntouched(t *testing.T) {
	var sleeps []time.Duration

	failure := NewFailure(KindPlanning, "no plan")

	_, err := Retry(retryTestConfig(1, &sleeps), func() (string, error) {
		return "", failure
	})

	f, ok := AsFailure(err)
	if !ok {
		t.Fatalf("expected a Failure, got %v", err)
	}
	if f != failure {
		t.Fatal("retry must not wrap or replace the failure")
	}
}

func TestBackoffDelayGrowth(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}

	for _, tt := range tests {
		if got := backoffDelay(time.Second, 2.0, tt.attempt); got != tt.want {
			t.Errorf("attempt %d: expected %v, got %v", tt.attempt, tt.want, got)
		}
	}
}
