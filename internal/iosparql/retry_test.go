package iosparql

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryAfter(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(90 * time.Second).Format(http.TimeFormat)
	earlier := now.Add(-time.Minute).Format(http.TimeFormat)

	tests := []struct {
		msg, header string
		delay       time.Duration
		ok          bool
	}{
		{"empty", "", 0, false},
		{"seconds", "120", 2 * time.Minute, true},
		{"zero seconds", "0", 0, true},
		{"padded", " 5 ", 5 * time.Second, true},
		{"negative", "-3", 0, false},
		{"http date", later, 90 * time.Second, true},
		{"date in the past", earlier, 0, true},
		{"garbage", "tomorrow", 0, false},
	}

	for _, v := range tests {
		d, ok := retryAfter(v.header, now)
		assert.Equal(t, v.ok, ok, v.msg)
		assert.Equal(t, v.delay, d, v.msg)
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(http.StatusTooManyRequests))
	assert.True(t, isRetryable(http.StatusServiceUnavailable))
	assert.False(t, isRetryable(http.StatusInternalServerError))
	assert.False(t, isRetryable(http.StatusGatewayTimeout))
	assert.False(t, isRetryable(http.StatusOK))
}
