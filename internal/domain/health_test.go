package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportWithDown(total, down int) HealthReport {
	r := HealthReport{}
	for i := 0; i < total; i++ {
		status := StatusOperational
		if i < down {
			status = StatusDown
		}
		r[fmt.Sprintf("source-%02d", i)] = SourceHealth{Status: status}
	}
	return r
}

func TestHealthReport_OverallStatus(t *testing.T) {
	tests := []struct {
		down int
		want string
	}{
		{0, OverallOperational},
		{1, OverallPartial},
		{3, OverallPartial},
		{4, OverallDegraded},
		{10, OverallDegraded},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d down", tt.down), func(t *testing.T) {
			assert.Equal(t, tt.want, reportWithDown(20, tt.down).OverallStatus())
		})
	}
}

func TestHealthReport_Summary(t *testing.T) {
	r := HealthReport{
		"a": {Status: StatusOperational},
		"b": {Status: StatusDegraded},
		"c": {Status: StatusDown},
		"d": {Status: StatusOperational},
	}
	assert.Equal(t, HealthSummary{Total: 4, Operational: 2, Degraded: 1, Down: 1}, r.Summary())
	assert.Equal(t, []string{"a", "b", "c", "d"}, r.Names())
}

func TestHealthReport_DegradedDoesNotCountAsDown(t *testing.T) {
	r := HealthReport{"a": {Status: StatusDegraded}, "b": {Status: StatusDegraded}}
	assert.Equal(t, OverallOperational, r.OverallStatus())
}

func TestFeedErrors(t *testing.T) {
	errA := errors.New("feed a")
	errB := errors.New("feed b")

	assert.NoError(t, FeedErrors(3, nil))

	err := FeedErrors(3, []error{errA})
	var partial *PartialFetchError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Failed)
	assert.Equal(t, 3, partial.Total)
	assert.ErrorIs(t, err, errA)

	err = FeedErrors(2, []error{errA, errB})
	require.Error(t, err)
	assert.False(t, errors.As(err, &partial))
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "all 2 feeds failed")
}
