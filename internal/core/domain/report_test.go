package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunReport_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := RunReport{StartedAt: start}
	assert.Zero(t, r.Duration())

	r.FinishedAt = start.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, r.Duration())
}

func TestRunReport_Degraded(t *testing.T) {
	assert.False(t, (&RunReport{Members: 10}).Degraded())
	assert.True(t, (&RunReport{ArchivesFailed: 1}).Degraded())
	assert.True(t, (&RunReport{MembersFailed: 1}).Degraded())
}

func TestRunReport_DocumentsParsed(t *testing.T) {
	r := RunReport{Members: 10, MembersFailed: 3}
	assert.Equal(t, 7, r.DocumentsParsed())
}
