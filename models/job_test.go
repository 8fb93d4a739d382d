package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotJob_ParsePayload(t *testing.T) {
	job := &BotJob{ID: 1, Payload: `{"tone": "friendly", "prefer_reply": false, "fallback": "감사합니다!"}`}
	p, err := job.ParsePayload()
	require.NoError(t, err)
	assert.Equal(t, "friendly", p.Tone)
	assert.Equal(t, "감사합니다!", p.Fallback)
	require.NotNil(t, p.PreferReply)
	assert.False(t, *p.PreferReply)

	empty := &BotJob{ID: 2}
	p, err = empty.ParsePayload()
	assert.NoError(t, err)
	assert.Equal(t, JobPayload{}, p)

	malformed := &BotJob{ID: 3, Payload: `{"tone":`}
	_, err = malformed.ParsePayload()
	assert.Error(t, err)
}

func TestDefaultJobsForBot(t *testing.T) {
	jobs := DefaultJobsForBot(7)
	require.Len(t, jobs, 2)

	kinds := map[JobType]bool{}
	for _, job := range jobs {
		kinds[job.JobType] = true
		assert.Equal(t, uint(7), job.BotID)
		assert.Equal(t, JobStatusActive, job.Status)
		assert.Equal(t, DefaultJobIntervalSeconds, job.IntervalSeconds)
		assert.Equal(t, 3, job.MaxRetries)

		p, err := job.ParsePayload()
		require.NoError(t, err)
		assert.NotEmpty(t, p.Tone)
	}
	assert.True(t, kinds[JobTypeCreatePost])
	assert.True(t, kinds[JobTypeCreateComment])
}
