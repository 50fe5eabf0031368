package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWordImage generates an illustration for a dictionary word.
	TaskWordImage = "word:image"
	// TaskWordAudio synthesizes a pronunciation recording for a word.
	TaskWordAudio = "word:audio"
	// TaskStatsWarmup pre-populates the public counters cache.
	TaskStatsWarmup = "stats:warmup"
)

// WordMediaPayload identifies the word a media task operates on.
type WordMediaPayload struct {
	WordID string `json:"wordId"`
}

// NewWordImageTask constructs an illustration task.
func NewWordImageTask(payload WordMediaPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWordImage, data), nil
}

// NewWordAudioTask constructs a speech synthesis task.
func NewWordAudioTask(payload WordMediaPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWordAudio, data), nil
}

// NewStatsWarmupTask constructs a counters warmup task.
func NewStatsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskStatsWarmup, nil)
}
