package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/taihub/taihub/internal/dictionary"
	jobmetrics "github.com/taihub/taihub/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// MediaStore persists generated media bytes and returns a public URL.
type MediaStore interface {
	Store(ctx context.Context, name string, data []byte) (string, error)
}

// FileMediaStore writes media under a local directory served at a URL
// prefix by the web process.
type FileMediaStore struct {
	Dir       string
	URLPrefix string
}

// Store writes the file and returns its public path.
func (s *FileMediaStore) Store(ctx context.Context, name string, data []byte) (string, error) {
	if s.Dir == "" {
		return "", errors.New("media store: directory not configured")
	}
	path := filepath.Join(s.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.URLPrefix + "/" + filepath.ToSlash(name), nil
}

// Generator is the slice of the AI client the media jobs need.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// WordMediaJob generates and attaches media for dictionary words.
type WordMediaJob struct {
	Dictionary *dictionary.Service
	Generator  Generator
	Store      MediaStore
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
}

// HandleImage processes TaskWordImage tasks.
func (j *WordMediaJob) HandleImage(ctx context.Context, t *asynq.Task) error {
	return j.handle(ctx, t, TaskWordImage)
}

// HandleAudio processes TaskWordAudio tasks.
func (j *WordMediaJob) HandleAudio(ctx context.Context, t *asynq.Task) error {
	return j.handle(ctx, t, TaskWordAudio)
}

func (j *WordMediaJob) handle(ctx context.Context, t *asynq.Task, taskType string) error {
	if j == nil || j.Dictionary == nil || j.Generator == nil || j.Store == nil {
		return errors.New("word media: handler not configured")
	}
	var payload WordMediaPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WordID == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(taskType)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("word", payload.WordID))

	word, err := j.Dictionary.Get(ctx, payload.WordID)
	if err != nil {
		if errors.Is(err, dictionary.ErrNotFound) {
			logger.Warn("word vanished before media generation")
			return asynq.SkipRetry
		}
		resultErr = err
		return resultErr
	}

	genCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var imageURL, audioURL string
	switch taskType {
	case TaskWordImage:
		prompt := fmt.Sprintf("A simple, culturally respectful illustration of %q (Tai Khamyang: %s)", word.English, word.TaiKhamyang)
		data, err := j.Generator.GenerateImage(genCtx, prompt)
		if err != nil {
			resultErr = err
			logger.Error("generate image", slog.Any("error", err))
			return resultErr
		}
		imageURL, err = j.Store.Store(ctx, "words/"+word.ID+".png", data)
		if err != nil {
			resultErr = err
			return resultErr
		}
	case TaskWordAudio:
		text := word.TaiKhamyang
		if word.Pronunciation != "" {
			text = word.Pronunciation
		}
		data, err := j.Generator.SynthesizeSpeech(genCtx, text)
		if err != nil {
			resultErr = err
			logger.Error("synthesize speech", slog.Any("error", err))
			return resultErr
		}
		audioURL, err = j.Store.Store(ctx, "words/"+word.ID+".wav", data)
		if err != nil {
			resultErr = err
			return resultErr
		}
	default:
		return asynq.SkipRetry
	}

	if err := j.Dictionary.AttachMedia(ctx, word.ID, imageURL, audioURL); err != nil {
		resultErr = err
		return resultErr
	}
	logger.Info("attached generated media", slog.String("task", taskType))
	return resultErr
}

func (j *WordMediaJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *WordMediaJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
