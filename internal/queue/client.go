package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/zhengziyan-learner/English-to-audio-conversion/internal/config"
)

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueSpeechDocument schedules a whole-document audio regeneration.
// The task id pins one outstanding regeneration per document, and the
// runner itself never retries failed jobs.
func (c *Client) EnqueueSpeechDocument(payload SpeechDocumentPayload) error {
	return c.enqueue(TypeSpeechDocument, payload,
		asynq.TaskID("speech:"+payload.DocumentID),
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Minute))
}

func (c *Client) enqueue(taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(taskType, data)
	_, err = c.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}
