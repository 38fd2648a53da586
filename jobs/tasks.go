// Package jobs contains background task definitions and the Asynq worker
// runtime.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRatesWarmup is the task type for pre-fetching exchange rates.
	TaskRatesWarmup = "rates:warmup"
)

// RatesWarmupPayload lists the currency pairs to pre-fetch.
type RatesWarmupPayload struct {
	Pairs [][2]string `json:"pairs"`
}

// NewRatesWarmupTask constructs an Asynq task.
func NewRatesWarmupTask(payload RatesWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRatesWarmup, data), nil
}
