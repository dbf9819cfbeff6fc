package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"etlcheck/internal/schema"

	"go.uber.org/zap"
)

type JobState string

const (
	JobPending   JobState = "pending"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
)

const (
	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 2 * time.Minute
)

type JobStatus struct {
	Status  JobState        `json:"status"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Agent runs schema extraction jobs next to the database.
type Agent interface {
	SubmitSchemaJob(ctx context.Context, connectionID string) (string, error)
	JobStatus(ctx context.Context, jobID string) (*JobStatus, error)
}

// JobFetcher submits a schema job and polls it to completion.
type JobFetcher struct {
	Agent        Agent
	PollInterval time.Duration
	Timeout      time.Duration
	Log          *zap.Logger
}

func (f *JobFetcher) Fetch(ctx context.Context, connectionID string) (*schema.Database, error) {
	interval, timeout := f.PollInterval, f.Timeout
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	jobID, err := f.Agent.SubmitSchemaJob(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit schema job: %w", err)
	}
	log.Debug("schema job submitted", zap.String("connection", connectionID), zap.String("job", jobID))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := f.Agent.JobStatus(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("failed to poll schema job %s: %w", jobID, err)
		}
		switch st.Status {
		case JobSucceeded:
			return DecodePayload(st.Payload)
		case JobFailed:
			msg := st.Error
			if msg == "" {
				msg = "no reason given"
			}
			return nil, fmt.Errorf("schema job %s failed: %s", jobID, msg)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("schema job %s: %w", jobID, ctx.Err())
		case <-ticker.C:
		}
	}
}

type payloadColumn struct {
	Name       string `json:"name"`
	DataType   string `json:"dataType"`
	IsNullable bool   `json:"isNullable"`
	MaxLength  *int   `json:"maxLength"`
}

type payloadTable struct {
	Schema     string          `json:"schema"`
	TableName  string          `json:"tableName"`
	Columns    []payloadColumn `json:"columns"`
	PrimaryKey []string        `json:"primaryKey"`
}

type payload struct {
	Tables *[]payloadTable `json:"tables"`
}

// DecodePayload converts an agent's JSON schema payload. A payload without
// a "tables" array is ErrNoTables.
func DecodePayload(raw []byte) (*schema.Database, error) {
	if len(raw) == 0 {
		return nil, ErrNoTables
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrNoTables, err)
		}
		return nil, fmt.Errorf("failed to decode schema payload: %w", err)
	}
	if p.Tables == nil {
		return nil, ErrNoTables
	}

	db := &schema.Database{Tables: make([]*schema.Table, 0, len(*p.Tables))}
	for _, pt := range *p.Tables {
		if pt.TableName == "" {
			continue
		}
		t := schema.NewTable(pt.Schema, pt.TableName)
		for _, pc := range pt.Columns {
			c := &schema.Column{Name: pc.Name, DataType: pc.DataType, IsNullable: pc.IsNullable}
			if pc.MaxLength != nil && *pc.MaxLength > 0 {
				n := *pc.MaxLength
				c.MaxLength = &n
			}
			t.Columns = append(t.Columns, c)
		}
		if len(pt.PrimaryKey) > 0 {
			t.PrimaryKey = append([]string(nil), pt.PrimaryKey...)
		}
		db.Tables = append(db.Tables, t)
	}
	return db, nil
}
