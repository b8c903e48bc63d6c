package scanner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/store"
)

var ErrJobNotFound = errors.New("scanner: job not found")

type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventResult JobEventType = "result"
)

type JobEvent struct {
	JobID  string       `json:"job_id"`
	Type   JobEventType `json:"type"`
	Status JobStatus    `json:"status,omitempty"`
	Error  string       `json:"error,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

// Job tracks one scan from submission to completion.
type Job struct {
	ID        string        `json:"id"`
	Input     string        `json:"input"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	Result *model.ScanResult `json:"result,omitempty"`
}

// Manager runs scans as background jobs, streams their lifecycle events and
// persists finished results.
type Manager struct {
	scanner *Scanner
	store   store.Store
	logger  logging.Logger

	mu      sync.Mutex
	jobs    map[string]*Job
	cancels map[string]context.CancelFunc
}

func NewManager(s *Scanner, st store.Store, logger logging.Logger) *Manager {
	return &Manager{
		scanner: s,
		store:   st,
		logger:  logging.OrNop(logger).With(logging.Field{Key: "component", Value: "jobs"}),
		jobs:    make(map[string]*Job),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start launches a scan in the background and returns its job immediately.
// The ctx governs the whole job; Cancel aborts just this job.
func (m *Manager) Start(ctx context.Context, input string) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		Input:     input,
		Status:    JobPending,
		StartedAt: time.Now().UTC(),
		Events:    make(chan JobEvent, 16),
	}

	jobCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.cancels[job.ID] = cancel
	m.mu.Unlock()

	m.emit(job.ID, JobEvent{JobID: job.ID, Type: JobEventStatus, Status: JobPending})

	go m.run(jobCtx, job.ID, input)

	return job
}

func (m *Manager) run(ctx context.Context, jobID, input string) {
	defer func() {
		m.mu.Lock()
		job := m.jobs[jobID]
		if job != nil {
			job.EndedAt = time.Now().UTC()
		}
		delete(m.cancels, jobID)
		m.mu.Unlock()

		// Closing the channel lets websocket readers terminate cleanly.
		if job != nil && job.Events != nil {
			close(job.Events)
		}
	}()

	m.setStatus(jobID, JobRunning, "")
	m.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

	result, err := m.scanner.Scan(ctx, input)
	if err != nil {
		status := JobFailed
		if ctx.Err() != nil {
			status = JobCanceled
			err = ctx.Err()
		}
		m.setStatus(jobID, status, err.Error())
		m.emit(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: status, Error: err.Error()})
		m.logger.Warn("scan job ended without result",
			logging.Field{Key: "job_id", Value: jobID},
			logging.Field{Key: "status", Value: string(status)},
			logging.Field{Key: "error", Value: err.Error()})
		return
	}

	m.mu.Lock()
	if job := m.jobs[jobID]; job != nil {
		job.Status = JobDone
		job.Result = &result
	}
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Put(context.Background(), jobID, result); err != nil {
			m.logger.Error("storing scan result",
				logging.Field{Key: "job_id", Value: jobID},
				logging.Field{Key: "error", Value: err.Error()})
		}
	}

	m.emit(jobID, JobEvent{JobID: jobID, Type: JobEventResult, Status: JobDone})
}

func (m *Manager) setStatus(jobID string, status JobStatus, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job := m.jobs[jobID]; job != nil {
		job.Status = status
		job.Error = errMsg
	}
}

// emit sends without blocking; a slow or absent consumer drops events rather
// than stalling the job.
func (m *Manager) emit(jobID string, ev JobEvent) {
	m.mu.Lock()
	job := m.jobs[jobID]
	m.mu.Unlock()
	if job == nil || job.Events == nil {
		return
	}
	select {
	case job.Events <- ev:
	default:
	}
}

// Get returns a snapshot of a job.
func (m *Manager) Get(jobID string) (Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// Events returns the live event channel for a job.
func (m *Manager) Events(jobID string) (<-chan JobEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.Events, nil
}

// Cancel aborts a running job. Finished jobs are left untouched.
func (m *Manager) Cancel(jobID string) error {
	m.mu.Lock()
	cancel, ok := m.cancels[jobID]
	m.mu.Unlock()
	if !ok {
		return ErrJobNotFound
	}
	cancel()
	return nil
}

// List returns snapshots of all known jobs, newest first.
func (m *Manager) List() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		out = append(out, *job)
	}
	// Insertion order is not tracked; sort by start time.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].StartedAt.After(out[j-1].StartedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
