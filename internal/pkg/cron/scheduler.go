package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job struct {
	Name    string
	Spec    string
	Fn      func(ctx context.Context) error
	entryID cron.EntryID
}

// JobStatus is the last observed run of a job, exposed on the admin
// status surface.
type JobStatus struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
}

// Scheduler manages jobs that fire at fixed local wall-clock times.
// Specs use standard five-field cron syntax evaluated in the
// scheduler's location, so "59 23 * * *" means 23:59 in that zone
// regardless of where the process runs.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	jobs    []*Job
	lastRun map[string]JobStatus
}

// NewScheduler creates a scheduler bound to loc. A job that is still
// running when its next tick arrives is skipped, not stacked.
func NewScheduler(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		loc:     loc,
		ctx:     ctx,
		cancel:  cancel,
		lastRun: make(map[string]JobStatus),
	}
}

// AddJob registers a job under a cron spec. Returns the parse error
// for an invalid spec.
func (s *Scheduler) AddJob(name string, spec string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &Job{Name: name, Spec: spec, Fn: fn}
	entryID, err := s.cron.AddFunc(spec, func() {
		s.executeJob(job)
	})
	if err != nil {
		return err
	}
	job.entryID = entryID
	s.jobs = append(s.jobs, job)
	s.lastRun[name] = JobStatus{Name: name, Spec: spec}

	slog.Info("Cron job registered", "name", name, "spec", spec, "location", s.loc.String())
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()

	s.mu.Lock()
	jobCount := len(s.jobs)
	s.mu.Unlock()

	slog.Info("Cron scheduler started", "job_count", jobCount, "location", s.loc.String())
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("Cron scheduler stopped")
}

// executeJob executes a job and records the outcome
func (s *Scheduler) executeJob(job *Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	err := job.Fn(s.ctx)

	status := JobStatus{Name: job.Name, Spec: job.Spec, LastRunAt: &start}
	if err != nil {
		status.LastError = err.Error()
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}

	s.mu.Lock()
	s.lastRun[job.Name] = status
	s.mu.Unlock()
}

// Snapshot returns the current status of every registered job, in
// registration order.
func (s *Scheduler) Snapshot() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		status := s.lastRun[job.Name]
		entry := s.cron.Entry(job.entryID)
		if !entry.Next.IsZero() {
			next := entry.Next
			status.NextRunAt = &next
		}
		out = append(out, status)
	}
	return out
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.Unlock()

	for _, job := range jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
