package scheduler

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Schedule decides when a job fires.
type Schedule struct {
	kind     scheduleKind
	hour     int
	minute   int
	interval time.Duration
}

type scheduleKind int

const (
	kindDaily scheduleKind = iota
	kindInterval
)

// DailyAt fires once a day at HH:MM UTC.
func DailyAt(hour, minute int) Schedule {
	return Schedule{kind: kindDaily, hour: hour, minute: minute}
}

// Every fires on a fixed interval.
func Every(d time.Duration) Schedule {
	return Schedule{kind: kindInterval, interval: d}
}

func (s Schedule) nextRun(now time.Time) time.Time {
	switch s.kind {
	case kindDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		return next
	case kindInterval:
		return now.Add(s.interval)
	default:
		return now.Add(24 * time.Hour)
	}
}

// Job is one recurring task. Handler errors are logged and the job is
// rescheduled; one bad run never stops the schedule.
type Job struct {
	Name     string
	Schedule Schedule
	Handler  func(now time.Time) error

	mu      sync.Mutex
	nextRun time.Time
	lastRun time.Time
	lastErr error
	runs    int
}

// JobStatus is a snapshot of a job's state for the admin dashboard.
type JobStatus struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run"`
	LastRun time.Time `json:"last_run"`
	LastErr string    `json:"last_error,omitempty"`
	Runs    int       `json:"runs"`
}

func (j *Job) status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	st := JobStatus{
		Name:    j.Name,
		NextRun: j.nextRun,
		LastRun: j.lastRun,
		Runs:    j.runs,
	}
	if j.lastErr != nil {
		st.LastErr = j.lastErr.Error()
	}
	return st
}

// Scheduler runs registered jobs on their schedules from a single
// background goroutine.
type Scheduler struct {
	log      *zap.Logger
	tickRate time.Duration

	mu       sync.RWMutex
	jobs     []*Job
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func New(log *zap.Logger) *Scheduler {
	return &Scheduler{
		log:      log,
		tickRate: 30 * time.Second,
		stopChan: make(chan struct{}),
	}
}

// Register adds a job. Call before Start.
func (s *Scheduler) Register(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job.nextRun = job.Schedule.nextRun(time.Now().UTC())
	s.jobs = append(s.jobs, job)

	s.log.Info("scheduler: job registered",
		zap.String("job", job.Name),
		zap.Time("first_run", job.nextRun))
}

// Start launches the scheduler loop in a background goroutine.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	s.log.Info("scheduler: started", zap.Int("jobs", len(s.jobs)))
}

// Stop halts the loop and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.log.Info("scheduler: stopped")
}

// Jobs reports the status of every registered job.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	statuses := make([]JobStatus, len(jobs))
	for i, j := range jobs {
		statuses[i] = j.status()
	}
	return statuses
}

// RunNow triggers a job by name immediately, synchronously. Used by the
// admin endpoints to force a sweep without waiting for the schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	var target *Job
	for _, j := range s.jobs {
		if j.Name == name {
			target = j
			break
		}
	}
	s.mu.RUnlock()

	if target == nil {
		return fmt.Errorf("scheduler: no job named %q", name)
	}
	s.run(target)

	target.mu.Lock()
	defer target.mu.Unlock()
	return target.lastErr
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) tick() {
	now := time.Now().UTC()

	s.mu.RLock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	for _, job := range jobs {
		job.mu.Lock()
		due := !now.Before(job.nextRun)
		job.mu.Unlock()

		if due {
			s.wg.Add(1)
			go func(j *Job) {
				defer s.wg.Done()
				s.run(j)
			}(job)
		}
	}
}

func (s *Scheduler) run(job *Job) {
	start := time.Now().UTC()
	err := job.Handler(start)
	elapsed := time.Since(start)

	job.mu.Lock()
	job.lastRun = start
	job.lastErr = err
	job.runs++
	job.nextRun = job.Schedule.nextRun(time.Now().UTC())
	job.mu.Unlock()

	if err != nil {
		s.log.Error("scheduler: job failed",
			zap.String("job", job.Name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	s.log.Info("scheduler: job done",
		zap.String("job", job.Name),
		zap.Duration("elapsed", elapsed))
}
