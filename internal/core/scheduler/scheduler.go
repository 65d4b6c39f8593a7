package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultSpec runs a job every two minutes
const DefaultSpec = "*/2 * * * *"

// ErrNotFound is returned when removing an unknown schedule
var ErrNotFound = errors.New("schedule not found")

// Entry describes one registered schedule
type Entry struct {
	ID        string    `json:"scheduleId"`
	Cron      string    `json:"cron"`
	Job       string    `json:"job"`
	CreatedAt time.Time `json:"createdAt"`
	NextRun   time.Time `json:"nextRun"`
	PrevRun   time.Time `json:"prevRun"`
}

type registration struct {
	entryID   cron.EntryID
	spec      string
	job       string
	createdAt time.Time
	seq       uint64
}

// Scheduler handles cron-based job triggers.
// Expressions use the standard 5-field format and are evaluated in UTC.
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]registration // schedule_id -> registration
	jobsMux sync.RWMutex
	seq     uint64
}

// NewScheduler creates a new scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		jobs: make(map[string]registration),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	log.Info().Msg("⏰ Starting automation scheduler...")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("⏰ Stopping automation scheduler...")
	<-s.cron.Stop().Done()
	log.Info().Msg("✅ Automation scheduler stopped")
}

// Validate reports whether spec is a valid 5-field cron expression
func Validate(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// Add registers job under id, replacing any schedule with the same id.
// An empty spec uses DefaultSpec.
func (s *Scheduler) Add(id, spec, jobName string, job func()) (Entry, error) {
	if spec == "" {
		spec = DefaultSpec
	}
	if err := Validate(spec); err != nil {
		return Entry{}, err
	}

	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	if existing, ok := s.jobs[id]; ok {
		s.cron.Remove(existing.entryID)
		delete(s.jobs, id)
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to add cron job: %w", err)
	}

	s.seq++
	reg := registration{entryID: entryID, spec: spec, job: jobName, createdAt: time.Now().UTC(), seq: s.seq}
	s.jobs[id] = reg
	log.Info().Str("schedule_id", id).Str("cron", spec).Str("job", jobName).Msg("✅ Schedule registered")

	return s.entry(id, reg), nil
}

// Remove unregisters a schedule
func (s *Scheduler) Remove(id string) error {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	reg, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	s.cron.Remove(reg.entryID)
	delete(s.jobs, id)
	log.Info().Str("schedule_id", id).Msg("✅ Schedule removed")
	return nil
}

// List returns all schedules ordered by creation time
func (s *Scheduler) List() []Entry {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return s.jobs[ids[i]].seq < s.jobs[ids[j]].seq })

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, s.entry(id, s.jobs[id]))
	}
	return entries
}

func (s *Scheduler) entry(id string, reg registration) Entry {
	e := s.cron.Entry(reg.entryID)
	return Entry{
		ID:        id,
		Cron:      reg.spec,
		Job:       reg.job,
		CreatedAt: reg.createdAt,
		NextRun:   e.Next,
		PrevRun:   e.Prev,
	}
}
