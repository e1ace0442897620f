package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

var ErrTaskNotFound = errors.New("task not found")

// Task is a unit of background maintenance run on a cron schedule.
type Task interface {
	Name() string
	// Schedule is a cron expression or descriptor such as "@every 12h".
	// An empty schedule registers the task for on-demand runs only.
	Schedule() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	tasks  []Task
	ctx    context.Context
	cancel context.CancelFunc
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds the task and schedules it when it carries a schedule.
func (s *Scheduler) Register(task Task) error {
	if schedule := task.Schedule(); schedule != "" {
		if _, err := s.cron.AddFunc(schedule, func() { s.execute(s.ctx, task) }); err != nil {
			return fmt.Errorf("failed to schedule %s: %w", task.Name(), err)
		}
		log.Printf("📅 [%s] Scheduled with cron: %s", task.Name(), schedule)
	} else {
		log.Printf("📝 [%s] Registered as on-demand task", task.Name())
	}

	s.tasks = append(s.tasks, task)
	return nil
}

func (s *Scheduler) execute(ctx context.Context, task Task) {
	if err := task.Run(ctx); err != nil {
		log.Printf("❌ [%s] Task failed: %v", task.Name(), err)
		return
	}
	log.Printf("✅ [%s] Task completed", task.Name())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("🚀 Scheduler started with %d tasks", len(s.tasks))
}

// Stop halts scheduling, cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Println("🛑 Scheduler stopped")
}

// RunByName runs a registered task immediately.
func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, task := range s.tasks {
		if task.Name() == name {
			return task.Run(ctx)
		}
	}
	return fmt.Errorf("%w: %s", ErrTaskNotFound, name)
}

func (s *Scheduler) Names() []string {
	names := make([]string, len(s.tasks))
	for i, task := range s.tasks {
		names[i] = task.Name()
	}
	return names
}
