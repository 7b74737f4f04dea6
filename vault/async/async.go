package async

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/nottyhq/notty/lib/logging"
	"github.com/nottyhq/notty/vault"
)

// Task is the interface for a task.
type Task interface {
	// Name is the name of the task.
	Name() vault.TkName

	// Created returns the task creation time.
	Created() time.Time

	// Subject is the subject of the task, generally an object ID.
	Subject() string

	// Execute idempotently runs the task to completion or errors.
	Execute(ctx context.Context) error

	// MaxRetries caps the total number of retries.
	MaxRetries() uint

	// DeadlineForRetry returns the deadline for the provided retry count.
	DeadlineForRetry(retry uint) time.Time
}

// Deadline represents an execution deadline for a task.
type Deadline struct {
	Task  Task
	Retry uint
}

// Deadline returns the current deadline for the task.
func (d Deadline) Deadline() time.Time {
	return d.Task.DeadlineForRetry(d.Retry)
}

// Async represents the state of an async queue. Tasks are fire-and-forget:
// they retry with a backoff deadline until exhaustion and are not persisted
// across restarts.
type Async struct {
	ctx       context.Context
	pending   []Deadline
	scheduled chan Deadline

	mutex *sync.Mutex
}

// NewAsync constructs a new async state. The provided context must outlive
// the async queue and carry the environment and DB tasks rely on.
func NewAsync(
	ctx context.Context,
) *Async {
	return &Async{
		ctx:       ctx,
		pending:   nil,
		scheduled: make(chan Deadline, 1),
		mutex:     &sync.Mutex{},
	}
}

// schedule moves due deadlines to the scheduled channel in a non blocking
// way. Can be called as often as needed.
// a.mutex must be held.
func (a *Async) schedule() {
	for len(a.pending) > 0 {
		d := a.pending[len(a.pending)-1]
		if d.Deadline().After(time.Now()) {
			return
		}
		select {
		case a.scheduled <- d:
			a.pending = a.pending[:len(a.pending)-1]
		default:
			return
		}
	}
}

// AppendAndSchedule appends a deadline to the list of pending deadlines and
// calls schedule.
func (a *Async) AppendAndSchedule(
	d Deadline,
) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	a.pending = append(a.pending, d)
	a.schedule()
}

// Queue queues a new task for execution.
func (a *Async) Queue(
	t Task,
) error {
	a.AppendAndSchedule(Deadline{
		Task:  t,
		Retry: 0,
	})
	return nil
}

// RunOne runs the specified deadline and re-adds it to the list of pending
// deadlines if it fails and has retries left.
func (a *Async) RunOne(
	d Deadline,
) {
	err := d.Task.Execute(a.ctx)
	if err != nil {
		logging.Logf(a.ctx, "Error executing task: "+
			"name=%s subject=%s retry=%d error=%q",
			d.Task.Name(), d.Task.Subject(), d.Retry, err.Error())

		d.Retry++
		if d.Retry <= d.Task.MaxRetries() {
			a.AppendAndSchedule(d)
		} else {
			logging.Logf(a.ctx, "Abandoning task: "+
				"name=%s subject=%s retry=%d",
				d.Task.Name(), d.Task.Subject(), d.Retry)
		}
	} else {
		logging.Logf(a.ctx, "Successfully executed task: "+
			"name=%s subject=%s retry=%d",
			d.Task.Name(), d.Task.Subject(), d.Retry)
	}
}

// Run should be called from a go routine to execute tasks as a worker.
// Multiple workers can be run concurrently.
func (a *Async) Run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case d := <-a.scheduled:
			a.RunOne(d)
		case <-ticker.C:
			a.mutex.Lock()
			a.schedule()
			a.mutex.Unlock()
		case <-a.ctx.Done():
			return
		}
	}
}

// ContextKey is the type of the key used with context to carry contextual
// async state.
type ContextKey string

const (
	// asyncKey the context.Context key to store the async state.
	asyncKey ContextKey = "async.async"
)

// With stores the async state in the provided context.
func With(
	ctx context.Context,
	async *Async,
) context.Context {
	return context.WithValue(ctx, asyncKey, async)
}

// Get returns the async state currently stored in the context.
func Get(
	ctx context.Context,
) *Async {
	return ctx.Value(asyncKey).(*Async)
}

type middleware struct {
	http.Handler
	Async *Async
}

// ServeHTTP handles incoming HTTP requests and injects the async state in
// their context.
func (m middleware) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ctx := r.Context()
	withAsync := With(ctx, m.Async)
	m.Handler.ServeHTTP(w, r.WithContext(withAsync))
}

// Middleware returns a middleware that injects the specified async state in
// requests.
func Middleware(
	async *Async,
) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return middleware{h, async}
	}
}

// Queue queues a task for execution by the async queue.
func Queue(
	ctx context.Context,
	t Task,
) error {
	async := Get(ctx)
	return async.Queue(t)
}

// TestRunOne runs one task off of the list of pending tasks, ignoring its
// deadline. In tests we don't have any worker so we use this to run tasks
// synchronously as needed.
func TestRunOne(
	ctx context.Context,
) {
	a := Get(ctx)

	// Due deadlines may already sit in the scheduled channel.
	select {
	case d := <-a.scheduled:
		a.RunOne(d)
		return
	default:
	}

	a.mutex.Lock()
	if len(a.pending) == 0 {
		a.mutex.Unlock()
		return
	}
	d := a.pending[len(a.pending)-1]
	a.pending = a.pending[:len(a.pending)-1]
	a.mutex.Unlock()

	a.RunOne(d)
}
