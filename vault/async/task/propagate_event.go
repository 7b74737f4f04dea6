package task

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nottyhq/notty/lib/db"
	"github.com/nottyhq/notty/lib/errors"
	"github.com/nottyhq/notty/vault"
	"github.com/nottyhq/notty/vault/async"
	"github.com/nottyhq/notty/vault/model"
)

const (
	// TkPropagateEvent propagates an event to the configured observer.
	TkPropagateEvent vault.TkName = "PropagateEvent"
)

// PropagateEvent is in charge of propagating an emitted event to the
// observer URL configured for the environment. Propagation is a no-op when
// no observer is configured.
type PropagateEvent struct {
	created time.Time
	token   string
}

// NewPropagateEvent constructs and initializes the task.
func NewPropagateEvent(
	ctx context.Context,
	subject string,
) async.Task {
	return &PropagateEvent{
		created: time.Now().UTC(),
		token:   subject,
	}
}

// Name returns the task name.
func (t *PropagateEvent) Name() vault.TkName {
	return TkPropagateEvent
}

// Created returns the task creation time.
func (t *PropagateEvent) Created() time.Time {
	return t.created
}

// Subject returns the task subject.
func (t *PropagateEvent) Subject() string {
	return t.token
}

// MaxRetries returns the max retries for the task.
func (t *PropagateEvent) MaxRetries() uint {
	return 8
}

// DeadlineForRetry returns the deadline for the provided retry count.
func (t *PropagateEvent) DeadlineForRetry(
	retry uint,
) time.Time {
	return t.Created().Add((1<<retry - 1) * time.Second)
}

// Execute idempotently runs the task to completion or errors.
func (t *PropagateEvent) Execute(
	ctx context.Context,
) error {
	observer := vault.GetObserverURL(ctx)
	if observer == "" {
		return nil
	}

	ctx = db.Begin(ctx)
	defer db.LoggedRollback(ctx)

	event, err := model.LoadEventByToken(ctx, t.token)
	if err != nil {
		return errors.Trace(err)
	} else if event == nil {
		return errors.Trace(errors.Newf("Event not found: %s", t.token))
	}

	db.Commit(ctx)

	body, err := json.Marshal(model.NewEventResource(ctx, event))
	if err != nil {
		return errors.Trace(err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		observer+"/events", bytes.NewReader(body))
	if err != nil {
		return errors.Trace(err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Trace(err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return errors.Trace(errors.Newf(
			"Observer returned unexpected status: %d", res.StatusCode))
	}

	return nil
}
