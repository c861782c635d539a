package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/basel-ax/ailogo/internal/domain"
)

// persistTimeout bounds a single image record write.
const persistTimeout = 30 * time.Second

// Outcome is how one attempt resolved.
type Outcome struct {
	AttemptID uint64
	// Status is the attempt's own result, success or error, even when Stale.
	Status domain.Status
	Image  *domain.GeneratedImageRef
	Err    error
	// Stale means the outcome was not applied: a newer attempt was submitted
	// before this one resolved, or the status could not legally take it.
	Stale bool
}

// Attempt is one in-flight (or finished) submission.
type Attempt struct {
	id  uint64
	req domain.GenerationRequest

	done    chan struct{}
	outcome Outcome

	persisted chan error
}

func newAttempt(id uint64, req domain.GenerationRequest) *Attempt {
	return &Attempt{
		id:        id,
		req:       req,
		done:      make(chan struct{}),
		persisted: make(chan error, 1),
	}
}

// ID returns the attempt id assigned at submit.
func (a *Attempt) ID() uint64 {
	return a.id
}

// Request returns the request as it was sent, after truncation.
func (a *Attempt) Request() domain.GenerationRequest {
	return a.req
}

// Done is closed once the attempt has resolved.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt resolves or ctx ends.
func (a *Attempt) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-a.done:
		return a.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Persisted delivers the result of writing the image record, then closes.
// For attempts that did not produce an applied success it closes without a value.
func (a *Attempt) Persisted() <-chan error {
	return a.persisted
}

// Dispatcher turns generation requests into endpoint calls and tracks the status
// of the latest attempt. Every submit gets a new attempt id; a response that
// arrives for anything but the latest attempt is discarded.
type Dispatcher struct {
	generator domain.ImageGenerator
	sink      domain.ImageRepository
	holder    *ResultHolder
	userID    string
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.Mutex
	status  domain.Status
	latest  uint64
	last    domain.GenerationRequest
	hasLast bool
}

// NewDispatcher wires a dispatcher. sink may be nil, in which case nothing is persisted.
func NewDispatcher(generator domain.ImageGenerator, sink domain.ImageRepository, holder *ResultHolder, userID string, logger *zap.Logger) *Dispatcher {
	if holder == nil {
		holder = NewResultHolder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		generator: generator,
		sink:      sink,
		holder:    holder,
		userID:    userID,
		logger:    logger.Named("dispatcher"),
		now:       time.Now,
		status:    domain.StatusIdle,
	}
}

// Submit starts a generation for req. An empty prompt is a no-op and returns nil.
// The status is pending by the time Submit returns.
func (d *Dispatcher) Submit(ctx context.Context, req domain.GenerationRequest) *Attempt {
	if req.IsEmpty() {
		return nil
	}
	req.Prompt = domain.TruncatePrompt(req.Prompt, domain.MaxPromptLength)

	d.mu.Lock()
	d.latest++
	a := newAttempt(d.latest, req)
	d.setStatusLocked(a.id, domain.StatusPending)
	d.last = req
	d.hasLast = true
	d.mu.Unlock()

	attemptsTotal.WithLabelValues("submitted").Inc()
	d.logger.Info("Generation submitted",
		zap.Uint64("attempt_id", a.id),
		zap.String("style", req.StyleTag),
		zap.Int("prompt_length", utf8.RuneCountInString(req.Prompt)),
	)

	go d.run(ctx, a)
	return a
}

// Retry re-submits the last request unchanged. It returns nil if nothing was submitted yet.
func (d *Dispatcher) Retry(ctx context.Context) *Attempt {
	d.mu.Lock()
	req, ok := d.last, d.hasLast
	d.mu.Unlock()
	if !ok {
		return nil
	}
	d.logger.Info("Retrying last generation request")
	return d.Submit(ctx, req)
}

// Status returns the status of the latest attempt.
func (d *Dispatcher) Status() domain.Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Latest returns the id of the latest attempt, zero before the first submit.
func (d *Dispatcher) Latest() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// View maps the current status to its chip.
func (d *Dispatcher) View() StatusView {
	return ViewForStatus(d.Status())
}

// Design returns the result view for a successful attempt.
func (d *Dispatcher) Design(attemptID uint64) (DesignView, bool) {
	r, ok := d.holder.Get(attemptID)
	if !ok {
		return DesignView{}, false
	}
	return designViewFor(r), true
}

// LatestDesign returns the result view of the most recent applied success.
func (d *Dispatcher) LatestDesign() (DesignView, bool) {
	r, ok := d.holder.Latest()
	if !ok {
		return DesignView{}, false
	}
	return designViewFor(r), true
}

func (d *Dispatcher) run(ctx context.Context, a *Attempt) {
	log := d.logger.With(zap.Uint64("attempt_id", a.id))

	start := time.Now()
	ref, err := d.generator.GenerateImage(ctx, a.req)
	generationDuration.Observe(time.Since(start).Seconds())
	if err == nil && (ref == nil || ref.URL == "") {
		err = fmt.Errorf("%w: empty image reference", domain.ErrGenerationFailed)
	}

	out := Outcome{AttemptID: a.id, Status: domain.StatusSuccess, Image: ref, Err: err}
	if err != nil {
		out.Status = domain.StatusError
		out.Image = nil
	}

	d.mu.Lock()
	if a.id != d.latest {
		out.Stale = true
	} else if !d.setStatusLocked(a.id, out.Status) {
		out.Stale = true
	} else if out.Status == domain.StatusSuccess {
		d.holder.Put(Result{AttemptID: a.id, Image: *ref, Request: a.req})
	}
	d.mu.Unlock()

	a.outcome = out
	close(a.done)

	switch {
	case out.Stale:
		attemptsTotal.WithLabelValues("stale").Inc()
		log.Info("Discarding stale generation response", zap.String("status", out.Status.String()))
		close(a.persisted)
	case err != nil:
		attemptsTotal.WithLabelValues("error").Inc()
		log.Warn("Generation failed", zap.Error(err))
		close(a.persisted)
	default:
		attemptsTotal.WithLabelValues("success").Inc()
		log.Info("Generation succeeded", zap.String("image_url", ref.URL))
		go d.persist(ctx, a, *ref)
	}
}

// setStatusLocked moves to next if the step is legal and reports whether it did.
// An illegal step leaves the status alone. d.mu must be held.
func (d *Dispatcher) setStatusLocked(attemptID uint64, next domain.Status) bool {
	if !d.status.CanTransition(next) {
		d.logger.Error("Illegal status transition",
			zap.Uint64("attempt_id", attemptID),
			zap.String("from", d.status.String()),
			zap.String("to", next.String()),
		)
		return false
	}
	d.status = next
	return true
}

// persist writes the image record. Its failure is logged and reported on the
// attempt but never touches the status.
func (d *Dispatcher) persist(ctx context.Context, a *Attempt, ref domain.GeneratedImageRef) {
	defer close(a.persisted)
	if d.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	rec := &domain.ImageRecord{
		ID:        uuid.NewString(),
		ImageURL:  ref.URL,
		Prompt:    a.req.Prompt,
		UserID:    d.userID,
		CreatedAt: d.now().UTC(),
	}

	err := d.sink.Save(ctx, rec)
	if err != nil {
		persistTotal.WithLabelValues("error").Inc()
		d.logger.Error("Failed to persist image record",
			zap.Uint64("attempt_id", a.id),
			zap.String("record_id", rec.ID),
			zap.Error(err),
		)
	} else {
		persistTotal.WithLabelValues("ok").Inc()
		d.logger.Debug("Image record persisted", zap.Uint64("attempt_id", a.id), zap.String("record_id", rec.ID))
	}
	a.persisted <- err
}
