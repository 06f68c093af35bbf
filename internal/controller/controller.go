// Package controller owns the users page state and drives the fetch / add / delete cycle
// against the Users API.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"userdesk/internal/logging"
	"userdesk/internal/model"
	"userdesk/internal/usersapi"
)

// Status messages shown to the user after each operation.
const (
	MsgFetchError     = "Error fetching users"
	MsgFieldsRequired = "Please fill in all fields"
	MsgUserAdded      = "User added successfully!"
	MsgAddError       = "Error adding user"
	MsgUserDeleted    = "User deleted successfully!"
	MsgDeleteError    = "Error deleting user"
)

var (
	ErrClosed         = errors.New("controller closed")
	ErrFieldsRequired = errors.New("name and email are required")
	// ErrRejected reports a non-2xx answer to an add. The view state is left as it was.
	ErrRejected = errors.New("users api rejected request")
)

// UserList is the behaviour the UI host drives.
//
// Operation outcomes reach the user only through ViewState.StatusMessage. The returned errors
// are for logs and traces; callers must not turn them into additional UI feedback.
type UserList interface {
	Initialize(ctx context.Context) error
	FetchAll(ctx context.Context) error
	AddUser(ctx context.Context, name, email string) error
	Submit(ctx context.Context) error
	DeleteUser(ctx context.Context, id model.ID) error
	SetName(name string)
	SetEmail(email string)
	SetInputs(name, email string)
	State() model.ViewState
	Subscribe(fn func(model.ViewState)) (unsubscribe func())
	Close()
}

// Options configure a Controller.
type Options struct {
	Logger *logging.Logger
	Tracer trace.Tracer
}

// Controller is the UserList implementation. All state mutations are serialized; network calls
// run outside the lock so overlapping operations proceed independently and the last response wins.
type Controller struct {
	client usersapi.Client
	log    *logging.Logger
	tracer trace.Tracer

	mu     sync.Mutex
	state  model.ViewState
	seq    uint64
	closed bool
	subs   map[int]*subscriber
	nextID int

	life   context.Context
	cancel context.CancelFunc
	init   sync.Once
}

var _ UserList = (*Controller)(nil)

// New constructs a Controller. Call Initialize to load the first list and Close on teardown.
func New(client usersapi.Client, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("userdesk/internal/controller")
	}
	life, cancel := context.WithCancel(context.Background())
	return &Controller{
		client: client,
		log:    opts.Logger,
		tracer: opts.Tracer,
		subs:   make(map[int]*subscriber),
		life:   life,
		cancel: cancel,
	}
}

// Initialize runs FetchAll the first time it is called and is a no-op afterwards.
func (c *Controller) Initialize(ctx context.Context) error {
	var err error
	c.init.Do(func() {
		err = c.FetchAll(ctx)
	})
	return err
}

// FetchAll replaces the user list with the Users API's current answer.
// IsLoading is true for the duration of the call. On failure the list is kept and only the
// status message changes.
func (c *Controller) FetchAll(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "controller.FetchAll")
	defer span.End()

	if !c.update(func(s *model.ViewState) { s.IsLoading = true }) {
		return ErrClosed
	}

	rctx, done := c.scope(ctx)
	users, err := c.client.List(rctx)
	done()

	c.update(func(s *model.ViewState) {
		if err != nil {
			s.StatusMessage = MsgFetchError
		} else {
			s.Users = users
		}
		s.IsLoading = false
	})

	if err != nil {
		recordError(span, err)
		c.log.Error("users_fetch_failed", err, nil)
		return err
	}
	span.SetAttributes(attribute.Int("users.count", len(users)))
	c.log.Info("users_fetched", map[string]any{"count": len(users)})
	return nil
}

// AddUser creates a user. Empty name or email short-circuits without a request; whitespace
// counts as a value. On a 2xx answer the inputs are cleared and the list is refetched.
// A non-2xx answer leaves the view untouched.
func (c *Controller) AddUser(ctx context.Context, name, email string) error {
	ctx, span := c.tracer.Start(ctx, "controller.AddUser")
	defer span.End()

	if c.isClosed() {
		return ErrClosed
	}
	if name == "" || email == "" {
		c.update(func(s *model.ViewState) { s.StatusMessage = MsgFieldsRequired })
		span.SetStatus(codes.Error, ErrFieldsRequired.Error())
		return ErrFieldsRequired
	}

	rctx, done := c.scope(ctx)
	status, err := c.client.Create(rctx, model.CreateUserRequest{Name: name, Email: email})
	done()

	if err != nil {
		c.update(func(s *model.ViewState) { s.StatusMessage = MsgAddError })
		recordError(span, err)
		c.log.Error("user_add_failed", err, nil)
		return err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if !usersapi.IsSuccess(status) {
		c.log.Warn("user_add_rejected", map[string]any{"status": status})
		err := fmt.Errorf("%w: status %d", ErrRejected, status)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if !c.update(func(s *model.ViewState) {
		s.StatusMessage = MsgUserAdded
		s.NameInput = ""
		s.EmailInput = ""
	}) {
		return ErrClosed
	}
	c.log.Info("user_added", map[string]any{"status": status})

	// The refetch reports through the view state.
	_ = c.FetchAll(ctx)
	return nil
}

// Submit adds a user from the current input values.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	name, email := c.state.NameInput, c.state.EmailInput
	c.mu.Unlock()
	return c.AddUser(ctx, name, email)
}

// DeleteUser removes a user and refetches the list. The response status is not inspected:
// any answer is reported as success. Only a transport failure is reported as an error, and
// then no refetch happens.
func (c *Controller) DeleteUser(ctx context.Context, id model.ID) error {
	ctx, span := c.tracer.Start(ctx, "controller.DeleteUser", trace.WithAttributes(attribute.String("user.id", id.String())))
	defer span.End()

	if c.isClosed() {
		return ErrClosed
	}

	rctx, done := c.scope(ctx)
	status, err := c.client.Delete(rctx, id)
	done()

	if err != nil {
		c.update(func(s *model.ViewState) { s.StatusMessage = MsgDeleteError })
		recordError(span, err)
		c.log.Error("user_delete_failed", err, map[string]any{"id": id.String()})
		return err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	if !c.update(func(s *model.ViewState) { s.StatusMessage = MsgUserDeleted }) {
		return ErrClosed
	}
	c.log.Info("user_deleted", map[string]any{"id": id.String(), "status": status})

	_ = c.FetchAll(ctx)
	return nil
}

// SetName binds the name input.
func (c *Controller) SetName(name string) {
	c.update(func(s *model.ViewState) { s.NameInput = name })
}

// SetEmail binds the email input.
func (c *Controller) SetEmail(email string) {
	c.update(func(s *model.ViewState) { s.EmailInput = email })
}

// SetInputs binds both inputs in one transition.
func (c *Controller) SetInputs(name, email string) {
	c.update(func(s *model.ViewState) {
		s.NameInput = name
		s.EmailInput = email
	})
}

// State returns a copy of the current view state.
func (c *Controller) State() model.ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Subscribe registers fn to receive a copy of the state after transitions.
// fn runs on the mutating goroutine, never sees states out of order, and may skip a state that
// a newer one already superseded. It may read State but must not start controller operations.
func (c *Controller) Subscribe(fn func(model.ViewState)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = &subscriber{fn: fn}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Close aborts in-flight requests. Results that land afterwards are dropped and later
// operations return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.subs = map[int]*subscriber{}
	c.mu.Unlock()
	c.cancel()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// update applies fn and notifies subscribers. It reports false, without applying fn, once the
// controller is closed.
func (c *Controller) update(fn func(*model.ViewState)) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	fn(&c.state)
	c.seq++
	seq, snapshot := c.seq, c.state.Clone()
	subs := make([]*subscriber, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s.deliver(seq, snapshot)
	}
	return true
}

// subscriber serializes deliveries to one observer and drops snapshots older than the last one
// it delivered. Its lock is never held together with Controller.mu.
type subscriber struct {
	mu   sync.Mutex
	last uint64
	fn   func(model.ViewState)
}

func (s *subscriber) deliver(seq uint64, st model.ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.last {
		return
	}
	s.last = seq
	s.fn(st.Clone())
}

// scope derives a request context that is cancelled by either ctx or Close.
func (c *Controller) scope(ctx context.Context) (context.Context, func()) {
	rctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
