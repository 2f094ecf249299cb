// Package chat drives one request/response round trip over a session transcript.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/netchat/internal/api"
	apierrors "github.com/diogo/netchat/internal/errors"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/prompt"
	"github.com/diogo/netchat/internal/session"
)

// State is a step of the round-trip state machine
type State int

const (
	Idle State = iota
	AwaitingInput
	UserTurnRecorded
	InvocationInProgress
	ModelTurnRecorded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingInput:
		return "awaiting_input"
	case UserTurnRecorded:
		return "user_turn_recorded"
	case InvocationInProgress:
		return "invocation_in_progress"
	case ModelTurnRecorded:
		return "model_turn_recorded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Busy reports whether a round trip is underway
func (s State) Busy() bool {
	return s == UserTurnRecorded || s == InvocationInProgress
}

// Invoker performs one inference call and always returns displayable text
type Invoker interface {
	Invoke(ctx context.Context, request []models.Turn, instruction prompt.Instruction) api.Result
}

// Controller owns the round trip: record the user turn, invoke, record the reply.
type Controller struct {
	transcript  *session.Transcript
	invoker     Invoker
	instruction prompt.Instruction
	logger      zerolog.Logger

	mu      sync.Mutex
	state   State
	pending []models.Turn
	lastErr error
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger used for state transitions
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller over transcript
func NewController(transcript *session.Transcript, invoker Invoker, instruction prompt.Instruction, opts ...Option) *Controller {
	c := &Controller{
		transcript:  transcript,
		invoker:     invoker,
		instruction: instruction,
		logger:      zerolog.Nop(),
		state:       Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("session", transcript.ID).Logger()
	return c
}

// Transcript returns the transcript the controller writes to
func (c *Controller) Transcript() *session.Transcript {
	return c.transcript
}

// Instruction returns the instruction sent with every call
func (c *Controller) Instruction() prompt.Instruction {
	return c.instruction
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error behind the most recent reply, if the call failed
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Await marks the controller as showing the input affordance
func (c *Controller) Await() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		c.transition(AwaitingInput)
	}
}

// Begin records input as a user turn and prepares the request. It returns
// false, recording nothing, when input is blank or a round trip is underway.
func (c *Controller) Begin(input string) (models.Turn, bool) {
	if strings.TrimSpace(input) == "" {
		return models.Turn{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy() {
		c.logger.Debug().Str("state", c.state.String()).Msg("input ignored while busy")
		return models.Turn{}, false
	}

	snapshot := c.transcript.Turns()
	turn := models.UserTurn(input)
	c.transcript.Append(turn)
	c.pending = api.BuildRequest(snapshot, input)
	c.transition(UserTurnRecorded)

	return turn, true
}

// Complete invokes the model with the prepared request and records the reply,
// or the converted error text, as a model turn. The state returns to Idle.
func (c *Controller) Complete(ctx context.Context) models.Turn {
	c.mu.Lock()
	if c.state != UserTurnRecorded {
		state := c.state
		c.mu.Unlock()
		c.logger.Warn().Str("state", state.String()).Msg("complete called with no recorded user turn")
		return models.Turn{}
	}
	request := c.pending
	c.pending = nil
	c.transition(InvocationInProgress)
	c.mu.Unlock()

	res := c.invoker.Invoke(ctx, request, c.instruction)

	c.mu.Lock()
	defer c.mu.Unlock()

	turn := models.ModelTurn(res.Text)
	c.transcript.Append(turn)
	c.lastErr = res.Err
	c.transition(ModelTurnRecorded)
	c.transition(Idle)

	return turn
}

// Submit runs a full round trip for input. The bool is false when the
// input was ignored.
func (c *Controller) Submit(ctx context.Context, input string) (models.Turn, bool) {
	if _, ok := c.Begin(input); !ok {
		return models.Turn{}, false
	}
	return c.Complete(ctx), true
}

// Reset clears the transcript. It fails with ErrBusy during a round trip.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy() {
		return apierrors.ErrBusy
	}

	c.transcript.Reset()
	c.lastErr = nil
	c.logger.Debug().Msg("transcript reset")
	if c.state != Idle {
		c.transition(Idle)
	}
	return nil
}

// transition must be called with mu held
func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	c.logger.Debug().
		Str("from", from.String()).
		Str("to", to.String()).
		Int("turns", c.transcript.Len()).
		Msg("state transition")
}
