package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/cec-protocol/cec-go/pkg/action"
	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/log"
	"github.com/cec-protocol/cec-go/pkg/runloop"
)

// Transmitter carries an encoded message towards the bus. It must be
// safe to call from the service loop; transport.Conn satisfies it.
type Transmitter interface {
	Transmit(msg *cec.Message) error
}

// Service drives the feature-action framework for one logical device.
// All action state lives on the service's run loop; the exported
// methods are safe to call from any goroutine.
type Service struct {
	loop     *runloop.Loop
	registry *action.Registry
	tx       Transmitter
	logger   log.Logger

	sessionID       string
	source          cec.LogicalAddress
	bridgeAddr      string
	responseTimeout time.Duration
}

// New creates a control service transmitting as source through tx.
func New(source cec.LogicalAddress, tx Transmitter) *Service {
	s := &Service{
		loop:      runloop.New(),
		registry:  action.NewRegistry(),
		tx:        tx,
		logger:    log.NoopLogger{},
		sessionID: uuid.NewString(),
		source:    source,
	}
	return s
}

// SetLogger sets the protocol event logger. Call before Start.
func (s *Service) SetLogger(l log.Logger) {
	if l == nil {
		l = log.NoopLogger{}
	}
	s.logger = l
}

// SetBridgeAddr records the bridge peer address stamped on log
// events. Call before Start.
func (s *Service) SetBridgeAddr(addr string) {
	s.bridgeAddr = addr
}

// SetResponseTimeout sets the reply deadline actions pick up at
// construction. Zero keeps each action's own default. Call before
// creating actions.
func (s *Service) SetResponseTimeout(d time.Duration) {
	s.responseTimeout = d
}

// ResponseTimeout returns the configured reply deadline, zero when
// unset. Actions consult it through their environment.
func (s *Service) ResponseTimeout() time.Duration {
	return s.responseTimeout
}

// SetDefaultHandler sets the handler for messages no active action
// consumed. Call before Start.
func (s *Service) SetDefaultHandler(fn func(msg *cec.Message)) {
	s.registry.SetFallback(fn)
}

// SessionID returns the UUID identifying this service session.
func (s *Service) SessionID() string {
	return s.sessionID
}

// Source returns the logical address the service transmits as.
func (s *Service) Source() cec.LogicalAddress {
	return s.source
}

// Loop returns the serialized execution queue. Part of
// action.Environment.
func (s *Service) Loop() *runloop.Loop {
	return s.loop
}

// Start launches the run loop.
func (s *Service) Start() {
	s.loop.Start()
	s.logState(log.StateEntityConnection, "", "", "STARTED", "")
}

// Stop stops the run loop. Queued callbacks still run; timers firing
// afterwards are dropped.
func (s *Service) Stop() {
	s.logState(log.StateEntityConnection, "", "", "STOPPED", "")
	s.loop.Stop()
}

// SendMessage transmits a message on the bus. Part of action.Sender:
// fire-and-forget, transport errors are logged but not returned.
func (s *Service) SendMessage(msg *cec.Message) {
	s.logMessage(log.DirectionOut, msg)
	if err := s.tx.Transmit(msg); err != nil {
		s.logError(log.LayerTransport, err, "transmit")
	}
}

// HandleMessage feeds one arriving bus message into the active
// actions. Dispatch happens on the loop; HandleMessage itself does not
// block on it.
func (s *Service) HandleMessage(msg *cec.Message) {
	s.logMessage(log.DirectionIn, msg)
	if err := s.loop.Post(func() { s.registry.Dispatch(msg) }); err != nil {
		s.logError(log.LayerBus, err, "dispatch")
	}
}

// AddAndStartAction registers the action and runs its Start on the
// loop. Registration happens first so a prompt reply cannot slip past
// the action. An action whose Start reports failure is removed again.
func (s *Service) AddAndStartAction(a action.Action) {
	err := s.loop.Post(func() {
		s.registry.Add(a)
		if !a.Start() {
			s.registry.Remove(a)
			s.logState(log.StateEntityAction, actionName(a), "", "NOT_STARTED", "start failed")
			return
		}
		s.logState(log.StateEntityAction, actionName(a), strconv.Itoa(action.StateNone), "STARTED", "")
	})
	if err != nil {
		s.logError(log.LayerAction, err, "add action")
	}
}

// RemoveAction deregisters a finished action. Part of action.Remover;
// actions call it through Finish, on the loop.
func (s *Service) RemoveAction(a action.Action) {
	s.registry.Remove(a)
	s.logState(log.StateEntityAction, actionName(a), "", "FINISHED", "")
}

// HasAction reports whether the action is currently registered. It
// synchronizes with the loop, so a false result means any Finish
// queued before the call has taken effect.
func (s *Service) HasAction(a action.Action) bool {
	result := make(chan bool, 1)
	if err := s.loop.Post(func() { result <- s.registry.Contains(a) }); err != nil {
		return false
	}
	return <-result
}

// ActionCount returns the number of registered actions.
func (s *Service) ActionCount() int {
	result := make(chan int, 1)
	if err := s.loop.Post(func() { result <- s.registry.Len() }); err != nil {
		return 0
	}
	return <-result
}

// Sync blocks until all work queued on the loop before the call has
// run. Tests use it to order assertions after dispatches.
func (s *Service) Sync() {
	done := make(chan struct{})
	if err := s.loop.Post(func() { close(done) }); err != nil {
		return
	}
	<-done
}

func (s *Service) logMessage(dir log.Direction, msg *cec.Message) {
	s.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  s.sessionID,
		Direction:  dir,
		Layer:      log.LayerBus,
		Category:   log.CategoryMessage,
		BridgeAddr: s.bridgeAddr,
		Message:    log.NewMessageEvent(msg),
	})
}

func (s *Service) logState(entity log.StateEntity, name, oldState, newState, reason string) {
	s.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  s.sessionID,
		Layer:      log.LayerAction,
		Category:   log.CategoryState,
		BridgeAddr: s.bridgeAddr,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			Name:     name,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

func (s *Service) logError(layer log.Layer, err error, context string) {
	s.logger.Log(log.Event{
		Timestamp:  time.Now(),
		SessionID:  s.sessionID,
		Layer:      layer,
		Category:   log.CategoryError,
		BridgeAddr: s.bridgeAddr,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	})
}

// actionName derives a stable name from the concrete action type.
func actionName(a action.Action) string {
	name := fmt.Sprintf("%T", a)
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}

// Compile-time check: *Service implements action.Environment.
var _ action.Environment = (*Service)(nil)
