// Package dispatcher routes textual commands from the control surface to
// their handlers. Handlers can be synchronous or buffered onto their own
// goroutine, with queue depth exported through OTel.
package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fueltrace/fleetsim/internal/channel"
)

// Command is one incoming control request.
type Command struct {
	Name      string
	Args      []string
	Timestamp time.Time
}

// HandlerFunc processes a command and returns a result.
type HandlerFunc func(Command) (any, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	bufferSize int
	blocking   bool
	logged     bool
}

// Buffered makes the handler async with a queue of the given size.
func Buffered(size int) Option {
	return func(c *config) {
		c.bufferSize = size
	}
}

// Blocking makes a buffered handler block when the queue is full instead of dropping.
func Blocking() Option {
	return func(c *config) {
		c.blocking = true
	}
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Dispatcher routes commands to registered handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	queueSize metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter

	// Track buffers for gauge callback
	mu      sync.RWMutex
	buffers map[string]*channel.Buffered[Command]
}

// New creates a Dispatcher. Metrics come from the global OTel meter and are
// no-ops until a provider is installed.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		buffers:  make(map[string]*channel.Buffered[Command]),
		logger:   logger,
	}

	m := meter()

	var err error

	d.queueSize, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of commands in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for name, buf := range d.buffers {
				o.ObserveInt64(d.queueSize, int64(buf.Len()),
					metric.WithAttributes(attribute.String("command", name)))
			}
			return nil
		},
		d.queueSize,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	d.processed, err = m.Int64Counter(
		"dispatcher.commands.processed",
		metric.WithDescription("Total commands processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	d.dropped, err = m.Int64Counter(
		"dispatcher.commands.dropped",
		metric.WithDescription("Total commands dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	return d, nil
}

// Register adds a handler for the given command with optional configuration.
func (d *Dispatcher) Register(name string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.bufferSize > 0 {
		handler = d.withBuffer(name, cfg.bufferSize, cfg.blocking, handler)
	}

	if cfg.logged {
		handler = d.withLogging(name, handler)
	}

	d.handlers[name] = handler
}

// Dispatch routes a command to its registered handler.
func (d *Dispatcher) Dispatch(c Command) (any, error) {
	h, ok := d.handlers[c.Name]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", c.Name)
	}
	return h(c)
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(name string) bool {
	_, ok := d.handlers[name]
	return ok
}

func (d *Dispatcher) withBuffer(name string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	buffer := channel.NewBuffered[Command](size)

	d.mu.Lock()
	d.buffers[name] = buffer
	d.mu.Unlock()

	cmdAttr := attribute.String("command", name)

	go func() {
		for c := range buffer.Receive() {
			h(c)
			d.processed.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
		}
	}()

	if blocking {
		return func(c Command) (any, error) {
			buffer.Send(c)
			return "queued", nil
		}
	}

	return func(c Command) (any, error) {
		if !buffer.TrySend(c) {
			d.dropped.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
			return nil, fmt.Errorf("queue full: %s", name)
		}
		return "queued", nil
	}
}

func (d *Dispatcher) withLogging(name string, h HandlerFunc) HandlerFunc {
	return func(c Command) (any, error) {
		start := time.Now()
		d.logger.Debug("handling command", "command", name, "args", len(c.Args))

		result, err := h(c)

		if err != nil {
			d.logger.Error("command failed", "command", name, "duration", time.Since(start), "error", err)
		} else {
			d.logger.Debug("command complete", "command", name, "duration", time.Since(start))
		}

		return result, err
	}
}
