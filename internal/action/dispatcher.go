package action

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/mbs-backend/internal/metrics"
)

// Dispatcher turns a raw query string into a Result.
type Dispatcher struct {
	registry *Registry
	log      *zap.Logger
}

// NewDispatcher wires a dispatcher over a validated registry.
func NewDispatcher(registry *Registry, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{registry: registry, log: log}
}

// Dispatch parses raw, selects the handler named by the action key and
// runs it.  It never panics and always returns an envelope-ready Result.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) Result {
	in := ParseQuery(raw)
	name, ok := in[KeyAction]
	if !ok {
		metrics.ObserveAction("none", false, 0)
		return Fail(MsgNoAction)
	}

	h, ok := d.registry.Lookup(Action(name))
	if !ok {
		metrics.ObserveAction("unknown", false, 0)
		return InvalidAction(name)
	}

	start := time.Now()
	res := d.invoke(ctx, name, h, in)
	metrics.ObserveAction(name, !res.Failed(), time.Since(start))
	return res
}

// invoke contains handler faults: a panic is logged and reported to the
// client the same way as an unknown action.
func (d *Dispatcher) invoke(ctx context.Context, name string, h Handler, in Inputs) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			d.log.Error("action handler panicked",
				zap.String("action", name),
				zap.Any("panic", p),
				zap.Stack("stack"),
			)
			res = InvalidAction(name)
		}
	}()
	return h.Handle(ctx, in)
}
