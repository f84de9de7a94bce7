package effects

import (
	"sync"

	"github.com/cbodonnell/suitcase/pkg/log"
)

// Dispatcher realizes a batch of commands, in order.
// Implementations must not fail the caller: unavailable hardware is handled
// (or logged) inside the dispatcher.
type Dispatcher interface {
	Dispatch(cmds []Command)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(cmds []Command)

func (f DispatcherFunc) Dispatch(cmds []Command) {
	f(cmds)
}

// Discard drops every command.
var Discard Dispatcher = DispatcherFunc(func([]Command) {})

// Multi fans every batch out to each dispatcher in turn.
type Multi []Dispatcher

func (m Multi) Dispatch(cmds []Command) {
	for _, d := range m {
		d.Dispatch(cmds)
	}
}

// Recorder keeps every dispatched command. Safe for concurrent use.
type Recorder struct {
	lock     sync.Mutex
	commands []Command
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Dispatch(cmds []Command) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.commands = append(r.commands, cmds...)
}

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []Command {
	r.lock.Lock()
	defer r.lock.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// OfKind returns the recorded commands of the given kind.
func (r *Recorder) OfKind(kind CommandKind) []Command {
	var out []Command
	for _, c := range r.Commands() {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.commands = nil
}

// LogDispatcher writes every command to the log, the way the device logs
// GPIO activity when it runs without real pins.
type LogDispatcher struct {
	logger *log.Logger
}

func NewLogDispatcher(logger *log.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.WithComponent("gpio")}
}

func (d *LogDispatcher) Dispatch(cmds []Command) {
	for _, c := range cmds {
		if c.Kind == KindPlayTone {
			d.logger.Trace("%s", c)
			continue
		}
		d.logger.Debug("%s", c)
	}
}
