package script

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Engine runs one loaded program blob for any number of owners.
//
// Each owner, identified by any comparable value, has its own State. States are created
// zeroed on first use and live until Close. An engine without a program is valid: Run is then
// a no-op.
//
// The engine is not safe for concurrent use; callers serialize access, including for
// different owners.
type Engine struct {
	cfg     *engineConfig
	log     *zap.Logger
	program Program
	states  map[any]*State
	slots   [SlotsSize]byte
}

// NewEngine creates an engine with no program loaded.
//
// Parameters:
//   - opts: WithBackend, WithLogger, WithMemoryLimitPages
//
// Returns:
//   - *Engine: The new engine
//   - error: ErrInvalidBackend or an invalid option value
func NewEngine(opts ...Option) (*Engine, error) {
	cfg, err := newEngineConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:    cfg,
		log:    cfg.logger.With(zap.Stringer("backend", cfg.backend)),
		states: make(map[any]*State),
	}, nil
}

// Load replaces the current program with code.
//
// The previous program is released first. A blob of 4 bytes or less leaves the engine
// unloaded and is not an error.
func (e *Engine) Load(code []byte) error {
	return e.LoadContext(context.Background(), code)
}

// LoadContext is Load with a context for backends that compile the blob.
//
// Returns:
//   - error: ErrInvalidProgram for a malformed blob, ErrBackendUnsupported, or a backend error;
//     the engine is unloaded on any error
func (e *Engine) LoadContext(ctx context.Context, code []byte) error {
	e.free(ctx)

	if len(code) <= DataSizeBytes {
		e.log.Debug("empty program blob, engine unloaded", zap.Int("size", len(code)))
		return nil
	}

	blob, err := ParseBlob(code)
	if err != nil {
		return err
	}

	program, err := e.cfg.loader(ctx, blob, e.cfg)
	if err != nil {
		e.log.Warn("program load failed", zap.Int("size", len(code)), zap.Error(err))
		return fmt.Errorf("load program: %w", err)
	}
	e.program = program

	e.log.Debug("program loaded", zap.Int("size", len(code)), zap.Int("data_size", blob.DataSize))

	return nil
}

// Loaded reports whether a program is loaded.
func (e *Engine) Loaded() bool {
	return e.program != nil
}

// Free releases the loaded program. Calling it on an unloaded engine does nothing.
// Owner states are kept.
func (e *Engine) Free() {
	e.free(context.Background())
}

func (e *Engine) free(ctx context.Context) {
	if e.program == nil {
		return
	}

	if err := e.program.Close(ctx); err != nil {
		e.log.Warn("program release failed", zap.Error(err))
	}
	e.program = nil
	e.log.Debug("program freed")
}

// Close releases the program and drops every owner state.
func (e *Engine) Close() {
	e.Free()
	clear(e.states)
}

// Run executes the program for owner and stores the owner's Vars[0] in out.
//
// With no program loaded Run does nothing: out and every state are left untouched.
func (e *Engine) Run(owner any, out *Vec4) error {
	return e.RunContext(context.Background(), owner, out)
}

// RunContext is Run with a context. Native programs cannot be interrupted; a wasm program
// is aborted, and its module closed, when ctx is done.
//
// Returns:
//   - error: A backend error; the owner's variables are unchanged in that case
func (e *Engine) RunContext(ctx context.Context, owner any, out *Vec4) error {
	if e.program == nil {
		return nil
	}

	st := e.state(owner)
	st.marshal(e.slots[:])

	if err := e.program.Run(ctx, e.slots[:]); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	st.unmarshalVars(e.slots[:])
	*out = st.Vars[0]

	return nil
}

// SetTime sets the owner's time register to t and its delta time register to the difference
// from the previous time. Both are broadcast to all four lanes.
//
// Time never runs backwards: a negative t panics.
func (e *Engine) SetTime(owner any, t float32) {
	if t < 0 {
		panic(fmt.Sprintf("script: negative time %v", t))
	}

	st := e.state(owner)
	delta := t - st.Regs[RegTime].X
	st.Regs[RegTime] = Splat(t)
	st.Regs[RegDeltaTime] = Splat(delta)
}

// SetAudio sets the peak register of audio channel ch, broadcast to all four lanes.
// Channels outside [0, AudioChannels) are ignored.
func (e *Engine) SetAudio(owner any, ch int, v float32) {
	if ch < 0 || ch >= AudioChannels {
		return
	}

	e.state(owner).Regs[RegAudio+ch] = Splat(v)
}

// State returns a copy of owner's state, and false if the owner has never been used.
func (e *Engine) State(owner any) (State, bool) {
	st, ok := e.states[owner]
	if !ok {
		return State{}, false
	}

	return *st, true
}

// Owners returns the number of owners with a state.
func (e *Engine) Owners() int {
	return len(e.states)
}

func (e *Engine) state(owner any) *State {
	st, ok := e.states[owner]
	if !ok {
		st = &State{}
		e.states[owner] = st
		e.log.Debug("owner state created", zap.Int("owners", len(e.states)))
	}

	return st
}
