// Package luarule loads classifier predicates written in Lua.
//
// A predicate file defines a classify function taking the code point
// as an integer and returning a boolean:
//
//	function classify(c)
//	    return c >= 0x1F600 and c <= 0x1F64F
//	end
//
// gopher-lua's LState is not goroutine-safe; a Predicate serializes
// all calls through its own mutex. The scanner pulls values from a
// single goroutine, so the lock is uncontended in normal use.
package luarule

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	striter "github.com/martingallagher/str-iter"
)

// FuncName is the global function a predicate file must define.
const FuncName = "classify"

var (
	// ErrClosed is returned when using a closed predicate.
	ErrClosed = errors.New("lua predicate is closed")

	// ErrNoClassify is returned when the file defines no classify function.
	ErrNoClassify = errors.New("lua file does not define function \"classify\"")

	// ErrNotBoolean is returned when classify returns a non-boolean.
	ErrNotBoolean = errors.New("lua classify returned a non-boolean")
)

// Predicate wraps a loaded Lua classify function.
type Predicate struct {
	mu     sync.Mutex
	L      *lua.LState
	fn     lua.LValue
	err    error
	closed bool
}

// Load reads and validates a predicate file.
func Load(path string) (*Predicate, error) {
	L := newState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return validate(L)
}

// LoadString loads a predicate from Lua source text.
func LoadString(code string) (*Predicate, error) {
	L := newState()
	if err := L.DoString(code); err != nil {
		L.Close()
		return nil, err
	}
	return validate(L)
}

// newState creates a Lua state with only safe standard libraries.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Note: io, os, debug, and package are intentionally not opened.

	return L
}

// validate checks that the loaded chunk defined a classify function.
func validate(L *lua.LState) (*Predicate, error) {
	fn := L.GetGlobal(FuncName)
	if fn == lua.LNil {
		L.Close()
		return nil, ErrNoClassify
	}
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("%q is not a function (got %s)", FuncName, fn.Type())
	}

	return &Predicate{L: L, fn: fn}, nil
}

// Classify calls the Lua function for one rune.
func (p *Predicate) Classify(r rune) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, ErrClosed
	}
	return p.classify(r)
}

// classify performs the call; the caller holds the mutex.
func (p *Predicate) classify(r rune) (verdict bool, err error) {
	p.L.Push(p.fn)
	p.L.Push(lua.LNumber(r))

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("lua panic: %v", rec)
			}
		}()
		err = p.L.PCall(1, 1, nil)
	}()
	if err != nil {
		return false, err
	}

	ret := p.L.Get(-1)
	p.L.Pop(1)

	b, ok := ret.(lua.LBool)
	if !ok {
		return false, fmt.Errorf("%w: got %s for U+%04X", ErrNotBoolean, ret.Type(), r)
	}
	return bool(b), nil
}

// Classifier adapts the predicate to the scanner's classifier type.
// Classifiers return no error, so the first failure is recorded and
// every rune after it classifies false; check Err after scanning.
func (p *Predicate) Classifier() striter.Classifier {
	return func(r rune) bool {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.closed || p.err != nil {
			return false
		}
		v, err := p.classify(r)
		if err != nil {
			p.err = err
			return false
		}
		return v
	}
}

// Err returns the first classification failure, if any.
func (p *Predicate) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Close releases the Lua state. Close is idempotent.
func (p *Predicate) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.L.Close()
	p.closed = true
	return nil
}
