//go:build linux && amd64

package script

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	nativeGuardSize = 4096
	nativeStackSize = 64 << 10
	nativeSlotsArea = 4096
)

// callProgram switches to stack, calls fn with slots in RDI and RCX and data in RSI and RDX,
// then restores the goroutine stack. The 32-byte Win64 home area is reserved below stack.
// Implemented in trampoline_amd64.s.
//
//go:noescape
func callProgram(fn, slots, data, stack uintptr)

// nativeProgram runs the code section of a blob as machine code.
//
// The blob lives in its own mapping, readable and executable but never writable after the
// copy. Programs run on a private stack mapped below the slot area, with a guard page under
// it, so they never touch the goroutine stack.
type nativeProgram struct {
	code    []byte
	scratch []byte
	fn      uintptr
	data    uintptr
	slots   []byte
	stack   uintptr
}

var _ Program = (*nativeProgram)(nil)

func loadNative(_ context.Context, blob Blob, _ *engineConfig) (Program, error) {
	code, err := unix.Mmap(-1, 0, len(blob.Raw), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("map program: %w", err)
	}
	copy(code, blob.Raw)

	// Read stays enabled: programs load their constants from the data section in the
	// same mapping.
	if err := unix.Mprotect(code, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(code)
		return nil, fmt.Errorf("protect program: %w", err)
	}

	scratch, err := unix.Mmap(-1, 0, nativeGuardSize+nativeStackSize+nativeSlotsArea, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		_ = unix.Munmap(code)
		return nil, fmt.Errorf("map program stack: %w", err)
	}
	if err := unix.Mprotect(scratch[:nativeGuardSize], unix.PROT_NONE); err != nil {
		_ = unix.Munmap(code)
		_ = unix.Munmap(scratch)

		return nil, fmt.Errorf("protect program stack guard: %w", err)
	}

	base := uintptr(unsafe.Pointer(&code[0]))
	slotsStart := nativeGuardSize + nativeStackSize

	return &nativeProgram{
		code:    code,
		scratch: scratch,
		fn:      base + uintptr(blob.CodeOffset()),
		data:    base + DataSizeBytes,
		slots:   scratch[slotsStart : slotsStart+SlotsSize],
		stack:   uintptr(unsafe.Pointer(&scratch[slotsStart])),
	}, nil
}

// Run ignores ctx: machine code cannot be interrupted.
func (p *nativeProgram) Run(_ context.Context, slots []byte) error {
	copy(p.slots, slots)
	callProgram(p.fn, uintptr(unsafe.Pointer(&p.slots[0])), p.data, p.stack)
	copy(slots, p.slots)

	return nil
}

func (p *nativeProgram) Close(_ context.Context) error {
	return errors.Join(unix.Munmap(p.code), unix.Munmap(p.scratch))
}
