package script

import (
	"math"

	"github.com/arloliu/demopak/endian"
)

const (
	// AudioChannels is the number of audio peak registers: one master channel followed by
	// one channel per instrument.
	AudioChannels = 17
	// RegsCount is the size of the register bank: time, delta time, then the audio peaks.
	RegsCount = 2 + AudioChannels
	// VarsCount is the size of the variable bank. Vars[0] is the program's result.
	VarsCount = 16

	// RegTime holds the owner's current time.
	RegTime = 0
	// RegDeltaTime holds the time elapsed since the previous SetTime.
	RegDeltaTime = 1
	// RegAudio is the register of audio channel 0 (master).
	RegAudio = 2

	// SlotSize is the size of one 4-lane float32 slot.
	SlotSize = 16
	// SlotsCount is the number of slots handed to a program: registers, then variables.
	SlotsCount = RegsCount + VarsCount
	// SlotsSize is the size of the slot array in bytes.
	SlotsSize = SlotsCount * SlotSize
	// VarsOffset is the byte offset of Vars[0] in the slot array.
	VarsOffset = RegsCount * SlotSize
)

// Vec4 is a four component float vector, the value type of every register and variable.
type Vec4 struct {
	X, Y, Z, W float32
}

// Splat returns a Vec4 with all components set to v.
func Splat(v float32) Vec4 {
	return Vec4{X: v, Y: v, Z: v, W: v}
}

// State is the register and variable bank of one owner.
type State struct {
	Regs [RegsCount]Vec4
	Vars [VarsCount]Vec4
}

// marshal stages the whole state into slots with reversed lanes: W in lane 0, X in lane 3.
func (s *State) marshal(slots []byte) {
	_ = slots[SlotsSize-1]
	for i := range s.Regs {
		putSlot(slots[i*SlotSize:], s.Regs[i])
	}
	for i := range s.Vars {
		putSlot(slots[VarsOffset+i*SlotSize:], s.Vars[i])
	}
}

// unmarshalVars reads the variable slots back. Registers are inputs only.
func (s *State) unmarshalVars(slots []byte) {
	_ = slots[SlotsSize-1]
	for i := range s.Vars {
		s.Vars[i] = getSlot(slots[VarsOffset+i*SlotSize:])
	}
}

func putSlot(b []byte, v Vec4) {
	engine := endian.GetLittleEndianEngine()
	engine.PutUint32(b[0:4], math.Float32bits(v.W))
	engine.PutUint32(b[4:8], math.Float32bits(v.Z))
	engine.PutUint32(b[8:12], math.Float32bits(v.Y))
	engine.PutUint32(b[12:16], math.Float32bits(v.X))
}

func getSlot(b []byte) Vec4 {
	engine := endian.GetLittleEndianEngine()

	return Vec4{
		W: math.Float32frombits(engine.Uint32(b[0:4])),
		Z: math.Float32frombits(engine.Uint32(b[4:8])),
		Y: math.Float32frombits(engine.Uint32(b[8:12])),
		X: math.Float32frombits(engine.Uint32(b[12:16])),
	}
}
