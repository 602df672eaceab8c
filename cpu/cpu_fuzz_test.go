package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for op := range 0x20 {
		f.Add(uint8(op), uint8(0), uint8(1), uint8(2), int32(8), false)
		f.Add(uint8(op), uint8(31), uint8(32), uint8(0xff), int32(-8), true)
	}

	f.Fuzz(func(t *testing.T, op, a, b, c uint8, value int32, cond bool) {
		assert := assert.New(t)

		cpu := NewCpu()
		cpu.HeapLimit = 1024
		for n := range cpu.Register {
			cpu.Register[n] = value + int32(n)
		}
		cpu.Cond = cond
		cpu.Load([]byte{op, a, b, c}, false)

		prior := cpu.Register

		err := cpu.Tick()

		var fault *Fault
		switch {
		case err == nil, errors.Is(err, ErrHalted):
			switch DecodeOpcode(op) {
			case OP_JMP, OP_JMPF, OP_JMPB, OP_JEQ, OP_JNEQ:
				assert.True(cpu.Pc >= 0)
			default:
				assert.Equal(CODE_SIZE, cpu.Pc)
			}
			assert.Equal(1, cpu.Ticks)
		case errors.As(err, &fault):
			assert.Equal(0, fault.Pc)
			assert.Equal(DecodeOpcode(op), fault.Opcode)
			assert.Equal(0, cpu.Pc)
			assert.Equal(prior, cpu.Register)
			assert.Equal(0, cpu.Ticks)
		default:
			assert.Fail("unexpected error", "%v", err)
		}
	})
}
