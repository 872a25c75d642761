package cpu

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	ins := Decode(0xD12F)

	assert.Equal(t, uint16(0xD12F), ins.Word)
	assert.Equal(t, uint8(0xD), ins.Category)
	assert.Equal(t, uint8(0x1), ins.X)
	assert.Equal(t, uint8(0x2), ins.Y)
	assert.Equal(t, uint8(0xF), ins.N)
	assert.Equal(t, uint8(0x2F), ins.KK)
	assert.Equal(t, uint16(0x12F), ins.NNN)
}

func TestDecodeCategories(t *testing.T) {
	for category := range 16 {
		word := uint16(category)<<12 | 0x0ABC
		ins := Decode(word)
		assert.Equal(t, uint8(category), ins.Category)
		assert.Equal(t, uint16(0xABC), ins.NNN)
	}
}
