package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguinawesome1/floralcraft/internal/vec"
)

func TestSectionFreshReadsZero(t *testing.T) {
	s := NewSection(4)

	assert.True(t, s.IsEmpty(), "свежая секция должна быть пустой")
	assert.Equal(t, uint64(0), s.Item(vec.Vec3{}), "свежая секция должна читаться нулями")
	assert.Equal(t, uint64(0), s.Item(vec.Vec3{X: 15, Y: 15, Z: 15}))
}

func TestSectionRoundTrip(t *testing.T) {
	s := NewSection(4)

	positions := []vec.Vec3{
		{},
		{X: 1, Y: 2, Z: 3},
		{X: 15, Y: 0, Z: 0},
		{X: 0, Y: 15, Z: 0},
		{X: 0, Y: 0, Z: 15},
		{X: 15, Y: 15, Z: 15},
	}
	for i, pos := range positions {
		value := uint64(i * 7)
		s.SetItem(pos, value)
		assert.Equal(t, value, s.Item(pos), "значение должно читаться обратно из %+v", pos)
	}
}

func TestSectionRepackOnPaletteGrowth(t *testing.T) {
	// ширина 1 бит вмещает палитру из 2 записей: каждое новое
	// значение после первого вызывает переупаковку
	s := NewSection(1)

	for v := uint64(1); v <= 30; v++ {
		pos := vec.Vec3{X: int(v % 16), Y: int(v / 16), Z: 0}
		s.SetItem(pos, v)
	}

	for v := uint64(1); v <= 30; v++ {
		pos := vec.Vec3{X: int(v % 16), Y: int(v / 16), Z: 0}
		assert.Equal(t, v, s.Item(pos), "переупаковка должна сохранять значение %d", v)
	}
	assert.GreaterOrEqual(t, int(s.bitsPerItem), 5, "ширина должна вырасти под палитру из 31 записи")
}

func TestSectionRepackPreservesAllVoxels(t *testing.T) {
	s := NewSection(4)

	// заполняем весь куб значениями, требующими роста палитры за 16 записей
	for x := 0; x < SectionWidth; x++ {
		for y := 0; y < SectionWidth; y++ {
			for z := 0; z < SectionWidth; z++ {
				s.SetItem(vec.Vec3{X: x, Y: y, Z: z}, uint64((x+y+z)%40))
			}
		}
	}

	for x := 0; x < SectionWidth; x++ {
		for y := 0; y < SectionWidth; y++ {
			for z := 0; z < SectionWidth; z++ {
				require.Equal(t, uint64((x+y+z)%40), s.Item(vec.Vec3{X: x, Y: y, Z: z}),
					"воксель (%d,%d,%d) должен пережить переупаковки", x, y, z)
			}
		}
	}
}

func TestSectionIsEmptyAfterWritingDefaultsBack(t *testing.T) {
	s := NewSection(4)
	pos := vec.Vec3{X: 3, Y: 4, Z: 5}

	s.SetItem(pos, 9)
	assert.False(t, s.IsEmpty(), "секция с ненулевым вокселем не пуста")

	s.SetItem(pos, 0)
	assert.True(t, s.IsEmpty(), "секция снова пуста после записи нуля, палитра не сжимается")
	assert.Equal(t, 2, len(s.palette), "записи палитры не удаляются")
}

func TestSectionPanicsOnOutOfBounds(t *testing.T) {
	s := NewSection(4)

	assert.Panics(t, func() { s.Item(vec.Vec3{X: 16}) }, "координата вне куба — нарушение контракта")
	assert.Panics(t, func() { s.SetItem(vec.Vec3{Z: -1}, 1) })
}

func TestBitsFor(t *testing.T) {
	cases := map[int]uint8{1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 16: 4, 17: 5, 256: 8}
	for n, want := range cases {
		assert.Equal(t, want, bitsFor(n), "ширина для палитры из %d записей", n)
	}
}
