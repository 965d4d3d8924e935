package world

import (
	"fmt"
	"math/bits"

	"github.com/penguinawesome1/floralcraft/internal/vec"
)

// Размеры секции: куб 16×16×16 вокселей, один скалярный канал.
const (
	SectionWidth  = 16
	SectionVolume = SectionWidth * SectionWidth * SectionWidth

	wordBits = 64
)

// Section хранит один скалярный канал для куба вокселей в упакованном
// виде: палитра различных значений плюс битовый массив индексов палитры
// фиксированной ширины. Ширина растет по мере роста палитры и никогда
// не уменьшается.
//
// Инварианты:
//   - palette[0] == 0 всегда: свежая секция читается как нули, не трогая
//     битовый массив;
//   - len(palette) <= 2^bitsPerItem;
//   - записи палитры не удаляются, даже если стали неиспользуемыми.
type Section struct {
	data        []uint64
	palette     []uint64
	bitsPerItem uint8
}

// NewSection создает секцию с начальной шириной индекса initialBits.
// Все воксели читаются как 0.
func NewSection(initialBits uint8) *Section {
	if initialBits == 0 {
		initialBits = 1
	}
	return &Section{
		data:        make([]uint64, dataWords(initialBits)),
		palette:     []uint64{0},
		bitsPerItem: initialBits,
	}
}

func dataWords(bitsPerItem uint8) int {
	return (SectionVolume*int(bitsPerItem) + wordBits - 1) / wordBits
}

// sectionIndex возвращает плоский индекс вокселя (x — старшее измерение).
// Координаты вне куба — нарушение контракта вызывающего.
func sectionIndex(pos vec.Vec3) int {
	if pos.X < 0 || pos.X >= SectionWidth ||
		pos.Y < 0 || pos.Y >= SectionWidth ||
		pos.Z < 0 || pos.Z >= SectionWidth {
		panic(fmt.Sprintf("координата вне секции: %+v", pos))
	}
	return pos.X*SectionWidth*SectionWidth + pos.Y*SectionWidth + pos.Z
}

// Item возвращает значение вокселя
func (s *Section) Item(pos vec.Vec3) uint64 {
	return s.palette[s.paletteIndex(sectionIndex(pos))]
}

// SetItem записывает значение вокселя. Новое значение добавляется в
// палитру; если индекс палитры перестает помещаться в текущую ширину,
// секция переупаковывается (O(volume)).
func (s *Section) SetItem(pos vec.Vec3, value uint64) {
	idx := sectionIndex(pos)

	for pi, v := range s.palette {
		if v == value {
			s.setPaletteIndex(idx, uint64(pi))
			return
		}
	}

	s.palette = append(s.palette, value)
	if need := bitsFor(len(s.palette)); need > s.bitsPerItem {
		s.repack(need)
	}
	s.setPaletteIndex(idx, uint64(len(s.palette)-1))
}

// IsEmpty сообщает, что все воксели равны 0. Палитра не сжимается,
// поэтому после роста палитры проверяется сам битовый массив: все нули
// означают, что каждый воксель ссылается на palette[0] == 0.
func (s *Section) IsEmpty() bool {
	if len(s.palette) == 1 {
		return s.palette[0] == 0
	}
	for _, w := range s.data {
		if w != 0 {
			return false
		}
	}
	return true
}

// paletteIndex извлекает индекс палитры вокселя. Битовый диапазон может
// пересекать границу двух слов.
func (s *Section) paletteIndex(idx int) uint64 {
	width := int(s.bitsPerItem)
	bitPos := idx * width
	word := bitPos / wordBits
	offset := bitPos % wordBits
	mask := uint64(1)<<width - 1

	v := s.data[word] >> offset
	if offset+width > wordBits {
		v |= s.data[word+1] << (wordBits - offset)
	}
	return v & mask
}

// setPaletteIndex записывает индекс палитры вокселя
func (s *Section) setPaletteIndex(idx int, pi uint64) {
	width := int(s.bitsPerItem)
	bitPos := idx * width
	word := bitPos / wordBits
	offset := bitPos % wordBits
	mask := uint64(1)<<width - 1

	s.data[word] = s.data[word]&^(mask<<offset) | (pi&mask)<<offset
	if offset+width > wordBits {
		spill := wordBits - offset
		s.data[word+1] = s.data[word+1]&^(mask>>spill) | (pi&mask)>>spill
	}
}

// repack перечитывает все индексы палитры под старой шириной и
// переписывает их в новый массив под шириной newBits
func (s *Section) repack(newBits uint8) {
	indices := make([]uint64, SectionVolume)
	for i := range indices {
		indices[i] = s.paletteIndex(i)
	}

	s.bitsPerItem = newBits
	s.data = make([]uint64, dataWords(newBits))
	for i, pi := range indices {
		s.setPaletteIndex(i, pi)
	}
}

// bitsFor возвращает минимальную ширину индекса для палитры из n записей
func bitsFor(n int) uint8 {
	if n <= 2 {
		return 1
	}
	return uint8(bits.Len(uint(n - 1)))
}
