package world

import (
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// Начальные ширины индексов палитры для каналов
const (
	blockChannelBits   = 4
	lightChannelBits   = 4
	exposedChannelBits = 1
)

// Subchunk — вертикальный слой чанка (16×16×16) с четырьмя независимыми
// каналами хранения. Каналы выделяются лениво при первой ненулевой
// записи и освобождаются, когда снова становятся целиком нулевыми:
// большая часть мира — воздух, и он не должен стоить памяти.
type Subchunk struct {
	blocks     *Section
	blockLight *Section
	skyLight   *Section
	exposed    *Section
}

// NewSubchunk создает пустой сабчанк без выделенных каналов
func NewSubchunk() *Subchunk {
	return &Subchunk{}
}

// Block возвращает тип блока в локальной позиции сабчанка
func (sc *Subchunk) Block(pos vec.Vec3) block.ID {
	if sc.blocks == nil {
		return block.Air
	}
	return block.ID(sc.blocks.Item(pos))
}

// SetBlock записывает тип блока
func (sc *Subchunk) SetBlock(pos vec.Vec3, id block.ID) {
	setChannel(&sc.blocks, pos, uint64(id), blockChannelBits)
}

// BlockLight возвращает уровень блочного света
func (sc *Subchunk) BlockLight(pos vec.Vec3) uint8 {
	if sc.blockLight == nil {
		return 0
	}
	return uint8(sc.blockLight.Item(pos))
}

// SetBlockLight записывает уровень блочного света
func (sc *Subchunk) SetBlockLight(pos vec.Vec3, level uint8) {
	setChannel(&sc.blockLight, pos, uint64(level), lightChannelBits)
}

// SkyLight возвращает уровень небесного света
func (sc *Subchunk) SkyLight(pos vec.Vec3) uint8 {
	if sc.skyLight == nil {
		return 0
	}
	return uint8(sc.skyLight.Item(pos))
}

// SetSkyLight записывает уровень небесного света
func (sc *Subchunk) SetSkyLight(pos vec.Vec3, level uint8) {
	setChannel(&sc.skyLight, pos, uint64(level), lightChannelBits)
}

// IsExposed сообщает, открыт ли воксель для рендера
func (sc *Subchunk) IsExposed(pos vec.Vec3) bool {
	if sc.exposed == nil {
		return false
	}
	return sc.exposed.Item(pos) != 0
}

// SetExposed записывает флаг открытости вокселя
func (sc *Subchunk) SetExposed(pos vec.Vec3, exposed bool) {
	var v uint64
	if exposed {
		v = 1
	}
	setChannel(&sc.exposed, pos, v, exposedChannelBits)
}

// IsEmpty сообщает, что сабчанк целиком воздух
func (sc *Subchunk) IsEmpty() bool {
	return sc.blocks == nil
}

// setChannel — общий путь записи: нулевая запись в отсутствующий канал
// ничего не делает, иначе канал создается при необходимости, а после
// записи освобождается, если стал целиком нулевым.
func setChannel(section **Section, pos vec.Vec3, value uint64, initialBits uint8) {
	if *section == nil {
		if value == 0 {
			return
		}
		*section = NewSection(initialBits)
	}
	(*section).SetItem(pos, value)
	if (*section).IsEmpty() {
		*section = nil
	}
}
