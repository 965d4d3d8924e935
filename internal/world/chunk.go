package world

import (
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// Chunk — колонна из сабчанков с 2D позицией в мире. Предоставляет
// плоское 3D адресное пространство [0,16)×[0,16)×[0,64), маршрутизируя
// обращения в нужный сабчанк. До слияния в мир чанк принадлежит ровно
// одной задаче генерации; после слияния изменяется только через World.
type Chunk struct {
	coords    vec.Vec2
	subchunks [NumSubchunks]*Subchunk
}

// NewChunk создает пустой чанк с указанной позицией
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{coords: coords}
}

// Coords возвращает позицию чанка в мире
func (c *Chunk) Coords() vec.Vec2 {
	return c.coords
}

// inBounds проверяет, что локальная позиция лежит внутри чанка
func inBounds(pos vec.Vec3) bool {
	return pos.X >= 0 && pos.X < ChunkWidth &&
		pos.Y >= 0 && pos.Y < ChunkHeight &&
		pos.Z >= 0 && pos.Z < ChunkDepth
}

// route переводит локальную позицию чанка в индекс сабчанка и локальную
// позицию внутри него. Ошибка на единицу здесь молча портит данные на
// границах сабчанков, поэтому деление и остаток только здесь.
func route(pos vec.Vec3) (int, vec.Vec3) {
	return pos.Z / SubchunkDepth, vec.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z % SubchunkDepth}
}

// Block возвращает тип блока в локальной позиции. Второй результат
// false означает позицию вне чанка.
func (c *Chunk) Block(pos vec.Vec3) (block.ID, bool) {
	if !inBounds(pos) {
		return block.Air, false
	}
	i, local := route(pos)
	if c.subchunks[i] == nil {
		return block.Air, true
	}
	return c.subchunks[i].Block(local), true
}

// SetBlock записывает тип блока в локальной позиции. Возвращает false,
// если позиция вне чанка.
func (c *Chunk) SetBlock(pos vec.Vec3, id block.ID) bool {
	return c.set(pos, func(sc *Subchunk, local vec.Vec3) {
		sc.SetBlock(local, id)
	}, id == block.Air)
}

// IsExposed сообщает, открыт ли воксель в локальной позиции
func (c *Chunk) IsExposed(pos vec.Vec3) bool {
	if !inBounds(pos) {
		return false
	}
	i, local := route(pos)
	if c.subchunks[i] == nil {
		return false
	}
	return c.subchunks[i].IsExposed(local)
}

// SetExposed записывает флаг открытости вокселя
func (c *Chunk) SetExposed(pos vec.Vec3, exposed bool) bool {
	return c.set(pos, func(sc *Subchunk, local vec.Vec3) {
		sc.SetExposed(local, exposed)
	}, !exposed)
}

// BlockLight возвращает уровень блочного света
func (c *Chunk) BlockLight(pos vec.Vec3) uint8 {
	if !inBounds(pos) {
		return 0
	}
	i, local := route(pos)
	if c.subchunks[i] == nil {
		return 0
	}
	return c.subchunks[i].BlockLight(local)
}

// SetBlockLight записывает уровень блочного света
func (c *Chunk) SetBlockLight(pos vec.Vec3, level uint8) bool {
	return c.set(pos, func(sc *Subchunk, local vec.Vec3) {
		sc.SetBlockLight(local, level)
	}, level == 0)
}

// SkyLight возвращает уровень небесного света
func (c *Chunk) SkyLight(pos vec.Vec3) uint8 {
	if !inBounds(pos) {
		return 0
	}
	i, local := route(pos)
	if c.subchunks[i] == nil {
		return 0
	}
	return c.subchunks[i].SkyLight(local)
}

// SetSkyLight записывает уровень небесного света
func (c *Chunk) SetSkyLight(pos vec.Vec3, level uint8) bool {
	return c.set(pos, func(sc *Subchunk, local vec.Vec3) {
		sc.SetSkyLight(local, level)
	}, level == 0)
}

// set — общий путь записи канала: сабчанк создается лениво, нулевая
// запись в отсутствующий сабчанк ничего не делает, опустевший сабчанк
// освобождается.
func (c *Chunk) set(pos vec.Vec3, write func(*Subchunk, vec.Vec3), isDefault bool) bool {
	if !inBounds(pos) {
		return false
	}
	i, local := route(pos)
	if c.subchunks[i] == nil {
		if isDefault {
			return true
		}
		c.subchunks[i] = NewSubchunk()
	}
	sc := c.subchunks[i]
	write(sc, local)
	if sc.IsEmpty() && sc.exposed == nil && sc.blockLight == nil && sc.skyLight == nil {
		c.subchunks[i] = nil
	}
	return true
}

// BlockOffsets возвращает осевых соседей позиции, отфильтровывая тех,
// чья вертикальная координата выходит за пределы чанка. Горизонтальные
// соседи из соседних чанков остаются в списке: их разрешает вызывающий
// через World.
func (c *Chunk) BlockOffsets(pos vec.Vec3) []vec.Vec3 {
	offsets := make([]vec.Vec3, 0, len(axisOffsets))
	for _, off := range axisOffsets {
		n := pos.Add(off)
		if n.Z < 0 || n.Z >= ChunkDepth {
			continue
		}
		offsets = append(offsets, n)
	}
	return offsets
}

// IsEmpty сообщает, что весь чанк — воздух
func (c *Chunk) IsEmpty() bool {
	for _, sc := range c.subchunks {
		if sc != nil && !sc.IsEmpty() {
			return false
		}
	}
	return true
}

// axisOffsets — шесть осевых направлений соседства
var axisOffsets = [6]vec.Vec3{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}
