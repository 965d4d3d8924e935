package world

import (
	"iter"

	"github.com/penguinawesome1/floralcraft/internal/vec"
)

// Геометрия мира. Чанк — колонна 16×16 блоков в плане и 64 в высоту,
// разбитая на 4 сабчанка по 16 слоев.
const (
	ChunkWidth    = 16
	ChunkHeight   = 16
	SubchunkDepth = 16
	NumSubchunks  = 4
	ChunkDepth    = SubchunkDepth * NumSubchunks
	ChunkVolume   = ChunkWidth * ChunkHeight * ChunkDepth
)

// Сдвиг и маска для деления на ширину чанка. Битовые операции дают
// floor-деление и для отрицательных координат.
const (
	chunkShift = 4
	chunkMask  = ChunkWidth - 1
)

// BlockToChunkPos возвращает позицию чанка, содержащего глобальную
// позицию блока
func BlockToChunkPos(global vec.Vec3) vec.Vec2 {
	return vec.Vec2{
		X: global.X >> chunkShift,
		Y: global.Y >> chunkShift,
	}
}

// ChunkToBlockPos возвращает глобальную позицию углового блока чанка
// (минимальные X и Y, Z = 0)
func ChunkToBlockPos(chunkPos vec.Vec2) vec.Vec3 {
	return vec.Vec3{
		X: chunkPos.X << chunkShift,
		Y: chunkPos.Y << chunkShift,
	}
}

// GlobalToLocalPos переводит глобальную позицию блока в локальную
// внутри его чанка. Координата Z не меняется.
func GlobalToLocalPos(global vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		X: global.X & chunkMask,
		Y: global.Y & chunkMask,
		Z: global.Z,
	}
}

// PositionsInSquare возвращает ленивую последовательность позиций чанков
// в квадрате с центром origin и радиусом radius (по метрике Чебышёва,
// включительно). Радиус 0 дает ровно origin.
func PositionsInSquare(origin vec.Vec2, radius int) iter.Seq[vec.Vec2] {
	return func(yield func(vec.Vec2) bool) {
		for dx := -radius; dx <= radius; dx++ {
			for dy := -radius; dy <= radius; dy++ {
				if !yield(vec.Vec2{X: origin.X + dx, Y: origin.Y + dy}) {
					return
				}
			}
		}
	}
}

// ChunkCoords возвращает ленивую последовательность всех локальных
// позиций внутри чанка
func ChunkCoords() iter.Seq[vec.Vec3] {
	return func(yield func(vec.Vec3) bool) {
		for x := 0; x < ChunkWidth; x++ {
			for y := 0; y < ChunkHeight; y++ {
				for z := 0; z < ChunkDepth; z++ {
					if !yield(vec.Vec3{X: x, Y: y, Z: z}) {
						return
					}
				}
			}
		}
	}
}
