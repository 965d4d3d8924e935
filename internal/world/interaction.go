package world

import (
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// BreakBlock ломает блок в глобальной позиции: блок должен быть
// загружен и ломаемым по словарю. Запись воздуха идет обычным путем
// правок с пересчетом открытости и пометкой грязных чанков.
func (w *World) BreakBlock(global vec.Vec3) bool {
	id, ok := w.Block(global)
	if !ok || !w.dict.Definition(id).Breakable {
		return false
	}
	return w.SetBlock(global, block.Air)
}

// PlaceBlock ставит блок в глобальной позиции: текущий блок должен быть
// заменяемым по словарю (воздух, цветы)
func (w *World) PlaceBlock(global vec.Vec3, id block.ID) bool {
	current, ok := w.Block(global)
	if !ok || !w.dict.Definition(current).Replaceable {
		return false
	}
	return w.SetBlock(global, id)
}
