package world

import (
	"errors"
	"sync"

	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// ErrChunkExists возвращается при попытке добавить чанк в занятую
// позицию. Для конвейера генерации это безвредная гонка: результат
// опоздавшей задачи просто отбрасывается.
var ErrChunkExists = errors.New("чанк в этой позиции уже существует")

// World владеет картой чанков и набором "грязных" позиций, ожидающих
// перестройки рендером. Карта разделяется между управляющим циклом и
// задачами генерации, поэтому все обращения идут под RWMutex.
//
// Отсутствие чанка — штатная ситуация ("еще не сгенерирован"), а не
// ошибка: читатели получают (значение, false) и пропускают позицию.
type World struct {
	mu     sync.RWMutex
	chunks map[vec.Vec2]*Chunk
	dirty  map[vec.Vec2]struct{}
	dict   *block.Dictionary
}

// NewWorld создает пустой мир со словарем блоков
func NewWorld(dict *block.Dictionary) *World {
	return &World{
		chunks: make(map[vec.Vec2]*Chunk),
		dirty:  make(map[vec.Vec2]struct{}),
		dict:   dict,
	}
}

// Dictionary возвращает словарь блоков мира
func (w *World) Dictionary() *block.Dictionary {
	return w.dict
}

// Chunk возвращает чанк в позиции, если он загружен
func (w *World) Chunk(pos vec.Vec2) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[pos]
	return c, ok
}

// IsChunkAtPos сообщает, загружен ли чанк в позиции
func (w *World) IsChunkAtPos(pos vec.Vec2) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.chunks[pos]
	return ok
}

// ChunkCount возвращает количество загруженных чанков
func (w *World) ChunkCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// AddChunk добавляет сгенерированный чанк в мир. Возвращает
// ErrChunkExists, если позиция уже занята.
func (w *World) AddChunk(c *Chunk) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[c.Coords()]; ok {
		return ErrChunkExists
	}
	w.chunks[c.Coords()] = c
	return nil
}

// Block возвращает тип блока в глобальной позиции. Второй результат
// false означает незагруженный чанк (или Z вне мира).
func (w *World) Block(global vec.Vec3) (block.ID, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.blockLocked(global)
}

func (w *World) blockLocked(global vec.Vec3) (block.ID, bool) {
	c, ok := w.chunks[BlockToChunkPos(global)]
	if !ok {
		return block.Air, false
	}
	return c.Block(GlobalToLocalPos(global))
}

// BlockExposed сообщает, открыт ли блок в глобальной позиции. Второй
// результат false означает незагруженный чанк.
func (w *World) BlockExposed(global vec.Vec3) (bool, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	c, ok := w.chunks[BlockToChunkPos(global)]
	if !ok {
		return false, false
	}
	local := GlobalToLocalPos(global)
	if !inBounds(local) {
		return false, false
	}
	return c.IsExposed(local), true
}

// SetBlock записывает тип блока в глобальной позиции, пересчитывает
// открытость самой позиции и шести соседей (через границы чанков) и
// помечает чанк грязным вместе с четырьмя соседними. Возвращает false,
// если чанк не загружен или Z вне мира.
func (w *World) SetBlock(global vec.Vec3, id block.ID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	chunkPos := BlockToChunkPos(global)
	c, ok := w.chunks[chunkPos]
	if !ok {
		return false
	}
	if !c.SetBlock(GlobalToLocalPos(global), id) {
		return false
	}

	w.refreshExposedLocked(global)
	for _, off := range axisOffsets {
		w.refreshExposedLocked(global.Add(off))
	}

	w.markDirtyWithAdjLocked(chunkPos)
	return true
}

// MarkChunksDirtyWithAdj помечает позицию и четырех ортогональных
// соседей грязными: правка на границе чанка меняет открытость граней
// соседа вдоль общей грани.
func (w *World) MarkChunksDirtyWithAdj(pos vec.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.markDirtyWithAdjLocked(pos)
}

func (w *World) markDirtyWithAdjLocked(pos vec.Vec2) {
	w.dirty[pos] = struct{}{}
	for _, off := range adjacentOffsets {
		w.dirty[pos.Add(off)] = struct{}{}
	}
	dirtyChunksGauge.Set(float64(len(w.dirty)))
}

// ConsumeDirtyChunks атомарно забирает и очищает набор грязных позиций.
// Два вызова подряд без записей между ними дают полный набор, затем
// пустой.
func (w *World) ConsumeDirtyChunks() map[vec.Vec2]struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	drained := w.dirty
	w.dirty = make(map[vec.Vec2]struct{})
	dirtyChunksGauge.Set(0)
	return drained
}

// DirtyCount возвращает текущий размер набора грязных позиций
func (w *World) DirtyCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.dirty)
}

// isExposedLocked — единое правило открытости: блок видим по словарю и
// хотя бы один осевой сосед прозрачен либо невидим. Сосед в
// незагруженном чанке не открывает грань; вертикальные соседи вне мира
// пропускаются.
func (w *World) isExposedLocked(global vec.Vec3) bool {
	id, ok := w.blockLocked(global)
	if !ok || !w.dict.Definition(id).Visible {
		return false
	}
	for _, off := range axisOffsets {
		n := global.Add(off)
		if n.Z < 0 || n.Z >= ChunkDepth {
			continue
		}
		nid, ok := w.blockLocked(n)
		if !ok {
			continue
		}
		def := w.dict.Definition(nid)
		if def.Transparent || !def.Visible {
			return true
		}
	}
	return false
}

// refreshExposedLocked пересчитывает и записывает флаг открытости
// глобальной позиции, если ее чанк загружен
func (w *World) refreshExposedLocked(global vec.Vec3) {
	if global.Z < 0 || global.Z >= ChunkDepth {
		return
	}
	c, ok := w.chunks[BlockToChunkPos(global)]
	if !ok {
		return
	}
	c.SetExposed(GlobalToLocalPos(global), w.isExposedLocked(global))
}

// RecomputeBoundaryExposure пересчитывает открытость граничных колонн
// чанка и его загруженных соседей вдоль общих граней. Вызывается после
// слияния нового чанка: при генерации соседи могли быть не загружены, и
// грани по обе стороны границы посчитаны без них.
func (w *World) RecomputeBoundaryExposure(pos vec.Vec2) {
	w.mu.Lock()
	defer w.mu.Unlock()

	c, ok := w.chunks[pos]
	if !ok {
		return
	}
	for _, off := range adjacentOffsets {
		n, ok := w.chunks[pos.Add(off)]
		if !ok {
			continue
		}
		// своя грань в сторону соседа и грань соседа в нашу сторону
		w.refreshBoundaryColumnLocked(c, off)
		w.refreshBoundaryColumnLocked(n, vec.Vec2{X: -off.X, Y: -off.Y})
	}
}

// refreshBoundaryColumnLocked пересчитывает открытость вокселей чанка
// вдоль грани, обращенной в направлении dir
func (w *World) refreshBoundaryColumnLocked(c *Chunk, dir vec.Vec2) {
	origin := ChunkToBlockPos(c.Coords())
	for a := 0; a < ChunkWidth; a++ {
		for z := 0; z < ChunkDepth; z++ {
			var local vec.Vec3
			switch {
			case dir.X > 0:
				local = vec.Vec3{X: ChunkWidth - 1, Y: a, Z: z}
			case dir.X < 0:
				local = vec.Vec3{X: 0, Y: a, Z: z}
			case dir.Y > 0:
				local = vec.Vec3{X: a, Y: ChunkHeight - 1, Z: z}
			default:
				local = vec.Vec3{X: a, Y: 0, Z: z}
			}
			global := origin.Add(local)
			c.SetExposed(local, w.isExposedLocked(global))
		}
	}
}

// adjacentOffsets — четыре ортогональных соседа чанка
var adjacentOffsets = [4]vec.Vec2{
	{X: 1}, {X: -1}, {Y: 1}, {Y: -1},
}
