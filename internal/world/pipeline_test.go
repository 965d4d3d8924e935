package world

import (
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// countingGenerator считает обращения за блоками поверх плоской генерации
type countingGenerator struct {
	calls atomic.Int64
}

func (g *countingGenerator) ChooseBlock(pos vec.Vec3) block.ID {
	g.calls.Add(1)
	return columnBlock(pos.Z)
}

// wallGenerator заполняет камнем все колонны с x < 16: чанк (0,0)
// целиком камень, чанк (1,0) целиком воздух
type wallGenerator struct{}

func (wallGenerator) ChooseBlock(pos vec.Vec3) block.ID {
	if pos.X < ChunkWidth {
		return block.Stone
	}
	return block.Air
}

func positionsSeq(positions ...vec.Vec2) func(func(vec.Vec2) bool) {
	return func(yield func(vec.Vec2) bool) {
		for _, p := range positions {
			if !yield(p) {
				return
			}
		}
	}
}

// tickUntil гоняет конвейер до выполнения условия
func tickUntil(t *testing.T, p *GenerationPipeline, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		p.Tick()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("конвейер не дошел до ожидаемого состояния")
}

func TestPipelineGeneratesRequestedChunks(t *testing.T) {
	w := NewWorld(block.DefaultDictionary())
	p := NewGenerationPipeline(w, flatGenerator{}, nil, 2, 5)

	p.Request(PositionsInSquare(vec.Vec2{}, 1))
	tickUntil(t, p, func() bool { return w.ChunkCount() == 9 })

	for pos := range PositionsInSquare(vec.Vec2{}, 1) {
		assert.True(t, w.IsChunkAtPos(pos), "чанк %+v должен быть слит", pos)
	}
	assert.Equal(t, 0, p.QueueLen())
	assert.Equal(t, 0, p.InflightCount())

	dirty := w.ConsumeDirtyChunks()
	assert.NotEmpty(t, dirty, "слияние помечает чанки грязными")
	assert.Contains(t, dirty, vec.Vec2{})
}

func TestPipelineDeduplicatesRequests(t *testing.T) {
	w := NewWorld(block.DefaultDictionary())
	gen := &countingGenerator{}
	p := NewGenerationPipeline(w, gen, nil, 2, 5)

	positions := []vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 1}}

	// заваливаем конвейер повторами, пока задачи в очереди и в полете
	for i := 0; i < 10; i++ {
		p.Request(positionsSeq(positions...))
		p.Tick()
	}
	tickUntil(t, p, func() bool { return w.ChunkCount() == len(positions) })

	// и еще раз после слияния: присутствующие позиции — холостой ход
	p.Request(positionsSeq(positions...))
	p.Tick()
	assert.Equal(t, 0, p.QueueLen(), "повторный запрос готовых чанков не ставится в очередь")
	assert.Equal(t, 0, p.InflightCount())

	assert.Equal(t, int64(len(positions)*ChunkVolume), gen.calls.Load(),
		"каждый чанк сгенерирован ровно один раз")
}

func TestPipelineBoundsTasksPerTick(t *testing.T) {
	w := NewWorld(block.DefaultDictionary())
	p := NewGenerationPipeline(w, flatGenerator{}, nil, 16, 3)

	p.Request(PositionsInSquare(vec.Vec2{}, 2)) // 25 позиций
	assert.Equal(t, 25, p.QueueLen())

	p.Tick()
	assert.LessOrEqual(t, p.InflightCount(), 3, "за тик стартует не больше лимита")
	assert.GreaterOrEqual(t, p.QueueLen(), 22)

	tickUntil(t, p, func() bool { return w.ChunkCount() == 25 })
}

func TestPipelineBoundaryExposureAfterMerge(t *testing.T) {
	w := NewWorld(block.DefaultDictionary())
	p := NewGenerationPipeline(w, wallGenerator{}, nil, 1, 5)

	// сначала каменный чанк: его граничная грань x=15 закрыта, сосед
	// не загружен и не открывает ее
	p.Request(positionsSeq(vec.Vec2{}))
	tickUntil(t, p, func() bool { return w.IsChunkAtPos(vec.Vec2{}) })

	probe := vec.Vec3{X: 15, Y: 0, Z: 10}
	exposed, ok := w.BlockExposed(probe)
	require.True(t, ok)
	require.False(t, exposed, "до прихода соседа грань закрыта")

	// затем воздушный сосед: слияние пересчитывает граничные колонны
	p.Request(positionsSeq(vec.Vec2{X: 1}))
	tickUntil(t, p, func() bool { return w.IsChunkAtPos(vec.Vec2{X: 1}) })

	exposed, ok = w.BlockExposed(probe)
	require.True(t, ok)
	assert.True(t, exposed, "грань к воздушному соседу открылась после его слияния")

	// внутренние воксели каменного чанка остались закрытыми
	exposed, _ = w.BlockExposed(vec.Vec3{X: 8, Y: 8, Z: 10})
	assert.False(t, exposed)
}

func TestPipelineReleasesPositionAfterPanic(t *testing.T) {
	w := NewWorld(block.DefaultDictionary())
	p := NewGenerationPipeline(w, panicOnceGenerator{fail: &atomic.Bool{}}, nil, 1, 5)

	p.Request(positionsSeq(vec.Vec2{}))
	// первая задача падает; позиция должна вернуться в "не запрошена"
	tickUntil(t, p, func() bool { return p.InflightCount() == 0 && p.QueueLen() == 0 })
	assert.False(t, w.IsChunkAtPos(vec.Vec2{}))

	// повторный запрос той же позиции проходит
	p.Request(positionsSeq(vec.Vec2{}))
	tickUntil(t, p, func() bool { return w.IsChunkAtPos(vec.Vec2{}) })
}

// panicOnceGenerator роняет первую задачу и работает плоско дальше
type panicOnceGenerator struct {
	fail *atomic.Bool
}

func (g panicOnceGenerator) ChooseBlock(pos vec.Vec3) block.ID {
	if g.fail.CompareAndSwap(false, true) {
		panic("сбой генерации для теста")
	}
	return columnBlock(pos.Z)
}

func TestPipelineControllerUpdate(t *testing.T) {
	w := NewWorld(block.DefaultDictionary())
	p := NewGenerationPipeline(w, flatGenerator{}, nil, 2, 5)
	c := NewController(w, p, nil, 1)

	deadline := time.Now().Add(5 * time.Second)
	for w.ChunkCount() < 9 && time.Now().Before(deadline) {
		c.Update(vec.Vec2{})
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 9, w.ChunkCount(), "контроллер держит квадрат радиуса 1")

	positions := make([]vec.Vec2, 0, 9)
	for pos := range PositionsInSquare(vec.Vec2{}, 1) {
		positions = append(positions, pos)
	}
	for _, pos := range positions {
		assert.True(t, w.IsChunkAtPos(pos))
	}
	assert.True(t, slices.Contains(positions, vec.Vec2{X: -1, Y: -1}))
}
