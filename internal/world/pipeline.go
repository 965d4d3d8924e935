package world

import (
	"iter"
	"sync"
	"time"

	"github.com/penguinawesome1/floralcraft/internal/eventbus"
	"github.com/penguinawesome1/floralcraft/internal/logging"
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// DefaultMaxTasksPerTick ограничивает и прием новых задач, и слияние
// готовых чанков за один тик: скачок точки интереса (телепорт) не
// должен порождать лавину работы разом.
const DefaultMaxTasksPerTick = 5

// DefaultWorkers — размер пула фоновых воркеров генерации
const DefaultWorkers = 4

// ChunkGeneratedEvent — полезная нагрузка события о слитом чанке
type ChunkGeneratedEvent struct {
	Pos     vec.Vec2
	Elapsed time.Duration
}

type generationResult struct {
	pos     vec.Vec2
	chunk   *Chunk
	elapsed time.Duration
}

// GenerationPipeline планирует асинхронную генерацию чанков: по одной
// задаче на отсутствующую позицию, с дедупликацией повторных запросов и
// ограничением работы за тик.
//
// Жизненный цикл позиции: не запрошена → в очереди → в полете →
// (слита | отброшена). Позиция присутствует максимум в одном из
// {мир, очередь, полет}; упавшая задача возвращает позицию в
// "не запрошена", и ее можно запросить снова.
type GenerationPipeline struct {
	world  *World
	gen    BlockGenerator
	bus    eventbus.Bus
	logger *logging.Logger

	mu       sync.Mutex
	queue    []vec.Vec2
	queued   map[vec.Vec2]struct{}
	inflight map[vec.Vec2]struct{}

	results    chan generationResult
	sem        chan struct{}
	maxPerTick int
}

// NewGenerationPipeline создает конвейер над миром и генератором.
// workers и maxPerTick меньше 1 заменяются значениями по умолчанию;
// шина событий может быть nil.
func NewGenerationPipeline(w *World, gen BlockGenerator, bus eventbus.Bus, workers, maxPerTick int) *GenerationPipeline {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if maxPerTick < 1 {
		maxPerTick = DefaultMaxTasksPerTick
	}
	return &GenerationPipeline{
		world:      w,
		gen:        gen,
		bus:        bus,
		logger:     logging.GetGenerationLogger(),
		queued:     make(map[vec.Vec2]struct{}),
		inflight:   make(map[vec.Vec2]struct{}),
		results:    make(chan generationResult, workers+maxPerTick),
		sem:        make(chan struct{}, workers),
		maxPerTick: maxPerTick,
	}
}

// Request ставит в очередь позиции, которых еще нет ни в мире, ни в
// очереди, ни в полете. Повторные запросы — штатный холостой ход.
func (p *GenerationPipeline) Request(positions iter.Seq[vec.Vec2]) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for pos := range positions {
		if p.world.IsChunkAtPos(pos) {
			continue
		}
		if _, ok := p.queued[pos]; ok {
			continue
		}
		if _, ok := p.inflight[pos]; ok {
			continue
		}
		p.queued[pos] = struct{}{}
		p.queue = append(p.queue, pos)
	}
}

// Tick выполняет один шаг конвейера на управляющем потоке: запускает до
// maxPerTick новых задач (пока есть свободные воркеры) и сливает до
// maxPerTick готовых чанков. Никогда не блокируется.
func (p *GenerationPipeline) Tick() {
	p.startTasks()
	p.drainResults()
}

func (p *GenerationPipeline) startTasks() {
	p.mu.Lock()
	defer p.mu.Unlock()

	started := 0
	for started < p.maxPerTick && len(p.queue) > 0 {
		select {
		case p.sem <- struct{}{}:
		default:
			return
		}

		pos := p.queue[0]
		p.queue = p.queue[1:]
		delete(p.queued, pos)
		p.inflight[pos] = struct{}{}
		chunksInflightGauge.Set(float64(len(p.inflight)))
		started++

		go p.generate(pos)
	}
}

func (p *GenerationPipeline) drainResults() {
	for merged := 0; merged < p.maxPerTick; merged++ {
		select {
		case res := <-p.results:
			p.merge(res)
		default:
			return
		}
	}
}

// generate — тело задачи воркера: чистая CPU-работа без I/O. Паника
// логируется, позиция освобождается и остается доступной для повторного
// запроса.
func (p *GenerationPipeline) generate(pos vec.Vec2) {
	defer func() {
		<-p.sem
		if r := recover(); r != nil {
			p.logger.Error("паника при генерации чанка %v: %v", pos, r)
			generationFailuresTotal.Inc()
			p.release(pos)
		}
	}()

	start := time.Now()
	chunk := p.buildChunk(pos)
	p.results <- generationResult{pos: pos, chunk: chunk, elapsed: time.Since(start)}
}

// buildChunk строит чанк в два прохода: сначала все блоки, затем
// открытость по локальным соседям. Второй проход зависит от полного
// завершения первого: открытость читает соседей, заполняемых позже по
// порядку обхода.
func (p *GenerationPipeline) buildChunk(pos vec.Vec2) *Chunk {
	c := NewChunk(pos)
	origin := ChunkToBlockPos(pos)
	dict := p.world.Dictionary()

	for local := range ChunkCoords() {
		c.SetBlock(local, p.gen.ChooseBlock(origin.Add(local)))
	}
	for local := range ChunkCoords() {
		c.SetExposed(local, chunkLocalExposed(c, local, dict))
	}
	return c
}

// chunkLocalExposed — правило открытости по соседям внутри одного
// чанка: соседи за горизонтальной границей считаются отсутствующими,
// их досчитывает RecomputeBoundaryExposure после слияния.
func chunkLocalExposed(c *Chunk, pos vec.Vec3, dict *block.Dictionary) bool {
	id, _ := c.Block(pos)
	if !dict.Definition(id).Visible {
		return false
	}
	for _, n := range c.BlockOffsets(pos) {
		nid, ok := c.Block(n)
		if !ok {
			continue
		}
		def := dict.Definition(nid)
		if def.Transparent || !def.Visible {
			return true
		}
	}
	return false
}

// merge сливает готовый чанк в мир на управляющем потоке
func (p *GenerationPipeline) merge(res generationResult) {
	p.release(res.pos)

	if err := p.world.AddChunk(res.chunk); err != nil {
		// гонка двух задач за одну позицию, поздний результат отбрасывается
		p.logger.Debug("чанк %v уже в мире, результат отброшен", res.pos)
		duplicateMergesTotal.Inc()
		return
	}

	p.world.RecomputeBoundaryExposure(res.pos)
	p.world.MarkChunksDirtyWithAdj(res.pos)

	chunksGeneratedTotal.Inc()
	chunkGenerationSeconds.Observe(res.elapsed.Seconds())

	if p.bus != nil {
		p.bus.Publish(eventbus.TopicChunkGenerated, ChunkGeneratedEvent{
			Pos:     res.pos,
			Elapsed: res.elapsed,
		})
	}
}

// release убирает позицию из полета
func (p *GenerationPipeline) release(pos vec.Vec2) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inflight, pos)
	chunksInflightGauge.Set(float64(len(p.inflight)))
}

// QueueLen возвращает длину очереди на генерацию
func (p *GenerationPipeline) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// InflightCount возвращает количество задач в полете
func (p *GenerationPipeline) InflightCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}
