package world

import (
	"github.com/penguinawesome1/floralcraft/internal/eventbus"
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// Controller связывает мир, конвейер генерации и шину событий в один
// фасад для управляющего цикла и внешних потребителей (REST, рендер).
type Controller struct {
	world          *World
	pipeline       *GenerationPipeline
	bus            eventbus.Bus
	renderDistance int
}

// NewController создает контроллер мира. renderDistance — радиус
// квадрата запрашиваемых чанков вокруг точки интереса.
func NewController(w *World, pipeline *GenerationPipeline, bus eventbus.Bus, renderDistance int) *Controller {
	if renderDistance < 0 {
		renderDistance = 0
	}
	return &Controller{
		world:          w,
		pipeline:       pipeline,
		bus:            bus,
		renderDistance: renderDistance,
	}
}

// World возвращает мир контроллера
func (c *Controller) World() *World {
	return c.world
}

// Pipeline возвращает конвейер генерации контроллера
func (c *Controller) Pipeline() *GenerationPipeline {
	return c.pipeline
}

// Update выполняет один тик: запрашивает генерацию чанков вокруг точки
// интереса и продвигает конвейер
func (c *Controller) Update(origin vec.Vec2) {
	c.pipeline.Request(PositionsInSquare(origin, c.renderDistance))
	c.pipeline.Tick()
}

// BreakBlock ломает блок и публикует событие при успехе
func (c *Controller) BreakBlock(global vec.Vec3) bool {
	if !c.world.BreakBlock(global) {
		return false
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.TopicBlockBroken, global)
	}
	return true
}

// PlaceBlock ставит блок и публикует событие при успехе
func (c *Controller) PlaceBlock(global vec.Vec3, id block.ID) bool {
	if !c.world.PlaceBlock(global, id) {
		return false
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.TopicBlockPlaced, global)
	}
	return true
}

// ConsumeDirtyChunks забирает набор грязных позиций для рендера
func (c *Controller) ConsumeDirtyChunks() map[vec.Vec2]struct{} {
	return c.world.ConsumeDirtyChunks()
}
