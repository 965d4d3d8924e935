package world

import (
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"

	"github.com/penguinawesome1/floralcraft/internal/util"
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// Режимы генерации мира
const (
	ModeFlat     = "flat"
	ModeSkyblock = "skyblock"
	ModeNormal   = "normal"
)

// Смещения зерна для раскоррелированных, но детерминированных полей
const (
	baseSeedOffset   = 0
	ridgeSeedOffset  = 1
	caveSeedOffset   = 2
	flowerSeedOffset = 3
)

// Параметры перлин-поля декораций
const (
	flowerAlpha     = 2.0
	flowerBeta      = 2.0
	flowerOctaves   = 3
	flowerFrequency = 0.1
)

// GenerationParams — параметры генерации мира. Передаются явно при
// создании генератора, глобального состояния нет.
type GenerationParams struct {
	Mode                 string
	Seed                 uint32
	DirtHeight           int
	GrassThreshold       float64
	LowestSurfaceHeight  int
	HighestSurfaceHeight int
	CaveThreshold        float64
	BaseNoise            util.NoiseParams
	RidgeNoise           util.NoiseParams
	CaveNoise            util.NoiseParams
}

// BlockGenerator выбирает тип блока для глобальной позиции. Реализации
// чистые и детерминированные при одном зерне: одна и та же позиция дает
// один и тот же блок в любом потоке и при любом повторе генерации.
type BlockGenerator interface {
	ChooseBlock(pos vec.Vec3) block.ID
}

// NewGenerator создает генератор для режима из параметров
func NewGenerator(params GenerationParams) (BlockGenerator, error) {
	switch params.Mode {
	case ModeFlat:
		return flatGenerator{}, nil
	case ModeSkyblock:
		return skyblockGenerator{}, nil
	case ModeNormal:
		return newNormalGenerator(params), nil
	default:
		return nil, fmt.Errorf("неизвестный режим генерации мира: %q", params.Mode)
	}
}

// columnBlock — общее правило плоской колонны: бедрок на дне, три слоя
// земли, трава сверху, выше воздух
func columnBlock(z int) block.ID {
	switch {
	case z == 0:
		return block.Bedrock
	case z <= 3:
		return block.Dirt
	case z == 4:
		return block.Grass
	default:
		return block.Air
	}
}

// flatGenerator — плоский мир из одинаковых колонн
type flatGenerator struct{}

func (flatGenerator) ChooseBlock(pos vec.Vec3) block.ID {
	return columnBlock(pos.Z)
}

// skyblockGenerator — плоские колонны только в одном квадранте
// стартового чанка, вокруг пустота
type skyblockGenerator struct{}

func (skyblockGenerator) ChooseBlock(pos vec.Vec3) block.ID {
	if pos.X < 0 || pos.X >= ChunkWidth ||
		pos.Y < 0 || pos.Y >= ChunkHeight ||
		(pos.X < ChunkWidth/2 && pos.Y >= ChunkHeight/2) {
		return block.Air
	}
	return columnBlock(pos.Z)
}

// normalGenerator — шумовой рельеф: высота поверхности из базового поля
// и хребтового поля с весом 0.2, пещеры из 3D поля плотности, цветы из
// перлин-поля декораций.
type normalGenerator struct {
	params  GenerationParams
	base    *util.Fbm
	ridge   *util.Ridged
	cave    *util.Fbm
	flowers *perlin.Perlin
}

func newNormalGenerator(params GenerationParams) *normalGenerator {
	seed := int64(params.Seed)
	return &normalGenerator{
		params:  params,
		base:    util.NewFbm(seed+baseSeedOffset, params.BaseNoise),
		ridge:   util.NewRidged(seed+ridgeSeedOffset, params.RidgeNoise),
		cave:    util.NewFbm(seed+caveSeedOffset, params.CaveNoise),
		flowers: perlin.NewPerlin(flowerAlpha, flowerBeta, flowerOctaves, seed+flowerSeedOffset),
	}
}

func (g *normalGenerator) ChooseBlock(pos vec.Vec3) block.ID {
	// выше верхней границы поверхности может быть только цветок,
	// остальное срезается без обращения к шуму
	if pos.Z > g.params.HighestSurfaceHeight+1 {
		return block.Air
	}
	if pos.Z == 0 {
		return block.Bedrock
	}

	x, y := float64(pos.X), float64(pos.Y)
	height := g.surfaceHeight(x, y)

	if pos.Z == height+1 {
		return g.flowerBlock(pos)
	}
	if pos.Z > height {
		return block.Air
	}

	// пещеры: узкая полоса вокруг нуля поля плотности вырезается
	if math.Abs(g.cave.Eval3(x, y, float64(pos.Z))) < g.params.CaveThreshold {
		return block.Air
	}

	switch {
	case pos.Z == height:
		return block.Grass
	case pos.Z >= height-g.params.DirtHeight:
		return block.Dirt
	default:
		return block.Stone
	}
}

// surfaceHeight нормирует сумму базового и хребтового полей из [-1, 1]
// в настроенную полосу высот поверхности
func (g *normalGenerator) surfaceHeight(x, y float64) int {
	h := g.base.Eval2(x, y) + g.ridge.Eval2(x, y)*0.2
	n := (h + 1) / 2
	if n < 0 {
		n = 0
	}
	if n > 1 {
		n = 1
	}
	band := float64(g.params.HighestSurfaceHeight - g.params.LowestSurfaceHeight)
	return g.params.LowestSurfaceHeight + int(n*band)
}

// flowerBlock решает, растет ли цветок над травой в этой точке
func (g *normalGenerator) flowerBlock(pos vec.Vec3) block.ID {
	v := g.flowers.Noise2D(float64(pos.X)*flowerFrequency, float64(pos.Y)*flowerFrequency)
	if v <= g.params.GrassThreshold {
		return block.Air
	}
	if (pos.X^pos.Y)&1 == 0 {
		return block.Rose
	}
	return block.Dandelion
}
