package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penguinawesome1/floralcraft/internal/util"
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

func normalParams(seed uint32) GenerationParams {
	noise := util.NoiseParams{Octaves: 3, Frequency: 0.05, Lacunarity: 2.0, Persistence: 0.5}
	return GenerationParams{
		Mode:                 ModeNormal,
		Seed:                 seed,
		DirtHeight:           3,
		GrassThreshold:       0.5,
		LowestSurfaceHeight:  8,
		HighestSurfaceHeight: 40,
		CaveThreshold:        0.05,
		BaseNoise:            noise,
		RidgeNoise:           noise,
		CaveNoise:            noise,
	}
}

func TestNewGeneratorUnknownMode(t *testing.T) {
	_, err := NewGenerator(GenerationParams{Mode: "volcano"})
	assert.Error(t, err, "неизвестный режим должен отклоняться")
}

func TestFlatGeneratorColumns(t *testing.T) {
	g, err := NewGenerator(GenerationParams{Mode: ModeFlat})
	require.NoError(t, err)

	cases := map[int]block.ID{
		0:  block.Bedrock,
		1:  block.Dirt,
		2:  block.Dirt,
		3:  block.Dirt,
		4:  block.Grass,
		5:  block.Air,
		63: block.Air,
	}
	for z, want := range cases {
		assert.Equal(t, want, g.ChooseBlock(vec.Vec3{X: 100, Y: -50, Z: z}),
			"плоская колонна одинакова в любой точке, z=%d", z)
	}
}

func TestSkyblockGeneratorQuadrant(t *testing.T) {
	g, err := NewGenerator(GenerationParams{Mode: ModeSkyblock})
	require.NoError(t, err)

	assert.Equal(t, block.Grass, g.ChooseBlock(vec.Vec3{X: 12, Y: 4, Z: 4}),
		"внутри острова обычная колонна")
	assert.Equal(t, block.Bedrock, g.ChooseBlock(vec.Vec3{X: 4, Y: 4, Z: 0}))

	for _, pos := range []vec.Vec3{
		{X: 4, Y: 12, Z: 4},  // вырезанный квадрант
		{X: -1, Y: 4, Z: 4},  // за пределами стартового чанка
		{X: 20, Y: 4, Z: 4},
		{X: 4, Y: -1, Z: 0},
	} {
		assert.Equal(t, block.Air, g.ChooseBlock(pos), "вне острова пустота: %+v", pos)
	}
}

func TestNormalGeneratorDeterministic(t *testing.T) {
	g1, err := NewGenerator(normalParams(42))
	require.NoError(t, err)
	g2, err := NewGenerator(normalParams(42))
	require.NoError(t, err)

	for x := -8; x < 8; x += 3 {
		for y := -8; y < 8; y += 3 {
			for z := 0; z < ChunkDepth; z += 7 {
				pos := vec.Vec3{X: x, Y: y, Z: z}
				assert.Equal(t, g1.ChooseBlock(pos), g2.ChooseBlock(pos),
					"одно зерно — один мир, %+v", pos)
			}
		}
	}
}

func TestNormalGeneratorInvariants(t *testing.T) {
	g, err := NewGenerator(normalParams(7))
	require.NoError(t, err)
	params := normalParams(7)

	known := map[block.ID]struct{}{
		block.Air: {}, block.Grass: {}, block.Dirt: {}, block.Stone: {},
		block.Bedrock: {}, block.Rose: {}, block.Dandelion: {},
	}

	for x := -16; x < 16; x += 5 {
		for y := -16; y < 16; y += 5 {
			require.Equal(t, block.Bedrock, g.ChooseBlock(vec.Vec3{X: x, Y: y, Z: 0}),
				"дно мира всегда бедрок")

			for z := 1; z < ChunkDepth; z++ {
				id := g.ChooseBlock(vec.Vec3{X: x, Y: y, Z: z})
				_, ok := known[id]
				require.True(t, ok, "генератор выдал неизвестный блок %d", id)

				if z > params.HighestSurfaceHeight+1 {
					require.Equal(t, block.Air, id,
						"выше полосы поверхности только воздух, z=%d", z)
				}
			}
		}
	}
}
