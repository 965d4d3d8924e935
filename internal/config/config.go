package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/penguinawesome1/floralcraft/internal/util"
	"github.com/penguinawesome1/floralcraft/internal/world"
)

// Config — конфигурация сервера, загружается из YAML файла
type Config struct {
	Server     ServerConfig `yaml:"server"`
	World      WorldConfig  `yaml:"world"`
	BlocksPath string       `yaml:"blocks_path"`
}

// ServerConfig — сетевые настройки
type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// WorldConfig — настройки мира и конвейера генерации
type WorldConfig struct {
	Generation      WorldGeneration `yaml:"generation"`
	RenderDistance  int             `yaml:"render_distance"`
	Workers         int             `yaml:"workers"`
	MaxTasksPerTick int             `yaml:"max_tasks_per_tick"`
	TickRateMS      int             `yaml:"tick_rate_ms"`
}

// WorldGeneration — параметры генерации мира
type WorldGeneration struct {
	WorldMode            string      `yaml:"world_mode"`
	Seed                 uint32      `yaml:"seed"`
	DirtHeight           int         `yaml:"dirt_height"`
	GrassThreshold       float64     `yaml:"grass_threshold"`
	LowestSurfaceHeight  int         `yaml:"lowest_surface_height"`
	HighestSurfaceHeight int         `yaml:"highest_surface_height"`
	CaveThreshold        float64     `yaml:"cave_threshold"`
	BaseNoise            NoiseConfig `yaml:"base_noise"`
	MountainRidgeNoise   NoiseConfig `yaml:"mountain_ridge_noise"`
	CaveNoise            NoiseConfig `yaml:"cave_noise"`
}

// NoiseConfig — параметры одного поля шума
type NoiseConfig struct {
	Octaves     int     `yaml:"octaves"`
	Frequency   float64 `yaml:"frequency"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Persistence float64 `yaml:"persistence"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			RESTPort:    8088,
			MetricsPort: 2112,
		},
		World: WorldConfig{
			Generation: WorldGeneration{
				WorldMode:            world.ModeNormal,
				Seed:                 0,
				DirtHeight:           3,
				GrassThreshold:       0.5,
				LowestSurfaceHeight:  8,
				HighestSurfaceHeight: 48,
				CaveThreshold:        0.05,
				BaseNoise:            NoiseConfig{Octaves: 4, Frequency: 0.01, Lacunarity: 2.0, Persistence: 0.5},
				MountainRidgeNoise:   NoiseConfig{Octaves: 4, Frequency: 0.02, Lacunarity: 2.0, Persistence: 0.5},
				CaveNoise:            NoiseConfig{Octaves: 3, Frequency: 0.05, Lacunarity: 2.0, Persistence: 0.5},
			},
			RenderDistance:  3,
			Workers:         world.DefaultWorkers,
			MaxTasksPerTick: world.DefaultMaxTasksPerTick,
			TickRateMS:      50,
		},
		BlocksPath: "",
	}
}

// Load загружает конфигурацию из файла. Переменная окружения
// GAME_CONFIG перекрывает путь; отсутствующий файл дает конфигурацию
// по умолчанию. Порты можно перекрыть переменными REST_PORT и
// METRICS_PORT.
func Load(path string) (*Config, error) {
	if env := os.Getenv("GAME_CONFIG"); env != "" {
		path = env
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// файла нет, работаем на значениях по умолчанию
		case err != nil:
			return nil, fmt.Errorf("ошибка чтения конфигурации %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
			}
		}
	}

	cfg.Server.RESTPort = portWithEnvFallback("REST_PORT", cfg.Server.RESTPort)
	cfg.Server.MetricsPort = portWithEnvFallback("METRICS_PORT", cfg.Server.MetricsPort)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	g := c.World.Generation
	if g.HighestSurfaceHeight >= world.ChunkDepth {
		return fmt.Errorf("highest_surface_height %d выходит за высоту мира %d", g.HighestSurfaceHeight, world.ChunkDepth)
	}
	if g.LowestSurfaceHeight < 1 || g.LowestSurfaceHeight > g.HighestSurfaceHeight {
		return fmt.Errorf("полоса высот поверхности [%d, %d] некорректна", g.LowestSurfaceHeight, g.HighestSurfaceHeight)
	}
	if c.World.RenderDistance < 0 {
		return fmt.Errorf("render_distance не может быть отрицательным")
	}
	return nil
}

// Params переводит настройки генерации в параметры генератора
func (g WorldGeneration) Params() world.GenerationParams {
	return world.GenerationParams{
		Mode:                 g.WorldMode,
		Seed:                 g.Seed,
		DirtHeight:           g.DirtHeight,
		GrassThreshold:       g.GrassThreshold,
		LowestSurfaceHeight:  g.LowestSurfaceHeight,
		HighestSurfaceHeight: g.HighestSurfaceHeight,
		CaveThreshold:        g.CaveThreshold,
		BaseNoise:            g.BaseNoise.params(),
		RidgeNoise:           g.MountainRidgeNoise.params(),
		CaveNoise:            g.CaveNoise.params(),
	}
}

func (n NoiseConfig) params() util.NoiseParams {
	return util.NoiseParams{
		Octaves:     n.Octaves,
		Frequency:   n.Frequency,
		Lacunarity:  n.Lacunarity,
		Persistence: n.Persistence,
	}
}

// portWithEnvFallback возвращает порт из переменной окружения, если она
// задана и содержит корректное число
func portWithEnvFallback(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	port, err := strconv.Atoi(v)
	if err != nil || port < 1 || port > 65535 {
		return fallback
	}
	return port
}
