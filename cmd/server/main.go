package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/penguinawesome1/floralcraft/internal/api"
	"github.com/penguinawesome1/floralcraft/internal/config"
	"github.com/penguinawesome1/floralcraft/internal/eventbus"
	"github.com/penguinawesome1/floralcraft/internal/logging"
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к файлу конфигурации")
	flag.Parse()

	if err := logging.InitDefaultLogger("server"); err != nil {
		os.Exit(1)
	}
	defer logging.CloseDefaultLogger()
	defer func() { _ = logging.GetLoggerManager().CloseAll() }()

	logging.Info("запуск floralcraft сервера")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error("ошибка загрузки конфигурации: %v", err)
		os.Exit(1)
	}

	dict := block.DefaultDictionary()
	if cfg.BlocksPath != "" {
		dict, err = block.LoadDictionary(cfg.BlocksPath)
		if err != nil {
			logging.Error("ошибка загрузки словаря блоков: %v", err)
			os.Exit(1)
		}
	}
	logging.Info("словарь блоков: %d типов", dict.Len())

	generator, err := world.NewGenerator(cfg.World.Generation.Params())
	if err != nil {
		logging.Error("ошибка создания генератора: %v", err)
		os.Exit(1)
	}

	world.RegisterMetrics()

	bus := eventbus.Get()
	listener := eventbus.NewLoggerListener(bus,
		eventbus.TopicChunkGenerated,
		eventbus.TopicBlockBroken,
		eventbus.TopicBlockPlaced,
	)
	defer listener.Close()

	w := world.NewWorld(dict)
	pipeline := world.NewGenerationPipeline(w, generator, bus, cfg.World.Workers, cfg.World.MaxTasksPerTick)
	controller := world.NewController(w, pipeline, bus, cfg.World.RenderDistance)

	restServer := api.NewServer(controller)
	go func() {
		if err := restServer.Run(cfg.Server.RESTPort); err != nil {
			logging.Error("REST сервер остановлен: %v", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		logging.Info("метрики Prometheus на %s/metrics", addr)
		if err := http.ListenAndServe(addr, promhttp.Handler()); err != nil {
			logging.Error("сервер метрик остановлен: %v", err)
		}
	}()

	logging.Info("мир: режим %s, зерно %d, радиус %d чанков",
		cfg.World.Generation.WorldMode, cfg.World.Generation.Seed, cfg.World.RenderDistance)

	run(controller, cfg)
	logging.Info("сервер остановлен")
}

// run крутит управляющий цикл до сигнала завершения. Точка интереса
// пока закреплена в начале координат: сервер держит сгенерированной
// область вокруг спауна, остальное догенерируется по запросам API.
func run(controller *world.Controller, cfg *config.Config) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.World.TickRateMS) * time.Millisecond)
	defer ticker.Stop()

	origin := vec.Vec2{}
	worldLog := logging.GetWorldLogger()

	for {
		select {
		case <-ticker.C:
			controller.Update(origin)
			if dirty := controller.ConsumeDirtyChunks(); len(dirty) > 0 {
				worldLog.Trace("грязных чанков за тик: %d", len(dirty))
			}
		case sig := <-stop:
			logging.Info("получен сигнал %v, завершение", sig)
			return
		}
	}
}
