package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/penguinawesome1/floralcraft/internal/logging"
	"github.com/penguinawesome1/floralcraft/internal/middleware"
	"github.com/penguinawesome1/floralcraft/internal/vec"
	"github.com/penguinawesome1/floralcraft/internal/world"
	"github.com/penguinawesome1/floralcraft/internal/world/block"
)

// Server — REST фасад над контроллером мира: здоровье, статистика,
// чтение блоков и правки (слом/установка).
type Server struct {
	controller *world.Controller
	logger     *logging.Logger
	engine     *gin.Engine
}

// NewServer создает REST сервер над контроллером мира
func NewServer(controller *world.Controller) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		controller: controller,
		logger:     logging.GetComponentLogger("api"),
		engine:     gin.New(),
	}
	s.engine.Use(gin.Recovery(), middleware.PrometheusMiddleware())
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	middleware.RegisterMetricsEndpoint(s.engine)

	api := s.engine.Group("/api/world")
	api.GET("/stats", s.handleStats)
	api.GET("/block/:x/:y/:z", s.handleBlock)
	api.POST("/block/break", s.handleBreak)
	api.POST("/block/place", s.handlePlace)
}

// Run запускает HTTP сервер (блокирующий вызов)
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("REST API слушает на %s", addr)
	return s.engine.Run(addr)
}

// Engine возвращает роутер (для тестов)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	w := s.controller.World()
	c.JSON(http.StatusOK, gin.H{
		"chunks":   w.ChunkCount(),
		"dirty":    w.DirtyCount(),
		"queued":   s.controller.Pipeline().QueueLen(),
		"inflight": s.controller.Pipeline().InflightCount(),
	})
}

func (s *Server) handleBlock(c *gin.Context) {
	pos, err := parsePosition(c.Param("x"), c.Param("y"), c.Param("z"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	w := s.controller.World()
	id, ok := w.Block(pos)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "чанк не загружен"})
		return
	}
	exposed, _ := w.BlockExposed(pos)
	c.JSON(http.StatusOK, gin.H{
		"id":      id,
		"name":    w.Dictionary().Definition(id).Name,
		"exposed": exposed,
	})
}

type blockEditRequest struct {
	X  int      `json:"x"`
	Y  int      `json:"y"`
	Z  int      `json:"z"`
	ID block.ID `json:"id"`
}

func (s *Server) handleBreak(c *gin.Context) {
	var req blockEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pos := vec.Vec3{X: req.X, Y: req.Y, Z: req.Z}
	if !s.controller.BreakBlock(pos) {
		c.JSON(http.StatusConflict, gin.H{"error": "блок нельзя сломать"})
		return
	}
	s.logger.Debug("сломан блок %+v", pos)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePlace(c *gin.Context) {
	var req blockEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pos := vec.Vec3{X: req.X, Y: req.Y, Z: req.Z}
	if !s.controller.PlaceBlock(pos, req.ID) {
		c.JSON(http.StatusConflict, gin.H{"error": "блок нельзя поставить"})
		return
	}
	s.logger.Debug("поставлен блок %d в %+v", req.ID, pos)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parsePosition(xs, ys, zs string) (vec.Vec3, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return vec.Vec3{}, fmt.Errorf("некорректная координата x: %q", xs)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return vec.Vec3{}, fmt.Errorf("некорректная координата y: %q", ys)
	}
	z, err := strconv.Atoi(zs)
	if err != nil {
		return vec.Vec3{}, fmt.Errorf("некорректная координата z: %q", zs)
	}
	return vec.Vec3{X: x, Y: y, Z: z}, nil
}
