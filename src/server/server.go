// Package server binds the HTTP surface of the gateway: one route per
// document operation, JSON in, JSON out.
package server

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docgate/src/gateway"
	"docgate/src/settings"
)

// Server owns the HTTP listener and the gin engine for the process
// lifetime.
type Server struct {
	settings *settings.Settings
	logger   *zap.SugaredLogger
	engine   *gin.Engine
	http     *http.Server
}

// InitServer wires the document routes onto a fresh gin engine. The
// engine runs in release mode; panics inside handlers are recovered and
// answered with a 500 rather than tearing the process down.
func InitServer(s *settings.Settings, logger *zap.SugaredLogger, service *gateway.DocumentService) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	registerRoutes(engine, NewDocumentHandler(service, logger))

	return &Server{
		settings: s,
		logger:   logger,
		engine:   engine,
		http: &http.Server{
			Addr:    s.BindAddress,
			Handler: engine,
		},
	}
}

func registerRoutes(engine *gin.Engine, handler *DocumentHandler) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	api.GET("/collections", handler.ListCollections)

	documents := api.Group("/documents")
	documents.POST("/insert-one", handler.InsertOne)
	documents.POST("/insert-many", handler.InsertMany)
	documents.POST("/find-one", handler.FindOne)
	documents.POST("/find-many", handler.FindMany)
	documents.POST("/update-one", handler.UpdateOne)
	documents.POST("/update-many", handler.UpdateMany)
	documents.POST("/replace-one", handler.ReplaceOne)
	documents.POST("/delete-one", handler.DeleteOne)
	documents.POST("/delete-many", handler.DeleteMany)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start binds the configured address and begins serving in the
// background. A failed bind is reported synchronously; failures of the
// serve loop after that are only logged.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.settings.BindAddress)
	if err != nil {
		return err
	}
	s.logger.Infow("gateway listening", "address", s.settings.BindAddress)

	go func() {
		if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Errorw("http server terminated", "error", err)
		}
	}()
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Infow("stopping gateway")
	return s.http.Shutdown(ctx)
}
