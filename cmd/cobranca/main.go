// cmd/cobranca/main.go
package main

import (
	"log"
	"time"

	"cobranca-service/internal/api/handlers"
	"cobranca-service/internal/api/responses"
	"cobranca-service/internal/config"
	"cobranca-service/internal/core/clients"
	"cobranca-service/internal/core/export"
	"cobranca-service/internal/core/importer"
	"cobranca-service/internal/core/promises"
	"cobranca-service/internal/core/workspace"
	"cobranca-service/internal/logging"
	"cobranca-service/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func openStore(cfg config.Config) (storage.KV, error) {
	if cfg.Store == config.StoreSQLite {
		return storage.OpenSQLiteKV(cfg.StorePath())
	}
	return storage.NewFileKV(cfg.StorePath())
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("Configuração inválida: ", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("Falha ao criar logger: ", err)
	}
	defer logger.Sync()
	responses.InitLogger(logger)

	kv, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Falha ao abrir armazenamento", zap.String("store", cfg.Store), zap.String("path", cfg.StorePath()), zap.Error(err))
	}
	defer kv.Close()

	clientStore := clients.NewStore(storage.NewJSONRepository(kv, clients.RepositoryKey, clients.Empty, logger), logger)
	promiseStore := promises.NewStore(storage.NewJSONRepository(kv, promises.RepositoryKey, promises.Empty, logger), logger)
	importService := importer.NewService(logger, importer.WithFuzzyHeaders(cfg.FuzzyHeaders))

	ws := workspace.New(clientStore, promiseStore, importService, logger)
	handler := handlers.NewHandler(ws, handlers.Options{
		Location: cfg.Location,
		CSV:      export.CSVOptions{Delimiter: cfg.CSVDelimiter, BOM: cfg.CSVBOM},
		Now:      time.Now,
		Logger:   logger,
	})

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	handler.Register(apiV1)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "cobranca-service"})
	})

	logger.Info("Cobrança Service iniciado",
		zap.String("port", cfg.Port),
		zap.String("store", cfg.Store),
		zap.String("data_dir", cfg.DataDir),
		zap.Int("manual_clients", clientStore.Len()),
	)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Falha ao iniciar o servidor de cobrança", zap.Error(err))
	}
}
