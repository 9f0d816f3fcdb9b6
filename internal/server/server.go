package server

import (
	"bmpsteg/internal/logging"
	"bmpsteg/pkg/config"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "bmpsteg/docs"
)

const (
	RFC3339Millis = "2006-01-02T15:04:05.000Z07:00"

	shutdownTimeout = 10 * time.Second
)

// StartServer godoc
// @title bmpsteg API
// @version 1.0
// @description An API to hide files inside 24-bit BMP images and recover them
// @BasePath /api/v1
func StartServer(ctx context.Context, conf config.ServerConfig, stegoConf config.StegoConfig, logger *logging.Logger) error {
	conf.PopulateUnsetConfigVars()
	if logger != nil {
		logger.SetAsDefault()
	}

	router, err := NewRouter(conf, stegoConf)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", conf.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func NewRouter(conf config.ServerConfig, stegoConf config.StegoConfig) (*gin.Engine, error) {
	stegoConf.PopulateUnsetConfigVars()
	handlers := &bitmapHandlers{conf: stegoConf}

	r := gin.New()
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{Formatter: logFormatter}), gin.Recovery())
	if len(conf.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = conf.AllowedOrigins
		corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
		if err := corsConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid allowed origins: %w", err)
		}
		r.Use(cors.New(corsConfig))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/encode/bmp", handlers.EncodeBMPHandler)
	v1.POST("/decode/bmp", handlers.DecodeBMPHandler)

	return r, nil
}

type accessLogEntry struct {
	Timestamp       string `json:"timestamp"`
	StatusCode      int    `json:"status_code"`
	Latency         string `json:"latency"`
	LatencyRaw      int64  `json:"latency_raw"`
	ResponseSize    string `json:"response_size"`
	ResponseSizeRaw int    `json:"response_size_raw"`
	ClientIP        string `json:"client_ip"`
	Method          string `json:"method"`
	Path            string `json:"path"`
	Error           string `json:"error"`
}

func logFormatter(param gin.LogFormatterParams) string {
	if param.Latency > time.Minute {
		param.Latency = param.Latency.Truncate(time.Second)
	}

	bodySize := param.BodySize
	if bodySize < 0 {
		bodySize = 0
	}

	entry, err := json.Marshal(accessLogEntry{
		Timestamp:       param.TimeStamp.Format(RFC3339Millis),
		StatusCode:      param.StatusCode,
		Latency:         param.Latency.String(),
		LatencyRaw:      int64(param.Latency),
		ResponseSize:    humanize.Bytes(uint64(bodySize)),
		ResponseSizeRaw: param.BodySize,
		ClientIP:        param.ClientIP,
		Method:          param.Method,
		Path:            param.Path,
		Error:           param.ErrorMessage,
	})
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}\n", err.Error())
	}
	return string(entry) + "\n"
}
