package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/anime-shed/spectral-inspector-go/internal/config"
	apperrors "github.com/anime-shed/spectral-inspector-go/internal/errors"
	"github.com/anime-shed/spectral-inspector-go/internal/logger"
	"github.com/anime-shed/spectral-inspector-go/internal/observer"
	"github.com/anime-shed/spectral-inspector-go/internal/service"
	"github.com/anime-shed/spectral-inspector-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultListLimit = 50

func NewHandler(svc service.SpectralAnalysisService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/metrics", metricsSnapshot(metrics))
	r.POST("/analyze", analyzeImage(svc, cfg))
	r.POST("/observations", processObservation(svc, cfg))
	r.GET("/observations/:id", getObservation(svc))
	r.GET("/devices/:id/observations", listDeviceObservations(svc))
	r.GET("/reference-lines", referenceLines(svc))

	return r
}

func analyzeImage(svc service.SpectralAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		result, err := svc.Analyze(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "spectral analysis failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"peak_count": result.PeakCount,
			"quality":    result.Quality,
		}).Info("Spectral analysis completed successfully")

		c.JSON(http.StatusOK, result)
	}
}

func processObservation(svc service.SpectralAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.ProcessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		resp, err := svc.Process(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "failed to process observation", err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func getObservation(svc service.SpectralAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		obs, err := svc.GetObservation(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, determineStatusCode(err), "failed to load observation", err)
			return
		}
		c.JSON(http.StatusOK, obs)
	}
}

func listDeviceObservations(svc service.SpectralAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultListLimit
		if q := c.Query("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n <= 0 {
				respondError(c, http.StatusBadRequest, "invalid limit",
					apperrors.NewValidationError("limit must be a positive integer", err))
				return
			}
			limit = n
		}

		list, err := svc.ListDeviceObservations(c.Request.Context(), c.Param("id"), limit)
		if err != nil {
			respondError(c, determineStatusCode(err), "failed to list observations", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"deviceId":     c.Param("id"),
			"observations": list,
		})
	}
}

func referenceLines(svc service.SpectralAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if name := c.Query("element"); name != "" {
			line, exact, ok := svc.LookupReferenceLine(name)
			if !ok {
				respondError(c, http.StatusNotFound, "unknown element",
					apperrors.NewNotFoundError(fmt.Sprintf("no reference line named %q", name), nil))
				return
			}
			c.JSON(http.StatusOK, models.ReferenceLineResponse{
				Element:      line.Element,
				WavelengthNm: line.WavelengthNm,
				Exact:        &exact,
			})
			return
		}

		lines := svc.ReferenceLines()
		out := make([]models.ReferenceLineResponse, len(lines))
		for i, l := range lines {
			out[i] = models.ReferenceLineResponse{Element: l.Element, WavelengthNm: l.WavelengthNm}
		}
		c.JSON(http.StatusOK, out)
	}
}

func metricsSnapshot(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, metrics.GetMetrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}).Debug("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	entry := logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
