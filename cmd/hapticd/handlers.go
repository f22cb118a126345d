package main

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lofelt/NiceVibrations/datamodel"
	"github.com/Lofelt/NiceVibrations/internal/config"
	"github.com/Lofelt/NiceVibrations/internal/telemetry"
	"github.com/Lofelt/NiceVibrations/pattern"
	"github.com/Lofelt/NiceVibrations/player"
)

func registerRoutes(router *gin.Engine, cfg *config.Config, reporter telemetry.Reporter) {
	router.GET("/health", healthCheck)
	router.POST("/clips", loadClip(reporter))
	router.POST("/clips/pattern", exportPattern(cfg, reporter))
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loadClip parses the request body as a clip and reports its duration and
// version support, without keeping the clip loaded past the request.
func loadClip(reporter telemetry.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctrl := player.NewNullController()
		defer ctrl.Close()

		support, err := ctrl.Load(data)
		if err != nil {
			reporter.CallbackFailure("load_clip", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"duration_seconds": ctrl.GetClipDuration(),
			"version_support":  support.String(),
			"session_id":       ctrl.SessionID(),
		})
	}
}

// exportPattern parses the request body as a clip and returns its
// exported platform pattern, split into continuous and transient halves
// unless ?split=false is given.
func exportPattern(cfg *config.Config, reporter telemetry.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := datamodel.Load(data)
		if err != nil {
			reporter.CallbackFailure("export_pattern", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		params := pattern.DefaultExportParams()
		params.MaxCurvePoints = cfg.ExportMaxCurvePoints
		params.DuckingFactor = float32(cfg.ExportDuckingFactor)

		if c.Query("split") == "false" {
			c.JSON(http.StatusOK, pattern.Export(result.Clip, params))
			return
		}

		combined, continuousOnly, transientsOnly := pattern.ExportAll(result.Clip, params)
		c.JSON(http.StatusOK, gin.H{
			"combined":   combined,
			"continuous": continuousOnly,
			"transients": transientsOnly,
		})
	}
}
