package v1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /status)
	GetStatus(c *gin.Context)
	// (GET /jobs)
	GetJobs(c *gin.Context)
	// (POST /jobs/{id}/notify)
	NotifyJob(c *gin.Context, id int)
	// (POST /shutdown)
	Shutdown(c *gin.Context, params ShutdownParams)
	// (GET /runs)
	GetRuns(c *gin.Context, params GetRunsParams)
	// (GET /runs/export)
	ExportRuns(c *gin.Context, params GetRunsParams)
}

type wrapper struct {
	handler ServerInterface
}

// RegisterHandlers adds the routes of si to router, parsing path and query
// parameters before calling it.
func RegisterHandlers(router gin.IRoutes, si ServerInterface) {
	w := &wrapper{handler: si}

	router.GET("/status", w.handler.GetStatus)
	router.GET("/jobs", w.handler.GetJobs)
	router.POST("/jobs/:id/notify", w.NotifyJob)
	router.POST("/shutdown", w.Shutdown)
	router.GET("/runs", w.GetRuns)
	router.GET("/runs/export", w.ExportRuns)
}

func (w *wrapper) NotifyJob(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid format for parameter id: %v", err)
		return
	}
	w.handler.NotifyJob(c, id)
}

func (w *wrapper) Shutdown(c *gin.Context) {
	var params ShutdownParams
	if v, ok := c.GetQuery("timeout"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			badRequest(c, "invalid format for parameter timeout: %q", v)
			return
		}
		params.Timeout = &d
	}
	w.handler.Shutdown(c, params)
}

func (w *wrapper) GetRuns(c *gin.Context) {
	params, ok := parseRunsParams(c)
	if !ok {
		return
	}
	w.handler.GetRuns(c, params)
}

func (w *wrapper) ExportRuns(c *gin.Context) {
	params, ok := parseRunsParams(c)
	if !ok {
		return
	}
	w.handler.ExportRuns(c, params)
}

func parseRunsParams(c *gin.Context) (GetRunsParams, bool) {
	var params GetRunsParams

	if jobs, ok := c.GetQueryArray("job"); ok {
		params.Job = &jobs
	}
	if result, ok := c.GetQuery("result"); ok {
		params.Result = &result
	}
	for name, dst := range map[string]**int{"page": &params.Page, "pageSize": &params.PageSize} {
		v, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, "invalid format for parameter %s: %v", name, err)
			return params, false
		}
		*dst = &n
	}

	return params, true
}

func badRequest(c *gin.Context, format string, args ...any) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(format, args...)})
}
