package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fileapi/internal/jobs"
	"fileapi/internal/respond"
	"fileapi/internal/tempfile"
)

type APIHandler struct {
	Publisher *tempfile.Publisher
	Runner    *jobs.Runner

	// Works names the units of work clients may start as jobs.
	Works map[string]jobs.Work
}

type StartJobRequest struct {
	Name string `json:"name" binding:"required"`
}

type ExportRequest struct {
	Path           string `json:"path" binding:"required"`
	AttachmentName string `json:"attachment_name"`
}

func RegisterHandlers(r *gin.Engine, h *APIHandler) {
	r.Use(Completion())
	r.Use(respond.Recovery())

	r.POST("/jobs", h.startJob)
	r.GET("/jobs/:id", h.pollJob)

	r.POST("/exports", h.createExport)
	r.GET("/static/downloads/:filename", h.serveDownload)
}

func (h *APIHandler) startJob(c *gin.Context) {
	var req StartJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.NewError("invalid request body").Render(c)
		return
	}

	work, ok := h.Works[req.Name]
	if !ok {
		respond.NewError("unknown job: " + req.Name).Render(c)
		return
	}

	job := h.Runner.Create(work)
	id := job.Start()
	respond.New(gin.H{"job_id": id}, http.StatusAccepted).Render(c)
}

// pollJob serves a job's persisted result verbatim. Until the result
// file appears the job counts as pending, including jobs that will
// never write one.
func (h *APIHandler) pollJob(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.NewErrorWithStatus("job not found", http.StatusNotFound).Render(c)
		return
	}

	body, err := os.ReadFile(h.Runner.ResultPath(id))
	if err != nil {
		respond.NewErrorWithStatus("job pending", http.StatusNotFound).Render(c)
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

func (h *APIHandler) createExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.NewError("invalid request body").Render(c)
		return
	}

	desc, cleanup, err := h.Publisher.Publish(req.Path, req.AttachmentName)
	if err != nil {
		if errors.Is(err, tempfile.ErrNotAFile) {
			respond.NewError(err.Error()).Render(c)
			return
		}
		respond.NewErrorWithStatus(err.Error(), http.StatusInternalServerError).Render(c)
		return
	}

	OnComplete(c, func() { cleanup() })
	respond.New(desc, http.StatusOK).Render(c)
}

func (h *APIHandler) serveDownload(c *gin.Context) {
	filename := c.Param("filename")

	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		respond.NewError("invalid filename").Render(c)
		return
	}

	staged := filepath.Join(h.Publisher.StagingDir, filename)
	if info, err := os.Stat(staged); err != nil || !info.Mode().IsRegular() {
		respond.NewErrorWithStatus("file not found", http.StatusNotFound).Render(c)
		return
	}
	c.File(staged)
}
