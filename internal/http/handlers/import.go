package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/services"
)

type ImportHandler struct {
	imports   services.ImportService
	jobs      services.JobService
	uploadDir string
	log       *logger.Logger
}

func NewImportHandler(imports services.ImportService, jobs services.JobService, uploadDir string, baseLog *logger.Logger) *ImportHandler {
	return &ImportHandler{
		imports:   imports,
		jobs:      jobs,
		uploadDir: uploadDir,
		log:       baseLog.With("handler", "ImportHandler"),
	}
}

// POST /api/import/sourcing-data
// Accepts an XLSX upload and starts the import asynchronously. The response
// carries the job id to poll or stream progress for.
func (h *ImportHandler) UploadSourcingData(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_file", fmt.Errorf("a file is required: %w", err))
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") {
		response.RespondError(c, http.StatusBadRequest, "unsupported_file_type",
			fmt.Errorf("only .xlsx files are supported, got %s", file.Filename))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}
	groupID := uuid.New()
	filePath := filepath.Join(h.uploadDir, groupID.String()+".xlsx")
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	job, err := h.jobs.StartJob(dbc, groupID, types.JobSourcingDataImport)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "job_creation_failed", err)
		return
	}

	// The request returns immediately; progress flows through the job
	// event and the SSE channel named after the job id.
	go func() {
		if err := h.imports.LoadXLSXDataSet(context.Background(), job.ID, filePath); err != nil {
			h.log.Warn("sourcing data import failed", "jobID", job.ID, "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

// GET /api/jobs/:id
func (h *ImportHandler) GetJob(c *gin.Context) {
	jobID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}

	job, err := h.jobs.GetJob(dbctx.Context{Ctx: c.Request.Context()}, jobID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, job)
}
