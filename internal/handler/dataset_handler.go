package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-insight-api/internal/service"
	appErrors "github.com/noah-isme/lms-insight-api/pkg/errors"
	"github.com/noah-isme/lms-insight-api/pkg/response"
)

// DatasetHandler exposes the dataset pipeline over HTTP.
type DatasetHandler struct {
	datasets *service.DatasetService
	exports  *service.ExportService
}

// NewDatasetHandler constructs a dataset handler.
func NewDatasetHandler(datasets *service.DatasetService, exports *service.ExportService) *DatasetHandler {
	return &DatasetHandler{datasets: datasets, exports: exports}
}

// Build godoc
// @Summary Build late-submission dataset
// @Description Builds the training or prediction dataset for the requested scope
// @Tags Datasets
// @Produce json
// @Param course_id query int false "Restrict to one course (0 or absent builds site-wide)"
// @Param mode query string false "training or prediction" default(training)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /datasets/late-submission [get]
func (h *DatasetHandler) Build(c *gin.Context) {
	var req service.BuildDatasetRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid dataset query"))
		return
	}

	dataset, cached, err := h.datasets.Build(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dataset, map[string]interface{}{"cached": cached})
}

// ExportRequest scopes one dataset export.
type ExportRequest struct {
	CourseID int64  `json:"course_id"`
	Mode     string `json:"mode"`
	Format   string `json:"format"`
}

// Export godoc
// @Summary Export late-submission dataset
// @Description Builds the dataset, renders it to CSV or PDF and returns a signed download token
// @Tags Datasets
// @Accept json
// @Produce json
// @Param payload body handler.ExportRequest true "Export payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /datasets/late-submission/exports [post]
func (h *DatasetHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}

	dataset, _, err := h.datasets.Build(c.Request.Context(), service.BuildDatasetRequest{CourseID: req.CourseID, Mode: req.Mode})
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exports.Generate(dataset, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, result, map[string]interface{}{
		"download_url": "/downloads/" + result.Token,
	})
}

// Eligibility godoc
// @Summary Check activity eligibility
// @Description Reports whether one assignment could contribute samples, with the rejection reason when it cannot
// @Tags Datasets
// @Produce json
// @Param id path int true "Assignment id"
// @Param mode query string false "training or prediction" default(training)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id}/eligibility [get]
func (h *DatasetHandler) Eligibility(c *gin.Context) {
	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assignmentID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment id"))
		return
	}

	mode := c.DefaultQuery("mode", service.ModeTraining)
	if mode != service.ModeTraining && mode != service.ModePrediction {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "mode must be training or prediction"))
		return
	}

	activity, accepted, reason, err := h.datasets.ActivityEligibility(c.Request.Context(), assignmentID, mode == service.ModeTraining)
	if err != nil {
		response.Error(c, err)
		return
	}

	payload := gin.H{
		"activity_id": activity.Assignment.ID,
		"course_id":   activity.Course.ID,
		"mode":        mode,
		"eligible":    accepted,
	}
	if !accepted {
		payload["reason"] = reason
	}
	response.JSON(c, http.StatusOK, payload)
}

// Download godoc
// @Summary Download a dataset export
// @Description Streams a previously exported file referenced by a signed token
// @Tags Datasets
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *DatasetHandler) Download(c *gin.Context) {
	token := c.Param("token")
	file, filename, err := h.exports.Open(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}
