package http

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/labellens/backend/internal/domain"
	"github.com/labellens/backend/internal/logger"
	"github.com/labellens/backend/internal/usecase"
)

const (
	serviceName = "labellens-backend"
	// Version is reported by the health endpoint
	Version = "1.0.0"

	defaultMaxUploadBytes = 10 << 20
)

var (
	errNoFilePart     = errors.New("No file part")
	errNoSelectedFile = errors.New("No selected file")
	errUploadTooLarge = errors.New("uploaded file is too large")
)

// Classifier is the classification use case as seen by the handlers
type Classifier interface {
	ClassifyImage(ctx context.Context, image io.Reader) (*domain.Report, error)
	ClassifyText(ctx context.Context, text string) (*domain.Report, error)
	RenderChart(tally domain.Tally) ([]byte, string, error)
	HasOCR() bool
}

// DatasetManager exposes the loaded dataset and reloads it on demand
type DatasetManager interface {
	Current() *domain.Dataset
	Reload(ctx context.Context) (*domain.Dataset, error)
}

// HandlerConfig holds optional Handler settings
type HandlerConfig struct {
	MaxUploadBytes int64
	Logger         logger.Logger
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	classifier     Classifier
	datasets       DatasetManager
	maxUploadBytes int64
	logger         logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(classifier Classifier, datasets DatasetManager, config HandlerConfig) *Handler {
	maxUpload := config.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}
	log := config.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		classifier:     classifier,
		datasets:       datasets,
		maxUploadBytes: maxUpload,
		logger:         log,
	}
}

// HealthCheck reports liveness plus whether a dataset is loaded. It answers
// 503 until the first successful load.
func (h *Handler) HealthCheck(c *gin.Context) {
	ds := h.datasets.Current()

	status, code := "healthy", http.StatusOK
	if ds == nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":        status,
		"service":       serviceName,
		"version":       Version,
		"datasetLoaded": ds != nil,
		"datasetSize":   ds.Len(),
		"ocrEnabled":    h.classifier.HasOCR(),
	})
}

// Index serves the upload form
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"OCREnabled": h.classifier.HasOCR(),
	})
}

// resultView is what result.html renders
type resultView struct {
	Report *domain.Report
	Chart  template.URL
}

// Upload classifies an image posted from the HTML form and renders the result page
func (h *Handler) Upload(c *gin.Context) {
	file, err := h.formImage(c)
	if err != nil {
		c.String(statusFor(err), "%s", err.Error())
		return
	}
	defer file.Close()

	report, err := h.classifier.ClassifyImage(c.Request.Context(), file)
	if err != nil {
		h.logFailure(c, "Upload classification failed", err)
		c.String(statusFor(err), "%s", messageFor(err))
		return
	}

	view := resultView{Report: report}
	if c.PostForm("chart") == "on" {
		img, contentType, err := h.classifier.RenderChart(report.Tally)
		if err != nil {
			h.logger.Warn("Chart rendering skipped", logger.String("request_id", requestID(c)), logger.Error(err))
		} else {
			view.Chart = template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(img))
		}
	}

	c.HTML(http.StatusOK, "result.html", view)
}

// ScanLabel classifies an uploaded label image and returns the report as JSON
func (h *Handler) ScanLabel(c *gin.Context) {
	file, err := h.formImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	report, err := h.classifier.ClassifyImage(c.Request.Context(), file)
	if err != nil {
		h.logFailure(c, "Label scan failed", err)
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ClassifyTextRequest is the body of POST /api/v1/labels/classify
type ClassifyTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ClassifyText classifies label text that was extracted elsewhere
func (h *Handler) ClassifyText(c *gin.Context) {
	var req ClassifyTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	report, err := h.classifier.ClassifyText(c.Request.Context(), req.Text)
	if err != nil {
		h.logFailure(c, "Text classification failed", err)
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// LabelChart classifies an uploaded image and answers with the tally chart
func (h *Handler) LabelChart(c *gin.Context) {
	file, err := h.formImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	report, err := h.classifier.ClassifyImage(c.Request.Context(), file)
	if err != nil {
		h.logFailure(c, "Label chart failed", err)
		h.respondError(c, err)
		return
	}

	img, contentType, err := h.classifier.RenderChart(report.Tally)
	if err != nil {
		h.logFailure(c, "Chart rendering failed", err)
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, img)
}

// datasetInfo describes the loaded dataset
type datasetInfo struct {
	Source   string    `json:"source"`
	Size     int       `json:"size"`
	LoadedAt time.Time `json:"loadedAt"`
}

func newDatasetInfo(ds *domain.Dataset) datasetInfo {
	return datasetInfo{Source: ds.Source(), Size: ds.Len(), LoadedAt: ds.LoadedAt()}
}

// DatasetInfo returns metadata about the loaded dataset
func (h *Handler) DatasetInfo(c *gin.Context) {
	ds := h.datasets.Current()
	if ds == nil {
		h.respondError(c, domain.ErrDatasetNotLoaded)
		return
	}
	c.JSON(http.StatusOK, newDatasetInfo(ds))
}

// ReloadDataset re-reads the dataset source. On failure the previous dataset stays active.
func (h *Handler) ReloadDataset(c *gin.Context) {
	ds, err := h.datasets.Reload(c.Request.Context())
	if err != nil {
		h.logFailure(c, "Dataset reload failed", err)
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDatasetInfo(ds))
}

const (
	maxSearchDistance = 3
	maxSearchLimit    = 50
)

// SearchDataset suggests dataset ingredients close to ?q=, for OCR misreads
func (h *Handler) SearchDataset(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		h.respondError(c, fmt.Errorf("%w: q is required", domain.ErrInvalidRequest))
		return
	}
	distance, err := queryInt(c, "distance", 2, maxSearchDistance)
	if err != nil {
		h.respondError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", 10, maxSearchLimit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ds := h.datasets.Current()
	if ds == nil {
		h.respondError(c, domain.ErrDatasetNotLoaded)
		return
	}

	suggestions := usecase.SuggestIngredients(ds, term, distance, limit)
	if suggestions == nil {
		suggestions = []usecase.Suggestion{}
	}
	c.JSON(http.StatusOK, gin.H{"query": term, "suggestions": suggestions})
}

// queryInt parses a non-negative integer query parameter, capped at ceiling
func queryInt(c *gin.Context, name string, def, ceiling int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidRequest, name)
	}
	return min(n, ceiling), nil
}

// formImage returns the multipart "file" part, enforcing the upload limit
func (h *Handler) formImage(c *gin.Context) (multipart.File, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, errUploadTooLarge
		}
		// Browsers send an empty-filename part when nothing was picked; the
		// multipart parser files that under form values instead of files.
		if form := c.Request.MultipartForm; form != nil {
			if _, ok := form.Value["file"]; ok {
				return nil, errNoSelectedFile
			}
		}
		return nil, errNoFilePart
	}
	if header.Filename == "" {
		return nil, errNoSelectedFile
	}

	file, err := header.Open()
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidRequest, err)
	}
	return file, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{
		"error":     messageFor(err),
		"requestId": requestID(c),
	})
}

func (h *Handler) logFailure(c *gin.Context, msg string, err error) {
	fields := []logger.Field{
		logger.String("request_id", requestID(c)),
		logger.Error(err),
	}
	if statusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(msg, fields...)
		return
	}
	h.logger.Warn(msg, fields...)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoFilePart), errors.Is(err, errNoSelectedFile), errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errUploadTooLarge), errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrOCRFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSchema),
		errors.Is(err, domain.ErrSourceUnavailable),
		errors.Is(err, domain.ErrDatasetNotLoaded),
		errors.Is(err, domain.ErrOCRUnavailable),
		errors.Is(err, domain.ErrChartUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// messageFor hides internal error detail behind a generic message
func messageFor(err error) string {
	switch statusFor(err) {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusGatewayTimeout:
		return "request timed out"
	}

	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Error()
	}
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return domain.ErrInvalidRequest.Error()
	case errors.Is(err, domain.ErrImageTooLarge):
		return domain.ErrImageTooLarge.Error()
	case errors.Is(err, domain.ErrOCRFailure):
		return domain.ErrOCRFailure.Error()
	case errors.Is(err, domain.ErrSourceUnavailable):
		return domain.ErrSourceUnavailable.Error()
	}
	return err.Error()
}
