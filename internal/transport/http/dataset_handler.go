package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"spotifyeda/internal/dataprocessing"
	apierrors "spotifyeda/internal/errors"
	"spotifyeda/internal/exporter"
	"spotifyeda/internal/infrastructure"
	"spotifyeda/internal/middleware"
	"spotifyeda/internal/operations"
)

const (
	// UploadField is the multipart form field carrying the dataset
	UploadField = "file"

	// DefaultMaxUploadBytes caps uploads when no limit is configured
	DefaultMaxUploadBytes int64 = 64 << 20

	HeaderRowsIn  = "X-Rows-In"
	HeaderRowsOut = "X-Rows-Out"

	FormatCSV  = "csv"
	FormatJSON = "json"
)

// CleanResponse is the JSON body of a clean request
type CleanResponse struct {
	ID      string                     `json:"id"`
	Columns []string                   `json:"columns"`
	Records []map[string]interface{}   `json:"records"`
	Stats   *dataprocessing.CleanStats `json:"stats,omitempty"`
	Steps   []operations.StepInfo      `json:"steps"`
}

// ColumnSummary is one column of a profile response
type ColumnSummary struct {
	dataprocessing.ColumnProfile
	Kind string `json:"kind"`
}

// ProfileResponse is the JSON body of a profile request
type ProfileResponse struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}

// DatasetHandler cleans and profiles uploaded datasets
type DatasetHandler struct {
	pipeline       *operations.Pipeline
	query          *middleware.QueryParamValidator
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDatasetHandler creates a dataset handler. A non-positive maxUploadBytes
// selects DefaultMaxUploadBytes.
func NewDatasetHandler(pipeline *operations.Pipeline, maxUploadBytes int64, logger *slog.Logger) *DatasetHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	logger = infrastructure.WithComponent(logger, "dataset_handler")
	return &DatasetHandler{
		pipeline:       pipeline,
		query:          middleware.NewQueryParamValidator(logger),
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.MaxBodySize(h.maxUploadBytes))
	r.Use(middleware.ContentTypeValidator("text/csv", "text/plain", "application/octet-stream", "multipart/form-data"))

	r.Post("/clean", h.Clean)
	r.Post("/profile", h.Profile)
	return r
}

// Clean handles POST /api/v1/datasets/clean
func (h *DatasetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	normalize, ok := h.query.ValidateBool(w, r, "normalize", true)
	if !ok {
		return
	}
	format, ok := h.query.ValidateEnum(w, r, "format", []string{FormatCSV, FormatJSON}, FormatCSV)
	if !ok {
		return
	}

	body, err := h.readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.pipeline.Run(r.Context(), operations.Request{
		ID:            middleware.GetRequestID(r.Context()),
		Source:        operations.ReaderSource(bytes.NewReader(body)),
		SkipNormalize: !normalize,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ds := result.Dataset
	rowsIn := ds.Len()
	if result.Stats != nil {
		rowsIn = result.Stats.InputRows
	}
	w.Header().Set(HeaderRowsIn, strconv.Itoa(rowsIn))
	w.Header().Set(HeaderRowsOut, strconv.Itoa(ds.Len()))

	h.logger.InfoContext(r.Context(), "dataset cleaned",
		slog.String("operation_id", result.ID),
		slog.Int("rows_in", rowsIn),
		slog.Int("rows_out", ds.Len()),
		slog.String("format", format))

	if format == FormatJSON {
		render.JSON(w, r, CleanResponse{
			ID:      result.ID,
			Columns: ds.Columns(),
			Records: exporter.RecordValues(ds),
			Stats:   result.Stats,
			Steps:   result.Steps,
		})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="clean.csv"`)
	if err := exporter.WriteDatasetTo(w, ds, exporter.WriteOptions{}); err != nil {
		// Headers are gone at this point; the client sees a truncated body.
		infrastructure.WithError(h.logger, err).ErrorContext(r.Context(), "failed to stream cleaned dataset")
	}
}

// Profile handles POST /api/v1/datasets/profile
func (h *DatasetHandler) Profile(w http.ResponseWriter, r *http.Request) {
	normalize, ok := h.query.ValidateBool(w, r, "normalize", true)
	if !ok {
		return
	}

	body, err := h.readUpload(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.pipeline.Run(r.Context(), operations.Request{
		ID:            middleware.GetRequestID(r.Context()),
		Source:        operations.ReaderSource(bytes.NewReader(body)),
		SkipNormalize: !normalize,
		SkipClean:     true,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	profile := result.Dataset.Profile()
	resp := ProfileResponse{Rows: result.Dataset.Len(), Columns: make([]ColumnSummary, len(profile))}
	for i, p := range profile {
		resp.Columns[i] = ColumnSummary{ColumnProfile: p, Kind: p.Kind().String()}
	}
	render.JSON(w, r, resp)
}

// readUpload returns the uploaded bytes from a multipart "file" field or the
// raw request body
func (h *DatasetHandler) readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var src io.Reader = r.Body
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, uploadError(err)
		}
		file, _, err := r.FormFile(UploadField)
		if err != nil {
			return nil, apierrors.NewValidationErrors([]apierrors.ValidationError{
				{Field: UploadField, Message: "multipart field \"file\" is required"},
			})
		}
		defer file.Close()
		src = file
	}

	body, err := io.ReadAll(src)
	if err != nil {
		return nil, uploadError(err)
	}
	return body, nil
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apierrors.NewWithDetails(
			http.StatusRequestEntityTooLarge,
			apierrors.ErrPayloadTooLarge.ErrorCode,
			apierrors.ErrPayloadTooLarge.Message,
			map[string]int64{"max_size": maxErr.Limit},
		)
	}
	return apierrors.InvalidRequestWithError(err)
}

func (h *DatasetHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierrors.FromError(err)
	level := slog.LevelWarn
	if apiErr.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	infrastructure.WithError(h.logger, err).Log(r.Context(), level, "dataset request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", apiErr.StatusCode),
		slog.String("error_code", apiErr.ErrorCode))
	apierrors.Respond(w, r, apiErr)
}
