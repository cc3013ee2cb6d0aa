package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"bidcompare/internal/comparison"
	apierrors "bidcompare/internal/errors"
	"bidcompare/internal/exporter"
	"bidcompare/internal/services"
	api "bidcompare/pkg/contracts/api/v1"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk
const multipartMemory = 32 << 20

// ComparisonServiceInterface defines the comparison operations used by the handler
type ComparisonServiceInterface interface {
	Report(ctx context.Context, docs []comparison.Document) (*services.ComparisonReport, error)
}

// CompareHandler serves the bid comparison endpoint
type CompareHandler struct {
	service        ComparisonServiceInterface
	maxUploadBytes int64
	validate       *validator.Validate
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
}

// NewCompareHandler creates a compare handler. maxUploadBytes caps the
// request body; zero disables the cap.
func NewCompareHandler(service ComparisonServiceInterface, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CompareHandler {
	return &CompareHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		validate:       validator.New(),
		logger:         logger.With(slog.String("component", "compare_handler")),
		errorHandler:   errorHandler,
	}
}

// Routes returns the compare routes
func (h *CompareHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Compare)
	return r
}

// Compare handles POST /api/bid-compare
func (h *CompareHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[api.FilesField]
	if len(headers) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFilesUploaded)
		return
	}

	req := api.CompareRequest{Files: make([]api.UploadedFile, len(headers))}
	for i, fh := range headers {
		req.Files[i] = api.UploadedFile{Name: uploadName(fh, i), Size: fh.Size}
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationError(err))
		return
	}

	docs := make([]comparison.Document, len(headers))
	for i, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			h.errorHandler.HandleError(w, r, uploadError(err))
			return
		}
		docs[i] = comparison.Document{Name: req.Files[i].Name, Data: data}
	}

	h.logger.InfoContext(ctx, "bid comparison requested", slog.Int("files", len(docs)))

	report, err := h.service.Report(ctx, docs)
	if err != nil {
		h.errorHandler.HandleError(w, r, serviceError(err))
		return
	}

	render.JSON(w, r, newCompareResponse(report))
}

func newCompareResponse(report *services.ComparisonReport) api.CompareResponse {
	result := report.Result
	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	return api.CompareResponse{
		BatchID:       result.ID,
		Normalized:    api.NormalizedBids(result.Bids),
		Matrix:        comparison.MatrixTable(result.Matrix, true),
		Chapters:      comparison.ChapterTable(result.Chapters, true),
		Summary:       result.Summary,
		GeneratedAt:   result.GeneratedAt,
		Excel:         exporter.Base64(report.Excel),
		MatrixExcel:   exporter.Base64(report.MatrixExcel),
		ChaptersExcel: exporter.Base64(report.ChaptersExcel),
		Errors:        errs,
	}
}

// uploadName falls back to a positional name for parts without a filename
func uploadName(fh *multipart.FileHeader, index int) string {
	if fh.Filename != "" {
		return fh.Filename
	}
	return fmt.Sprintf("bid_%d", index+1)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return apierrors.ErrPayloadTooLarge
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		return apierrors.ErrNoFilesUploaded
	default:
		return apierrors.InvalidRequestWithError(err)
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.InvalidRequestWithError(err)
	}
	fields := make([]apierrors.ValidationError, len(verrs))
	for i, fe := range verrs {
		fields[i] = apierrors.ValidationError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		}
	}
	return apierrors.NewValidationErrors(fields)
}

func serviceError(err error) error {
	var batchErr *comparison.BatchError
	switch {
	case errors.As(err, &batchErr):
		return apierrors.NewWithDetails(
			apierrors.ErrNoValidBids.StatusCode,
			apierrors.ErrNoValidBids.ErrorCode,
			apierrors.ErrNoValidBids.Message,
			batchErr.Errors)
	case errors.Is(err, comparison.ErrNoValidBids):
		return apierrors.ErrNoValidBids
	case errors.Is(err, services.ErrNoDocuments):
		return apierrors.ErrNoFilesUploaded
	case errors.Is(err, services.ErrTooManyFiles):
		return apierrors.ErrValidation(api.FilesField, err.Error())
	default:
		return err
	}
}
