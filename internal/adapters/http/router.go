package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/core/ports"
	"github.com/mkravchenko/claimflow/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Router struct {
	processor      ports.ClaimProcessor
	metricsHandler http.Handler
	maxUploadBytes int64
}

func NewRouter(processor ports.ClaimProcessor, metricsHandler http.Handler, maxUploadBytes int64) *Router {
	return &Router{
		processor:      processor,
		metricsHandler: metricsHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/claims/process", rt.processClaim)
	mux.HandleFunc("/openapi.yaml", rt.openAPISpec)
	if rt.metricsHandler != nil {
		mux.Handle("/metrics", rt.metricsHandler)
	}
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) processClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form is required"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'files' is required"})
		return
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, header := range headers {
		content, err := readUpload(header)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("failed to read upload %q", header.Filename),
			})
			return
		}
		files = append(files, domain.UploadedFile{
			Filename: header.Filename,
			Content:  content,
		})
	}

	resp, err := rt.processor.ProcessClaim(r.Context(), files)
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if status >= 500 {
			slog.Error("claim_processing_failed", "error", err)
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		rt.writeWorkbook(w, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) writeWorkbook(w http.ResponseWriter, resp *domain.ClaimResponse) {
	buf, err := export.WorkbookBytes(resp)
	if err != nil {
		slog.Error("claim_export_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to render workbook"})
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="claim_decision.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
