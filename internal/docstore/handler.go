package docstore

import (
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ganbatte/backoffice/internal/platform/httpx"
)

// maxUploadBytes caps multipart uploads at 32 MiB.
const maxUploadBytes = 32 << 20

type Handler struct {
	logger *slog.Logger
	store  *Store
}

func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{logger: logger, store: store}
}

func codeParam(r *http.Request) string {
	code := chi.URLParam(r, "*")
	for i := 0; i < 2 && strings.Contains(code, "%"); i++ {
		decoded, err := url.PathUnescape(code)
		if err != nil {
			break
		}
		code = decoded
	}
	return code
}

func (h *Handler) ProvisionFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	if err := h.store.Provision(req.Code); err != nil {
		h.logger.Error("provision folder", slog.String("code", req.Code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"code": req.Code})
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.ListFiles(codeParam(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, files)
}

func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}
	subfolder := r.FormValue("subfolder")
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "file field is required")
		return
	}
	defer file.Close()

	code := codeParam(r)
	path, err := h.store.SaveFile(code, subfolder, header.Filename, file)
	if err != nil {
		h.logger.Error("upload file", slog.String("code", code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{
		"filename": filepath.Base(path),
		"path":     path,
	})
}

func (h *Handler) SavePDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}
	code := r.FormValue("code")
	kind := r.FormValue("kind")
	if kind == "" {
		kind = "interno"
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "file field is required")
		return
	}
	defer file.Close()

	path, err := h.store.SavePDF(code, kind, file)
	if err != nil {
		h.logger.Error("save pdf", slog.String("code", code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{
		"filename": filepath.Base(path),
		"path":     path,
	})
}

func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "interno"
	}

	path, err := h.store.FindNewestPDF(code, kind)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}
