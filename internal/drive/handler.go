package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/gorilla/mux"
)

// Browser is a FileSource that can also resolve folder paths.
type Browser interface {
	FileSource
	FindFolderByPath(ctx context.Context, path string) (string, error)
}

var _ Browser = (*Service)(nil)

// Handler lets operators inspect a Drive folder before importing it.
type Handler struct {
	browser         Browser
	defaultFolderID string
}

func NewHandler(browser Browser, defaultFolderID string) *Handler {
	return &Handler{browser: browser, defaultFolderID: defaultFolderID}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/drive/files", h.ListFiles).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/drive/files/{id}/download", h.DownloadFile).Methods(http.MethodGet)
}

type listedFile struct {
	File
	// Ledger is the ledger file this file imports as, if any.
	Ledger string `json:"ledger,omitempty"`
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folderId")
	if folderID == "" {
		folderID = h.defaultFolderID
	}

	if folderPath := query.Get("path"); folderPath != "" {
		var err error
		folderID, err = h.browser.FindFolderByPath(r.Context(), folderPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	files, err := h.browser.ListFiles(r.Context(), folderID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	listed := make([]listedFile, 0, len(files))
	for _, f := range files {
		name, _ := ledger.FileName(f.Name)
		listed = append(listed, listedFile{File: f, Ledger: name})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"folder_id": folderID,
		"files":     listed,
	})
}

func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["id"]

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileID))

	if err := h.browser.DownloadFile(r.Context(), fileID, w); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
