package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/furnicast/backend-go/internal/drive"
	"github.com/andresuchdata/furnicast/backend-go/internal/ledger"
	"github.com/andresuchdata/furnicast/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type LedgerHandler struct {
	service *service.LedgerService
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// Upload imports ledger files sent as multipart "files". Each file is
// matched to a ledger by name, e.g. materials.csv or bom.xlsx.
func (h *LedgerHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})
		return
	}

	dir, err := os.MkdirTemp("", "ledger-upload-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage upload"})
		return
	}
	defer os.RemoveAll(dir)

	var ignored []string
	for _, file := range files {
		name, ok := ledger.FileName(file.Filename)
		if !ok {
			ignored = append(ignored, file.Filename)
			continue
		}

		csvPath := filepath.Join(dir, name)
		if !strings.EqualFold(filepath.Ext(file.Filename), ".xlsx") {
			if err := c.SaveUploadedFile(file, csvPath); err != nil {
				log.Ctx(c.Request.Context()).Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded ledger")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save " + file.Filename})
				return
			}
			continue
		}

		xlsxPath := strings.TrimSuffix(csvPath, ".csv") + ".xlsx"
		if err := c.SaveUploadedFile(file, xlsxPath); err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Str("filename", file.Filename).Msg("failed to save uploaded ledger")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save " + file.Filename})
			return
		}
		if err := drive.ConvertXLSXToCSV(xlsxPath, csvPath); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workbook " + file.Filename, "details": err.Error()})
			return
		}
	}

	ds, err := h.service.ImportDir(c.Request.Context(), dir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to import ledgers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, importResponse(ds, ignored))
}

// ImportDrive imports the ledger files of a Drive folder. folder_id defaults
// to the configured folder.
func (h *LedgerHandler) ImportDrive(defaultFolderID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		folderID := c.DefaultQuery("folder_id", defaultFolderID)

		ds, err := h.service.ImportDrive(c.Request.Context(), folderID)
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Str("folder_id", folderID).Msg("drive ledger import failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to import ledgers from drive", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, importResponse(ds, nil))
	}
}

func importResponse(ds *ledger.Dataset, ignored []string) gin.H {
	return gin.H{
		"materials":     len(ds.Materials),
		"products":      len(ds.Products),
		"bom_entries":   len(ds.BOM),
		"outputs":       len(ds.Outputs),
		"transactions":  len(ds.Transactions),
		"ignored_files": ignored,
	}
}
