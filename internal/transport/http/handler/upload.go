package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"gopherai-qa/internal/app"
	"gopherai-qa/internal/pkg/pdfextract"
	"gopherai-qa/internal/transport/http/response"
)

const pdfMIME = "application/pdf"

type UploadHandler struct {
	ingestService *app.IngestService
	maxBytes      int64
}

func NewUploadHandler(ingestService *app.IngestService, maxBytes int64) *UploadHandler {
	return &UploadHandler{ingestService: ingestService, maxBytes: maxBytes}
}

func (h *UploadHandler) UploadPDF(c *gin.Context) {
	// Leave room for the multipart envelope around the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, h.tooLarge())
			return
		}
		response.Error(c, http.StatusBadRequest, "No file uploaded")
		return
	}
	if file.Size > h.maxBytes {
		writeError(c, h.tooLarge())
		return
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		writeError(c, app.ErrUnsupportedFile)
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "open uploaded file failed")
		return
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "read uploaded file failed")
		return
	}
	if !mime.Is(pdfMIME) {
		writeError(c, app.ErrUnsupportedFile)
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		response.Error(c, http.StatusInternalServerError, "rewind uploaded file failed")
		return
	}

	doc, err := pdfextract.ExtractText(f)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "failed to extract text from PDF: "+err.Error())
		return
	}

	report, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		Filename:  filepath.Base(file.Filename),
		SizeBytes: file.Size,
		Pages:     doc.Pages,
		Text:      doc.Text,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":      report.Message(),
		"pdf_info":     report.PDFInfo,
		"chunks":       report.Chunks,
		"generated_qa": report.GeneratedQA,
		"qa_failures":  report.QAFailures,
	})
}

func (h *UploadHandler) tooLarge() error {
	return fmt.Errorf("%w (max %dMB)", app.ErrFileTooLarge, h.maxBytes>>20)
}
