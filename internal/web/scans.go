package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/backend"
	"github.com/twinhealth/healthdash/pkg/model"
)

// scanListPage is the view payload for the scan list
type scanListPage struct {
	Scans    []model.MedicalScan
	Analyzed int
	Pending  int
	Message  string
}

func (s *Server) showScans(c *gin.Context) {
	scans, err := s.client.MedicalScans(c.Request.Context())
	if err != nil {
		s.logger.Warn("failed to list scans", zap.Error(err))
		s.render(c, statusFor(err), "scans.html", "Medical scans", scanListPage{
			Message: userMessage(err, "Failed to fetch medical scans"),
		})
		return
	}

	page := scanListPage{Scans: scans}
	for _, scan := range scans {
		if scan.IsAnalyzed {
			page.Analyzed++
		} else {
			page.Pending++
		}
	}
	s.render(c, http.StatusOK, "scans.html", "Medical scans", page)
}

// scanDetailPage is the view payload for a single scan
type scanDetailPage struct {
	Scan    *model.MedicalScan
	FileURL string
	Message string
}

func (s *Server) showScanDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		s.render(c, http.StatusNotFound, "scan_detail.html", "Medical scan", scanDetailPage{
			Message: "Medical scan not found",
		})
		return
	}

	scan, err := s.client.MedicalScanByID(c.Request.Context(), id)
	if err != nil {
		// Unknown ids surface as a generic message rather than raw detail.
		msg := "Failed to fetch medical scan details"
		if backend.IsKind(err, backend.KindNotFound) {
			msg = "Medical scan not found"
		}
		s.render(c, statusFor(err), "scan_detail.html", "Medical scan", scanDetailPage{Message: msg})
		return
	}

	s.render(c, http.StatusOK, "scan_detail.html", "Medical scan", scanDetailPage{
		Scan:    scan,
		FileURL: s.client.FileURL(scan.FilePath()),
	})
}

// uploadPage is the view payload for the upload form
type uploadPage struct {
	ScanTypes   []model.ScanType
	FieldErrors map[string][]string
	Message     string
}

func uploadScanTypes() []model.ScanType {
	return []model.ScanType{model.ScanTypeXRay, model.ScanTypeECG, model.ScanTypeReport}
}

func (s *Server) showUpload(c *gin.Context) {
	s.render(c, http.StatusOK, "upload.html", "Upload scan", uploadPage{ScanTypes: uploadScanTypes()})
}

func (s *Server) handleUpload(c *gin.Context) {
	scanType := model.ScanType(c.PostForm("scan_type"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.render(c, http.StatusBadRequest, "upload.html", "Upload scan", uploadPage{
			ScanTypes: uploadScanTypes(),
			Message:   "Please choose a file to upload",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.render(c, http.StatusBadRequest, "upload.html", "Upload scan", uploadPage{
			ScanTypes: uploadScanTypes(),
			Message:   "Failed to read the selected file",
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.render(c, http.StatusBadRequest, "upload.html", "Upload scan", uploadPage{
			ScanTypes: uploadScanTypes(),
			Message:   "Failed to read the selected file",
		})
		return
	}

	scan, err := s.client.UploadMedicalScan(c.Request.Context(), backend.UploadRequest{
		ScanType: scanType,
		Filename: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		page := uploadPage{ScanTypes: uploadScanTypes()}
		var be *backend.Error
		if errors.As(err, &be) && be.Kind == backend.KindValidation {
			page.FieldErrors = be.Fields
			page.Message = be.Message
		} else {
			page.Message = userMessage(err, "Failed to upload medical scan")
		}
		s.render(c, statusFor(err), "upload.html", "Upload scan", page)
		return
	}

	s.logger.Info("scan uploaded via web", zap.Int("scan_id", scan.ID))
	c.Redirect(http.StatusSeeOther, "/dashboard/scans?success=scan_uploaded")
}
