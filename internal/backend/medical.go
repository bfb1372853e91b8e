package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/pkg/model"
)

// Upload limits, matching what the backend enforces. Requests violating
// them are rejected locally without a network round trip.
const (
	MaxImageUploadBytes  = 10 << 20
	MaxReportUploadBytes = 20 << 20
)

var (
	imageExtensions  = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".tiff": true}
	reportExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}
)

// UploadRequest describes a scan upload: the scan type plus exactly one
// file, whose outgoing multipart field name is determined by the type.
type UploadRequest struct {
	ScanType model.ScanType
	Filename string
	Content  []byte
}

// ValidateUpload applies the client-side pre-checks for a scan upload.
// Image scans accept common raster formats under 10 MB; report scans
// accept PDF/DOC/DOCX under 20 MB.
func ValidateUpload(req UploadRequest) error {
	if !req.ScanType.Valid() {
		return validationErr("Please select a scan type", map[string][]string{
			"scan_type": {"must be one of XRAY, ECG, REPORT"},
		})
	}
	if req.Filename == "" || len(req.Content) == 0 {
		return validationErr("Please choose a file to upload", map[string][]string{
			uploadFieldName(req.ScanType): {"a file is required"},
		})
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	field := uploadFieldName(req.ScanType)

	if req.ScanType.IsReport() {
		if !reportExtensions[ext] {
			return validationErr("You can only upload PDF or Word documents", map[string][]string{
				field: {fmt.Sprintf("unsupported file type %q", ext)},
			})
		}
		if len(req.Content) >= MaxReportUploadBytes {
			return validationErr("File must be smaller than 20MB", map[string][]string{
				field: {fmt.Sprintf("file is %d bytes, limit is %d", len(req.Content), MaxReportUploadBytes)},
			})
		}
		return nil
	}

	if !imageExtensions[ext] {
		return validationErr("You can only upload JPG, PNG, GIF, BMP or TIFF images", map[string][]string{
			field: {fmt.Sprintf("unsupported file type %q", ext)},
		})
	}
	if len(req.Content) >= MaxImageUploadBytes {
		return validationErr("Image must be smaller than 10MB", map[string][]string{
			field: {fmt.Sprintf("file is %d bytes, limit is %d", len(req.Content), MaxImageUploadBytes)},
		})
	}
	return nil
}

// uploadFieldName picks the multipart field the backend expects for the
// scan type: report_file for documents, image for everything else.
// Exactly one file field is ever attached.
func uploadFieldName(t model.ScanType) string {
	if t.IsReport() {
		return "report_file"
	}
	return "image"
}

// UploadMedicalScan validates and uploads a scan, returning the created
// record. The request omits the JSON content type so the multipart
// boundary is set by the writer.
func (c *Client) UploadMedicalScan(ctx context.Context, req UploadRequest) (*model.MedicalScan, error) {
	if err := ValidateUpload(req); err != nil {
		return nil, err
	}

	resp, err := c.newFormRequest().
		SetContext(ctx).
		SetFormData(map[string]string{"scan_type": string(req.ScanType)}).
		SetFileReader(uploadFieldName(req.ScanType), req.Filename, bytes.NewReader(req.Content)).
		Post("/medical/upload/")
	if err != nil {
		return nil, netErr(err, "Failed to upload medical scan")
	}

	var scan model.MedicalScan
	if err := c.decode(resp, &scan, "Failed to upload medical scan", false); err != nil {
		return nil, err
	}

	c.logger.Info("medical scan uploaded",
		zap.Int("scan_id", scan.ID),
		zap.String("scan_type", string(scan.ScanType)),
		zap.Int("size_bytes", len(req.Content)),
	)

	return &scan, nil
}

// MedicalScans lists the user's scans. The backend may answer with either
// a bare array or a paginated {"results": [...]} envelope; both decode to
// the same slice.
func (c *Client) MedicalScans(ctx context.Context) ([]model.MedicalScan, error) {
	resp, err := c.newRequest(true).
		SetContext(ctx).
		Get("/medical/upload/")
	if err != nil {
		return nil, netErr(err, "Failed to fetch medical scans")
	}

	if resp.IsError() {
		return nil, httpError(resp.StatusCode(), resp.Body(), "Failed to fetch medical scans", false)
	}

	scans, err := decodeScanList(resp.Body())
	if err != nil {
		return nil, &Error{
			Kind:       KindUnexpected,
			StatusCode: resp.StatusCode(),
			Message:    "Failed to fetch medical scans",
			cause:      err,
		}
	}
	return scans, nil
}

// decodeScanList accepts the three list shapes the backend has been seen
// to produce: a paginated {"results": [...]} envelope, a {"data": [...]}
// wrapper, or the bare array. Unwrapping a bare array returns it unchanged.
func decodeScanList(body []byte) ([]model.MedicalScan, error) {
	var envelope struct {
		Results []model.MedicalScan `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results, nil
	}

	var scans []model.MedicalScan
	if err := unwrapData(body, &scans); err != nil {
		return nil, err
	}
	if scans == nil {
		scans = []model.MedicalScan{}
	}
	return scans, nil
}

// MedicalScanByID fetches a single scan. An unknown id surfaces as a
// KindNotFound error with a generic message.
func (c *Client) MedicalScanByID(ctx context.Context, id int) (*model.MedicalScan, error) {
	resp, err := c.newRequest(true).
		SetContext(ctx).
		Get(fmt.Sprintf("/medical/upload/%d/", id))
	if err != nil {
		return nil, netErr(err, "Failed to fetch medical scan details")
	}

	var scan model.MedicalScan
	if err := c.decode(resp, &scan, "Failed to fetch medical scan details", false); err != nil {
		return nil, err
	}
	return &scan, nil
}
