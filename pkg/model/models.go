package model

// User represents the authenticated account as returned by the backend
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName joins the first and last name for display
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Tokens is the access/refresh token pair issued on login or registration.
// Both are opaque to the client; only the access token is attached to requests.
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session pairs the authenticated user with their token pair
type Session struct {
	User   *User  `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// ScanType identifies the kind of medical scan being uploaded
type ScanType string

const (
	ScanTypeXRay   ScanType = "XRAY"
	ScanTypeECG    ScanType = "ECG"
	ScanTypeReport ScanType = "REPORT"
)

// IsReport reports whether uploads of this type carry a document instead of an image
func (t ScanType) IsReport() bool {
	return t == ScanTypeReport
}

// Valid reports whether the scan type is one the backend accepts
func (t ScanType) Valid() bool {
	switch t {
	case ScanTypeXRay, ScanTypeECG, ScanTypeReport:
		return true
	}
	return false
}

// OpenAIAnalysis is the nested model output inside an analysis report
type OpenAIAnalysis struct {
	Success   bool   `json:"success"`
	Analysis  string `json:"analysis"`
	ModelUsed string `json:"model_used"`
}

// AIAnalysisReport is the server-side analysis attached to a scan
type AIAnalysisReport struct {
	Success        bool           `json:"success"`
	OpenAIAnalysis OpenAIAnalysis `json:"openai_analysis"`
}

// MedicalScan represents an uploaded scan record. Exactly one of Image and
// ReportFile is populated, determined by ScanType. The record is read-only
// on this side: it is created by the upload endpoint and never mutated.
type MedicalScan struct {
	ID               int               `json:"id"`
	ScanType         ScanType          `json:"scan_type"`
	ScanTypeDisplay  string            `json:"scan_type_display"`
	Image            string            `json:"image,omitempty"`
	ReportFile       string            `json:"report_file,omitempty"`
	UploadDate       string            `json:"upload_date"`
	Diagnosis        string            `json:"diagnosis"`
	AIAnalysisReport *AIAnalysisReport `json:"ai_analysis_report,omitempty"`
	IsAnalyzed       bool              `json:"is_analyzed"`
	PatientName      string            `json:"patient_name"`
}

// FilePath returns whichever of the image or report file fields is set
func (s *MedicalScan) FilePath() string {
	if s.ReportFile != "" {
		return s.ReportFile
	}
	return s.Image
}

// StatusLabel is the list-view label derived from the analysis flag
func (s *MedicalScan) StatusLabel() string {
	if s.IsAnalyzed {
		return "Analyzed"
	}
	return "Pending"
}

// GoogleFitStatus describes the state of the Google Fit connection
type GoogleFitStatus struct {
	Connected   bool     `json:"connected"`
	ExpiresAt   *string  `json:"expires_at"`
	IsExpired   *bool    `json:"is_expired"`
	Scopes      []string `json:"scopes"`
	LastUpdated *string  `json:"last_updated"`
}

// Expired reports whether the connection is known to be expired
func (g *GoogleFitStatus) Expired() bool {
	return g.IsExpired != nil && *g.IsExpired
}

// ConnectResult is the outcome of a Google Fit connect or disconnect call
type ConnectResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthSnapshot is the most recent reading produced by a sync call.
// Every vital is nullable: the provider may have no data for a field.
type HealthSnapshot struct {
	UserID           int      `json:"user_id"`
	HeartRate        *float64 `json:"heart_rate"`
	BloodPressureSys *float64 `json:"blood_pressure_sys"`
	BloodPressureDia *float64 `json:"blood_pressure_dia"`
	Stress           *float64 `json:"stress"`
	ECG              *float64 `json:"ecg"`
	Temperature      *float64 `json:"temperature"`
	OxygenLevel      *float64 `json:"oxygen_level"`
	Steps            *float64 `json:"steps"`
	SleepHours       *float64 `json:"sleep_hours"`
	RecordedAt       string   `json:"recorded_at"`
}
