package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserFullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{name: "both names", user: User{FirstName: "Ada", LastName: "Lovelace"}, want: "Ada Lovelace"},
		{name: "first only", user: User{FirstName: "Ada"}, want: "Ada"},
		{name: "last only", user: User{LastName: "Lovelace"}, want: "Lovelace"},
		{name: "neither", user: User{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestScanType(t *testing.T) {
	assert.True(t, ScanTypeXRay.Valid())
	assert.True(t, ScanTypeECG.Valid())
	assert.True(t, ScanTypeReport.Valid())
	assert.False(t, ScanType("MRI").Valid())
	assert.False(t, ScanType("").Valid())

	assert.True(t, ScanTypeReport.IsReport())
	assert.False(t, ScanTypeXRay.IsReport())
}

func TestMedicalScanFilePath(t *testing.T) {
	image := MedicalScan{Image: "/media/scans/1.png"}
	assert.Equal(t, "/media/scans/1.png", image.FilePath())

	report := MedicalScan{ReportFile: "/media/reports/2.pdf"}
	assert.Equal(t, "/media/reports/2.pdf", report.FilePath())

	assert.Empty(t, (&MedicalScan{}).FilePath())
}

func TestMedicalScanStatusLabel(t *testing.T) {
	assert.Equal(t, "Analyzed", (&MedicalScan{IsAnalyzed: true}).StatusLabel())
	assert.Equal(t, "Pending", (&MedicalScan{}).StatusLabel())
}

func TestGoogleFitStatusExpired(t *testing.T) {
	expired := true
	notExpired := false

	assert.True(t, (&GoogleFitStatus{IsExpired: &expired}).Expired())
	assert.False(t, (&GoogleFitStatus{IsExpired: &notExpired}).Expired())
	assert.False(t, (&GoogleFitStatus{}).Expired())
}
