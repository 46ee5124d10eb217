package nav

import "testing"

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name   string
		target Target
		want   string
	}{
		{"role select", To(ViewRoleSelect), "/"},
		{"patient dashboard", To(ViewPatientDashboard), "/pages/patientDashboard.html"},
		{"patient record", PatientRecord(7, 3), "/pages/patientRecord.html?doctorId=3&id=7"},
		{"prescription", AddPrescription(12, "Pat Doe"), "/pages/addPrescription.html?appointmentId=12&patientName=Pat+Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTargetInt(t *testing.T) {
	target := PatientRecord(7, 3)
	if got := target.Int("id"); got != 7 {
		t.Errorf("Int(id) = %d, want 7", got)
	}
	if got := target.Int("missing"); got != 0 {
		t.Errorf("Int(missing) = %d, want 0", got)
	}
}
