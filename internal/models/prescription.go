package models

// Prescription is written by a doctor against a single appointment
type Prescription struct {
	ID            string `json:"id,omitempty"`
	PatientName   string `json:"patientName" validate:"required"`
	AppointmentID int64  `json:"appointmentId" validate:"gt=0"`
	Medication    string `json:"medication" validate:"required"`
	Dosage        string `json:"dosage" validate:"required"`
	DoctorNotes   string `json:"doctorNotes,omitempty"`
}

func (Prescription) validationMessage([]string) string {
	return "Please fill in patient name, medicines and dosage."
}

// PrescriptionList is the {prescriptions: [...]} envelope
type PrescriptionList struct {
	Prescriptions []Prescription `json:"prescriptions"`
	Count         int            `json:"count,omitempty"`
	Message       string         `json:"message,omitempty"`
}
