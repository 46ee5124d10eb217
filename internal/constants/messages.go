package constants

// User-facing messages shared by services, controllers and views.
const (
	MsgNetworkError        = "Network error. Please try again later."
	MsgSomethingWentWrong  = "Something went wrong"
	MsgDoctorDeleted       = "Doctor deleted successfully"
	MsgDoctorAdded         = "Doctor added successfully"
	MsgLoadAppointments    = "Error loading appointments. Try again later."
	MsgNoDoctors           = "No doctors found with the given filters."
	MsgSessionExpired      = "Session expired or invalid login. Please log in again."
	MsgLoggedOut           = "You have been logged out successfully."
	MsgLoginToBook         = "Please log in to book an appointment."
	MsgPatientUnavailable  = "Could not retrieve patient information."
	MsgOpenRecordFailed    = "Unable to open patient record. Please try again."
	MsgOpenPrescriptionErr = "Unable to open prescription form. Please try again."
	MsgNotSpecified        = "Not specified"
	MsgInvalidCredentials  = "Invalid credentials!"
	MsgPrescriptionSaved   = "Prescription saved successfully."
	MsgFillRequired        = "Please fill in all required fields."
	MsgSelectSlot          = "Please select at least one available time slot."
)
