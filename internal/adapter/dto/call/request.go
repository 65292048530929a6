package call

// UploadForm carries the multipart form fields of a call upload.
// The audio file itself travels as the "audio" file part.
type UploadForm struct {
	PhoneNumber  string `form:"phone_number" validate:"required"`
	CustomerName string `form:"customer_name"`
	Type         string `form:"type" validate:"required,oneof=incoming outgoing"`
	StartedAt    string `form:"started_at" validate:"required"`
	EndedAt      string `form:"ended_at"`
	DurationSec  int    `form:"duration_sec" validate:"omitempty,min=0"`
	Notes        string `form:"notes"`
}

// ListQuery narrows the call listing
type ListQuery struct {
	EmployeeID  string `query:"employee_id"`
	CustomerID  string `query:"customer_id"`
	PhoneNumber string `query:"phone_number"`
	Status      string `query:"status"`
	Limit       int    `query:"limit"`
	Offset      int    `query:"offset"`
}
