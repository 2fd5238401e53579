package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// ParseDate parses the YYYY-MM-DD wire format into a UTC midnight date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, value, time.UTC)
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (req *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Role, validation.Required, validation.In("student", "parent", "coach")),
	)
}

type CreatePackageRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Basis       string  `json:"duration_basis"`
	NumClasses  *int    `json:"num_classes,omitempty"`
	NumWeeks    *int    `json:"num_weeks,omitempty"`
	ClassTypeID *uint   `json:"class_type_id,omitempty"`
}

func (req *CreatePackageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Price, validation.Required, validation.Min(0.0)),
		validation.Field(&req.Basis, validation.Required, validation.In("class", "week")),
	)
}

type AddPackageOptionRequest struct {
	Label     string `json:"label"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (req *AddPackageOptionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Label, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.StartDate, validation.Required, validation.Date(time.DateOnly)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(time.DateOnly)),
	)
}

type CreateClassTypeRequest struct {
	Name string `json:"name"`
}

func (req *CreateClassTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

type CreateClassRequest struct {
	PackageID   uint   `json:"package_id"`
	ClassTypeID uint   `json:"class_type_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location"`
}

func (req *CreateClassRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PackageID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.ClassTypeID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Date, validation.Required, validation.Date(time.DateOnly)),
		validation.Field(&req.StartTime, validation.Date("15:04")),
		validation.Field(&req.EndTime, validation.Date("15:04")),
		validation.Field(&req.Location, validation.Length(0, 200)),
	)
}

type CreateRegistrationRequest struct {
	UserID    uint   `json:"user_id"`
	PackageID uint   `json:"package_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (req *CreateRegistrationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.PackageID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.StartDate, validation.Required, validation.Date(time.DateOnly)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(time.DateOnly)),
	)
}

type MarkAttendanceRequest struct {
	ClassID uint   `json:"class_id"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
}

func (req *MarkAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ClassID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.UserID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Status, validation.Required, validation.In("present", "late", "missing")),
	)
}

type ScanAttendanceRequest struct {
	QRData  string `json:"qr_data"`
	ClassID uint   `json:"class_id"`
	Status  string `json:"status"`
}

func (req *ScanAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRData, validation.Required),
		validation.Field(&req.ClassID, validation.Required, validation.Min(uint(1))),
		validation.Field(&req.Status, validation.In("present", "late", "missing")),
	)
}

type AddAttendeeRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (req *AddAttendeeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Status, validation.In("present", "late", "missing")),
	)
}

type GenerateQRRequest struct {
	Name string `json:"name"`
}

func (req *GenerateQRRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

type MergeUsersRequest struct {
	PrimaryEmail   string `json:"primary_email"`
	SecondaryEmail string `json:"secondary_email"`
}

func (req *MergeUsersRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PrimaryEmail, validation.Required, is.Email),
		validation.Field(&req.SecondaryEmail, validation.Required, is.Email),
	)
}

type GenerateInvoicesRequest struct {
	Month string `json:"month"`
}

func (req *GenerateInvoicesRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Month, validation.Required, validation.Date("2006-01")),
	)
}
