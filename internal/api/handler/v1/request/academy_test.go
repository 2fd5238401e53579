package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("06/10/2024")
	assert.Error(t, err)
}

func TestCreateUserRequest_Validate(t *testing.T) {
	valid := CreateUserRequest{Name: "Ana Costa", Email: "ana@example.com", Role: "student"}
	require.NoError(t, valid.Validate())

	badRole := valid
	badRole.Role = "admin"
	assert.Error(t, badRole.Validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, badEmail.Validate())
}

func TestCreatePackageRequest_Validate(t *testing.T) {
	valid := CreatePackageRequest{Name: "Tennis Pass", Price: 30, Basis: "class"}
	require.NoError(t, valid.Validate())

	badBasis := valid
	badBasis.Basis = "fortnight"
	assert.Error(t, badBasis.Validate())
}

func TestMarkAttendanceRequest_Validate(t *testing.T) {
	valid := MarkAttendanceRequest{ClassID: 1, UserID: 2, Status: "present"}
	require.NoError(t, valid.Validate())

	badStatus := valid
	badStatus.Status = "tardy"
	assert.Error(t, badStatus.Validate())

	noClass := valid
	noClass.ClassID = 0
	assert.Error(t, noClass.Validate())
}

func TestGenerateInvoicesRequest_Validate(t *testing.T) {
	require.NoError(t, (&GenerateInvoicesRequest{Month: "2024-06"}).Validate())
	assert.Error(t, (&GenerateInvoicesRequest{Month: "June 2024"}).Validate())
	assert.Error(t, (&GenerateInvoicesRequest{}).Validate())
}
