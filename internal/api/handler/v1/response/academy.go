package response

import (
	"github.com/courtside/academy-api/internal/domain"
	"github.com/courtside/academy-api/internal/service"
)

type LoginResponse struct {
	Token string `json:"token"`
}

type ScanResponse struct {
	Success             bool   `json:"success"`
	Message             string `json:"message"`
	UserName            string `json:"user_name"`
	AlreadyPresent      bool   `json:"already_present"`
	IsRegistered        bool   `json:"is_registered"`
	RegistrationMessage string `json:"registration_message"`
}

func NewScanResponse(user domain.User, result service.ScanResult) ScanResponse {
	return ScanResponse{
		Success:             !result.Mark.AlreadyMarked,
		Message:             result.Mark.Message,
		UserName:            user.Name,
		AlreadyPresent:      result.Mark.AlreadyMarked,
		IsRegistered:        result.Eligibility.Eligible,
		RegistrationMessage: result.Eligibility.Explanation,
	}
}

type QRGenerateResponse struct {
	QRData string      `json:"qr_data"`
	User   domain.User `json:"user"`
}

type EligibilityResponse struct {
	Eligible    bool   `json:"eligible"`
	Explanation string `json:"explanation"`
}

type BillResponse struct {
	UserID uint    `json:"user_id"`
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

type MergeResponse struct {
	Message string      `json:"message"`
	Primary domain.User `json:"primary"`
}
