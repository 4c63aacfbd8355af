package models

// VerifyDocumentRequest is the payload for POST /verify-document.
type VerifyDocumentRequest struct {
	Code string `json:"code" validate:"required,min=4,max=64"`
}

// ClaimRewardRequest is the payload for POST /claim-reward.
type ClaimRewardRequest struct {
	RewardID uint `json:"reward_id" validate:"required,min=1"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
