package dto

// SendSMSRequest is the body of POST /api/v1/sms.
type SendSMSRequest struct {
	Recipient string `json:"recipient" binding:"required" example:"07123456789"`
	Message   string `json:"message" binding:"required" example:"Hi Acme, you have a new payment request."`
}

// SendSMSResponse reports the gateway's acceptance of a message.
type SendSMSResponse struct {
	Success   bool    `json:"success"`
	MessageID string  `json:"message_id"`
	Status    string  `json:"status"`
	Credits   float64 `json:"credits"`
}

// PublicConfigResponse exposes the values a browser client needs to sign in.
type PublicConfigResponse struct {
	AuthURL     string `json:"auth_url"`
	AuthAnonKey string `json:"auth_anon_key"`
}
