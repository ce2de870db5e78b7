package dto

type APIKeyResponse struct {
	Key string `json:"key" example:"api_3f1c0e8e2b7d4a6f9c0b1a2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c0d1e2f"`
}
