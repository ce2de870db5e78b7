package dto

type CreateUserRequest struct {
	Email   *string `json:"email" validate:"required" example:"New@Example.org"`
	Name    *string `json:"name" validate:"required" example:"New User"`
	Picture *string `json:"picture,omitempty" example:"https://example.com/avatar.png"`
	Locale  *string `json:"locale,omitempty" example:"en-US"`
}

type UpdateUserRequest struct {
	Name            *string `json:"name,omitempty" example:"Renamed User"`
	Picture         *string `json:"picture,omitempty" example:"https://example.com/avatar.png"`
	Locale          *string `json:"locale,omitempty" example:"fr-FR"`
	IsFirstTimeUser *bool   `json:"isFirstTimeUser,omitempty" example:"false"`
}

type LoginResponse struct {
	ID           int64  `json:"id" example:"7"`
	Email        string `json:"email" example:"new@example.org"`
	DisplayEmail string `json:"displayEmail" example:"New@Example.org"`
}

type UserOptions struct {
	Locale           *string `json:"locale,omitempty" example:"en-US"`
	AllowGoogleLogin *bool   `json:"allowGoogleLogin,omitempty"`
	IsConsultant     *bool   `json:"isConsultant,omitempty"`
	Authentication   *string `json:"authentication,omitempty" example:"google"`
}

type UserResponse struct {
	ID               int64           `json:"id" example:"5"`
	Name             string          `json:"name" example:"New User"`
	Ref              string          `json:"ref" example:"fQc3G8qgDk9X2f4jMa7RzS"`
	Picture          *string         `json:"picture,omitempty" example:"https://example.com/avatar.png"`
	FirstLoginAt     *string         `json:"firstLoginAt,omitempty" example:"2024-01-15T10:30:00Z"`
	LastConnectionAt *string         `json:"lastConnectionAt,omitempty" example:"2024-01-20T15:45:00Z"`
	IsFirstTimeUser  bool            `json:"isFirstTimeUser" example:"true"`
	Options          *UserOptions    `json:"options,omitempty"`
	ConnectID        *string         `json:"connectId,omitempty"`
	Logins           []LoginResponse `json:"logins"`
}

type MeResponse struct {
	ID              int64   `json:"id" example:"5"`
	Ref             string  `json:"ref" example:"fQc3G8qgDk9X2f4jMa7RzS"`
	Email           string  `json:"email" example:"New@Example.org"`
	LoginEmail      string  `json:"loginEmail" example:"new@example.org"`
	Name            string  `json:"name" example:"New User"`
	Picture         *string `json:"picture,omitempty" example:"https://example.com/avatar.png"`
	Locale          *string `json:"locale,omitempty" example:"en-US"`
	IsFirstTimeUser bool    `json:"isFirstTimeUser" example:"false"`
	HasAPIKey       bool    `json:"hasApiKey" example:"false"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name,omitempty" example:"New Name"`
	Picture *string `json:"picture,omitempty" example:"https://example.com/avatar.png"`
	Locale  *string `json:"locale,omitempty" example:"en-US"`
}
