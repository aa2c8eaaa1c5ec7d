package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Data *LoginResponseData `json:"data"`
}

type LoginResponseData struct {
	AccessToken string `json:"accessToken"`
}
