package domain

import "time"

// Profile es el registro de perfil de un usuario, uno por identificador.
// El identificador lo emite el proveedor de identidad, nunca este servicio.
type Profile struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	FullName    string    `json:"fullName"`
	Gender      string    `json:"gender"`
	NickName    string    `json:"nickName"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
