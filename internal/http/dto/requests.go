package dto

type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type UpdateProfileRequest struct {
	FirstName     *string `json:"first_name,omitempty"`
	LastName      *string `json:"last_name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Address       *string `json:"address,omitempty"`
	About         *string `json:"about,omitempty"`
	Image         *string `json:"image,omitempty"`
	PublicProfile *bool   `json:"public_profile,omitempty"`
}

type RoleChangeRequest struct {
	Role string `json:"role"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}
