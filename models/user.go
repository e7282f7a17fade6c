package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credential is a user directory entry.
type Credential struct {
	User
	PasswordHash string `json:"passwordHash"`
}
