package identity

import (
	"net/url"
	"strings"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Credential is an allow-list entry with a plaintext password. Passwords are
// hashed when the Store is built and never kept in plaintext afterwards.
type Credential struct {
	User     types.User
	Password string
}

// account is a user with a bcrypt password hash. It is also the record
// format of the registry blob.
type account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar,omitempty"`
	PasswordHash string `json:"passwordHash"`
}

func (a account) user() types.User {
	return types.User{ID: a.ID, Name: a.Name, Email: a.Email, Avatar: a.Avatar}
}

// DefaultCredentials returns the demo accounts.
func DefaultCredentials() []Credential {
	return []Credential{
		{
			User: types.User{
				ID:     "1",
				Name:   "Demo User",
				Email:  "demo@example.com",
				Avatar: "https://ui-avatars.com/api/?name=Demo+User&background=0D8ABC&color=fff",
			},
			Password: "password123",
		},
		{
			User: types.User{
				ID:     "2",
				Name:   "Admin User",
				Email:  "admin@example.com",
				Avatar: "https://ui-avatars.com/api/?name=Admin+User&background=FF5733&color=fff",
			},
			Password: "admin123",
		},
	}
}

// AvatarURL returns the generated avatar image for a newly registered name.
func AvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return "https://ui-avatars.com/api/?name=" + escaped + "&background=random"
}

func findAccount(accounts []account, email string) (account, bool) {
	for _, a := range accounts {
		if a.Email == email {
			return a, true
		}
	}
	return account{}, false
}
