package core

const (
	RoleAdmin     = "ADMIN"
	RoleDoctor    = "DOCTOR"
	RoleSecretary = "SECRETAIRE"
)

// swagger:model
type User struct {
	Model
	Username  string `json:"username,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	Email     string `json:"email,omitempty"`
	Token     string `json:"token,omitempty" gorm:"-"`
	Password  string `json:"-"`
	PasswordX string `json:"password,omitempty" gorm:"-"`
	IsActive  bool   `json:"is_active"`

	Errors map[string]string `json:"-" gorm:"-"`
}

type Users []User

func (User) TableName() string {
	return "system_accounts"
}

func (u *User) Validate() bool {
	u.Errors = make(map[string]string)
	if u.Username == "" {
		u.Errors["username"] = "username is required"
	}
	if u.Role != RoleAdmin && u.Role != RoleDoctor && u.Role != RoleSecretary {
		u.Errors["role"] = "unknown role"
	}
	if u.Email != "" {
		if err := ValidateFormat(u.Email); err != nil {
			u.Errors["email"] = err.Error()
		}
	}
	return len(u.Errors) == 0
}
