package auth

const (
	RolePatient       = "patient"
	RoleDoctor        = "doctor"
	RoleAdministrator = "administrator"
	RoleStaff         = "staff"
)

type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Department     string `json:"department,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is what the sign-up form posts. Password is accepted and
// dropped; nothing is stored.
type Registration struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	Role           string `json:"role,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Department     string `json:"department,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type Tokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the payload of login and register.
type Session struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type demoAccount struct {
	password string
	user     User
	message  string
}

// demoAccounts select a fixed role at login. Any other non-empty pair signs in
// as the administrator.
var demoAccounts = map[string]demoAccount{
	"demo@patient.com": {
		password: "demo123",
		user:     User{ID: "demo-patient-123", Name: "John Smith", Role: RolePatient, Department: "Patient"},
		message:  "Patient login successful",
	},
	"demo@doctor.com": {
		password: "demo123",
		user:     User{ID: "demo-doctor-123", Name: "Dr. Sarah Johnson", Role: RoleDoctor, Department: "Cardiology"},
		message:  "Doctor login successful",
	},
}

var administrator = User{ID: "1", Name: "Dr. Admin", Role: RoleAdministrator, Department: "Administration"}
