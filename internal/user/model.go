package user

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID       int
	Name     string
	Email    string
	Password string
	Role     Role
}
