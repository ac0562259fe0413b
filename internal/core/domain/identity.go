package domain

// UserID is the durable account identifier issued by the persistence API.
type UserID int64

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleCandidate Role = "CANDIDATE"
)

// Identity is the resolved authentication result for one connection. It is
// immutable for the connection's lifetime.
type Identity struct {
	ID        UserID
	Role      Role
	FirstName string
	LastName  string
}

// Account is the durable user record owned by the persistence store. The
// coordinator only ever reads it.
type Account struct {
	ID        UserID `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Deleted   bool   `json:"deleted"`
}

func (a *Account) Identity() Identity {
	return Identity{
		ID:        a.ID,
		Role:      a.Role,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
