package domain

// Actor identifies who is performing a command and whether they hold
// the admin role
type Actor struct {
	OwnerID string
	Admin   bool
}
