package domain

// User is the authenticated Harvest user the entries belong to.
type User struct {
	ID        int64
	FirstName string
	LastName  string
}

// ProjectAssignment is one project the current user may track time against,
// together with the tasks assigned to it. It backs the timer picker surface.
type ProjectAssignment struct {
	Project Ref
	Client  string
	Tasks   []Ref
}
