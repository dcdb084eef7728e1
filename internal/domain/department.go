package domain

// Department represents an organizational unit tickets are filed for.
type Department struct {
	ID            int64
	Name          string
	Description   string
	ContactPerson string
	PhoneNumber   string
}
