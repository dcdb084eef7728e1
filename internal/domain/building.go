package domain

// Building is a site that hosts floors and the people filing tickets.
type Building struct {
	ID            int64
	Name          string
	Address       string
	Floors        int
	Description   string
	ContactPerson string
	PhoneNumber   string
}

// Floor is a labelled level of a building. Labels are free text ("15", "Ground Floor").
type Floor struct {
	ID           int64
	BuildingID   int64
	BuildingName string
	Label        string
	Description  string
}
