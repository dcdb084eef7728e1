package dto

import "github.com/teleposta/ict-helpdesk/internal/domain"

// DepartmentRequest payload for POST /admin/departments.
type DepartmentRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Description   string `json:"description" validate:"max=1000"`
	ContactPerson string `json:"contact_person" validate:"max=100"`
	PhoneNumber   string `json:"phone_number" validate:"max=20"`
}

type BuildingResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	Floors        int    `json:"floors"`
	Description   string `json:"description"`
	ContactPerson string `json:"contact_person"`
	PhoneNumber   string `json:"phone_number"`
}

type FloorResponse struct {
	ID           int64  `json:"id"`
	BuildingID   int64  `json:"building_id"`
	BuildingName string `json:"building_name"`
	Label        string `json:"label"`
	Description  string `json:"description"`
}

type DepartmentResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	ContactPerson string `json:"contact_person"`
	PhoneNumber   string `json:"phone_number"`
}

func NewBuildingResponse(b *domain.Building) BuildingResponse {
	return BuildingResponse{
		ID:            b.ID,
		Name:          b.Name,
		Address:       b.Address,
		Floors:        b.Floors,
		Description:   b.Description,
		ContactPerson: b.ContactPerson,
		PhoneNumber:   b.PhoneNumber,
	}
}

func NewBuildingResponses(buildings []domain.Building) []BuildingResponse {
	out := make([]BuildingResponse, 0, len(buildings))
	for i := range buildings {
		out = append(out, NewBuildingResponse(&buildings[i]))
	}
	return out
}

func NewFloorResponses(floors []domain.Floor) []FloorResponse {
	out := make([]FloorResponse, 0, len(floors))
	for _, f := range floors {
		out = append(out, FloorResponse{
			ID:           f.ID,
			BuildingID:   f.BuildingID,
			BuildingName: f.BuildingName,
			Label:        f.Label,
			Description:  f.Description,
		})
	}
	return out
}

func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		ContactPerson: d.ContactPerson,
		PhoneNumber:   d.PhoneNumber,
	}
}

func NewDepartmentResponses(depts []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(depts))
	for i := range depts {
		out = append(out, NewDepartmentResponse(&depts[i]))
	}
	return out
}
