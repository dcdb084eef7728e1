package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/teleposta/ict-helpdesk/internal/api/dto"
	"github.com/teleposta/ict-helpdesk/internal/domain"
	"github.com/teleposta/ict-helpdesk/internal/service"
)

// DirectoryHandler serves buildings, floors and departments.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListBuildings GET /buildings and GET /admin/buildings.
func (h *DirectoryHandler) ListBuildings(c *fiber.Ctx) error {
	buildings, err := h.directory.ListBuildings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"buildings": dto.NewBuildingResponses(buildings)})
}

// ListDepartments GET /departments and GET /admin/departments.
func (h *DirectoryHandler) ListDepartments(c *fiber.Ctx) error {
	depts, err := h.directory.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"departments": dto.NewDepartmentResponses(depts)})
}

// DepartmentsForBuilding GET /departments/:building. The building is an id or a name.
func (h *DirectoryHandler) DepartmentsForBuilding(c *fiber.Ctx) error {
	dir, err := h.directory.DepartmentsForBuilding(c.UserContext(), domain.ParseRef(c.Params("building")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"building":    dto.NewBuildingResponse(dir.Building),
		"floors":      dto.NewFloorResponses(dir.Floors),
		"departments": dto.NewDepartmentResponses(dir.Departments),
	})
}

// ListFloors GET /admin/floors?building_id=.
func (h *DirectoryHandler) ListFloors(c *fiber.Ctx) error {
	buildingID, err := queryInt64(c, "building_id")
	if err != nil {
		return err
	}
	floors, err := h.directory.ListFloors(c.UserContext(), buildingID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"floors": dto.NewFloorResponses(floors)})
}

// CreateDepartment POST /admin/departments.
func (h *DirectoryHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	dept, err := h.directory.CreateDepartment(c.UserContext(), service.DepartmentInput{
		Name:          req.Name,
		Description:   req.Description,
		ContactPerson: req.ContactPerson,
		PhoneNumber:   req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Department created successfully",
		"department": dto.NewDepartmentResponse(dept),
	})
}
