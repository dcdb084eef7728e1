package dto

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teleposta/ict-helpdesk/internal/domain"
)

func TestRefValue_Unmarshal(t *testing.T) {
	var req CreateTicketRequest
	body := `{"building": 3, "floor": "15", "department": " ICT Department ", "issue_type": "WiFi", "description": "slow"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, domain.RefByID(3), req.Building.Ref)
	assert.Equal(t, domain.RefByName("15"), req.Floor.Ref, "numeric strings stay names")
	assert.Equal(t, "ICT Department", req.Department.Name)
	assert.True(t, req.Building.Present())
}

func TestRefValue_Invalid(t *testing.T) {
	var req CreateTicketRequest
	assert.Error(t, json.Unmarshal([]byte(`{"building": true}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"building": -1}`), &req))

	require.NoError(t, json.Unmarshal([]byte(`{"building": null}`), &req))
	assert.False(t, req.Building.Present())
}

func TestValidate(t *testing.T) {
	err := Validate(&LoginRequest{Username: "admin"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "password is required")

	err = Validate(&ChatRequest{Message: strings.Repeat("a", 2001)})
	assert.ErrorContains(t, err, "message must be at most 2000 characters long")

	assert.NoError(t, Validate(&LoginRequest{Username: "admin", Password: "secret"}))
}
