package handlers

import (
	"strconv"

	"github.com/MForbesPrim/primith-portal/internal/services"
	"github.com/MForbesPrim/primith-portal/internal/utils"
	"github.com/gin-gonic/gin"
)

// paramID parses a numeric path parameter, writing the error response itself.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional numeric query parameter.
func queryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(parsed)
	return &v
}

// requireRDMOrg resolves the organizationId query parameter and enforces the
// caller's membership plus an active RDM license for it.
func requireRDMOrg(c *gin.Context, rdm *services.RDMService) (uint, bool) {
	userID := c.GetUint("user_id")

	orgID := queryUint(c, "organizationId")
	if orgID == nil {
		utils.SendValidationError(c, "Organization ID is required")
		return 0, false
	}

	hasAccess, err := rdm.HasAccess(userID, *orgID)
	if err != nil {
		utils.SendInternalError(c, "Error checking RDM access", err)
		return 0, false
	}
	if !hasAccess {
		utils.SendForbidden(c, "RDM access required")
		return 0, false
	}

	return *orgID, true
}
