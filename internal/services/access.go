package services

import "campusresponse/internal/models"

// CanView reports whether a viewer with role may open the incident:
// admins, the reporter, and the department owning the category.
func CanView(role models.Role, incident *models.Incident, viewerID uint) bool {
	if incident == nil {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	if viewerID != 0 && incident.ReportedBy(viewerID) {
		return true
	}
	return handlesCategory(role, incident.Category)
}

// CanUpdate reports whether role may change the incident status.
// Reporters cannot update their own incidents; "other" is admin-only.
func CanUpdate(role models.Role, incident *models.Incident) bool {
	if incident == nil {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	return handlesCategory(role, incident.Category)
}

func handlesCategory(role models.Role, category models.Category) bool {
	owner, ok := category.DepartmentRole()
	return ok && owner == role
}
