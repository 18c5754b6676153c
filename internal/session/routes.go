package session

import "trainhub-session/internal/models"

// Dashboard routes by role. Unknown roles fall back to the public landing
// route rather than erroring; the backend owns the role vocabulary.
const (
	RouteLanding              = "/"
	RouteAdminDashboard       = "/admin/dashboard"
	RouteCenterDashboard      = "/center/dashboard"
	RouteAssociationDashboard = "/association/dashboard"
	RouteTrainerDashboard     = "/trainer/dashboard"
	RouteStudentDashboard     = "/student/dashboard"
)

// Navigator receives the post-login destination. The CLI prints it; the
// web shell pushes it into its router; tests record it.
type Navigator interface {
	Navigate(route string)
}

// NopNavigator discards navigation requests.
type NopNavigator struct{}

func (NopNavigator) Navigate(string) {}

// RouteForRole maps a profile role to its dashboard route.
func RouteForRole(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return RouteAdminDashboard
	case models.RoleCenterSupervisor:
		return RouteCenterDashboard
	case models.RoleAssociationSupervisor:
		return RouteAssociationDashboard
	case models.RoleTrainer:
		return RouteTrainerDashboard
	case models.RoleStudent:
		return RouteStudentDashboard
	default:
		return RouteLanding
	}
}
