package middleware

import (
	"github.com/housefit/apartment-management-backend/internal/auth"
)

// Capability names one protected action.
type Capability string

const (
	CapManageProperty  Capability = "property:manage"
	CapManageOwnFlats  Capability = "property:own-fares"
	CapManageUsers     Capability = "users:manage"
	CapGenerateBills   Capability = "bills:generate"
	CapViewOwnBills    Capability = "bills:own"
	CapSubmitPayment   Capability = "payments:submit"
	CapVerifyPayments  Capability = "payments:verify"
	CapSubmitBooking   Capability = "bookings:submit"
	CapSubmitLeave     Capability = "leave:submit"
	CapSubmitTree      Capability = "trees:submit"
	CapUpdateProblem   Capability = "problems:update-status"
	CapReviewRequests  Capability = "requests:review"
	CapManageEmployees Capability = "employees:manage"
	CapEmployeeSelf    Capability = "employees:self"
	CapBroadcast       Capability = "notifications:broadcast"
	CapExportReports   Capability = "reports:export"
	CapViewAuditLogs   Capability = "audit:view"
	CapAwardTopReward  Capability = "trees:award-top"
)

// Capabilities is the role to capability table.
var Capabilities = map[auth.Role][]Capability{
	auth.RoleAdmin: {
		CapManageProperty, CapManageUsers, CapGenerateBills, CapVerifyPayments,
		CapUpdateProblem, CapReviewRequests, CapManageEmployees, CapBroadcast,
		CapExportReports, CapViewAuditLogs, CapAwardTopReward,
	},
	auth.RoleOwner: {
		CapManageOwnFlats,
	},
	auth.RoleTenant: {
		CapViewOwnBills, CapSubmitPayment, CapSubmitBooking, CapSubmitLeave,
		CapSubmitTree,
	},
	auth.RoleEmployee: {
		CapUpdateProblem, CapEmployeeSelf,
	},
	// Visitors only browse public listings.
	auth.RoleVisitor: nil,
}

// Can reports whether role holds capability.
func Can(role auth.Role, capability Capability) bool {
	for _, c := range Capabilities[role] {
		if c == capability {
			return true
		}
	}
	return false
}

// RolesWith lists the roles holding capability, admin first.
func RolesWith(capability Capability) []auth.Role {
	order := []auth.Role{auth.RoleAdmin, auth.RoleOwner, auth.RoleTenant, auth.RoleEmployee, auth.RoleVisitor}
	var roles []auth.Role
	for _, r := range order {
		if Can(r, capability) {
			roles = append(roles, r)
		}
	}
	return roles
}
