package internal

// Role is the fixed set of user roles. Values match the role_id column.
type Role int64

const (
	RoleAdministrator    Role = 1
	RoleFaculty          Role = 2
	RoleLabTechnician    Role = 3
	RoleStudentAssistant Role = 4
)

func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleFaculty:
		return "faculty"
	case RoleLabTechnician:
		return "lab_technician"
	case RoleStudentAssistant:
		return "student_assistant"
	}
	return "unknown"
}

func (r Role) Valid() bool {
	return r >= RoleAdministrator && r <= RoleStudentAssistant
}

// Capability is a named permission derived from a role. Capabilities are
// never persisted; the mapping below is the whole policy.
type Capability string

const (
	CapManageEquipment    Capability = "manage_equipment"
	CapManageRooms        Capability = "manage_rooms"
	CapApproveBorrowing   Capability = "approve_borrowing"
	CapManageMaintenance  Capability = "manage_maintenance"
	CapManageUsers        Capability = "manage_users"
	CapViewReports        Capability = "view_reports"
	CapViewAllMaintenance Capability = "view_all_maintenance"
	CapViewAllBorrowings  Capability = "view_all_borrowings"
	CapBorrowEquipment    Capability = "borrow_equipment"
	CapViewEquipment      Capability = "view_equipment"
	CapViewRooms          Capability = "view_rooms"
	CapViewMaintenance    Capability = "view_maintenance"
	CapViewBorrowings     Capability = "view_borrowings"
	CapReportMaintenance  Capability = "report_maintenance"
)

// baseCapabilities are granted to every authenticated user regardless of role.
var baseCapabilities = []Capability{
	CapBorrowEquipment,
	CapViewEquipment,
	CapViewRooms,
	CapViewMaintenance,
	CapViewBorrowings,
	CapReportMaintenance,
}

var elevatedCapabilities = map[Role][]Capability{
	RoleAdministrator: {
		CapManageEquipment,
		CapManageRooms,
		CapApproveBorrowing,
		CapManageMaintenance,
		CapManageUsers,
		CapViewReports,
		CapViewAllMaintenance,
		CapViewAllBorrowings,
	},
	RoleLabTechnician: {
		CapManageEquipment,
		CapApproveBorrowing,
		CapManageMaintenance,
		CapViewReports,
		CapViewAllMaintenance,
		CapViewAllBorrowings,
	},
	RoleFaculty:          {},
	RoleStudentAssistant: {},
}

// CapabilitiesOf returns the full capability set for a role. The mapping is
// total: every valid role yields a non-empty set.
func CapabilitiesOf(role Role) []Capability {
	if !role.Valid() {
		return nil
	}
	caps := make([]Capability, 0, len(baseCapabilities)+len(elevatedCapabilities[role]))
	caps = append(caps, baseCapabilities...)
	caps = append(caps, elevatedCapabilities[role]...)
	return caps
}

// HasCapability reports whether a role grants the named capability.
func HasCapability(role Role, capability Capability) bool {
	for _, c := range CapabilitiesOf(role) {
		if c == capability {
			return true
		}
	}
	return false
}

// LandingPath returns the role-specific destination after login.
func LandingPath(role Role) string {
	switch role {
	case RoleAdministrator:
		return "/admin"
	case RoleFaculty:
		return "/faculty"
	case RoleLabTechnician:
		return "/technician"
	case RoleStudentAssistant:
		return "/student"
	}
	return "/"
}
