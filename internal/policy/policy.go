// Package policy holds the access decisions for every entity type. Functions
// here are pure: callers supply the principal and any facts from the store
// (such as assignee membership) and apply the verdict themselves.
//
// Projects follow the admin-curated regime: open reads, admin-only writes.
// Requirements and tasks follow the assignment-scoped regime: non-admins see
// and modify only work items they are assigned to.
package policy

import "github.com/suduyun739/project-management-platform/internal/models"

// Principal is the authenticated actor performing an operation.
type Principal struct {
	ID   string
	Role models.Role
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanManageProjects gates project create, update, delete and all ordering
// operations. Project reads are unrestricted and have no gate.
func CanManageProjects(p Principal) bool {
	return p.IsAdmin()
}

// CanReadWorkItem decides single-record reads of requirements and tasks.
func CanReadWorkItem(p Principal, isAssignee bool) bool {
	return p.IsAdmin() || isAssignee
}

// CanUpdateWorkItem decides requirement and task updates. An assignee may
// modify any field, including status.
func CanUpdateWorkItem(p Principal, isAssignee bool) bool {
	return p.IsAdmin() || isAssignee
}

// CanDeleteWorkItem decides requirement and task deletion.
func CanDeleteWorkItem(p Principal) bool {
	return p.IsAdmin()
}

// AssigneeScope returns the assignee filter to apply to a work item list
// query. An explicitly requested filter is honored verbatim for any
// principal; otherwise non-admins are scoped to their own assignments and
// admins are unscoped (nil).
func AssigneeScope(p Principal, requested *string) *string {
	if requested != nil {
		return requested
	}
	if p.IsAdmin() {
		return nil
	}
	id := p.ID
	return &id
}

// AugmentAssignees returns the assignee set to store for a newly created work
// item. A non-admin creator is always included so the item remains visible to
// them; duplicates are collapsed.
func AugmentAssignees(p Principal, assigneeIDs []string) []string {
	ids := uniqueIDs(assigneeIDs)
	if p.IsAdmin() {
		return ids
	}
	for _, id := range ids {
		if id == p.ID {
			return ids
		}
	}
	return append(ids, p.ID)
}

// CanDeleteComment allows the comment's author and admins.
func CanDeleteComment(p Principal, authorID string) bool {
	return p.IsAdmin() || p.ID == authorID
}

// CanUpdateUser allows self-updates and admin updates of anyone.
func CanUpdateUser(p Principal, targetID string) bool {
	return p.IsAdmin() || p.ID == targetID
}

// CanSetRole reports whether a role field in a user update is applied. When
// false the field is silently dropped, not rejected.
func CanSetRole(p Principal) bool {
	return p.IsAdmin()
}

// CanDeleteUser gates user deletion. Deleting the principal's own record is
// rejected separately as invalid input, not as a permission failure.
func CanDeleteUser(p Principal) bool {
	return p.IsAdmin()
}

// CanResetPassword gates administrative password resets.
func CanResetPassword(p Principal) bool {
	return p.IsAdmin()
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
