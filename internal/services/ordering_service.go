package services

import (
	"errors"
	"fmt"

	"github.com/suduyun739/project-management-platform/internal/policy"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrInvalidSortAction = errors.New("invalid sort action")
	ErrInvalidIDList     = errors.New("invalid project id list")
)

// SortAction is a manual ordering operation on the project collection.
type SortAction string

const (
	SortActionMoveUp   SortAction = "moveUp"
	SortActionMoveDown SortAction = "moveDown"
	SortActionPinToTop SortAction = "pinToTop"
)

// OrderingService maintains the dense integer ranking over the project
// collection. Every mutation runs inside a single repository transaction and
// requires the admin gate shared with the rest of project management.
type OrderingService struct {
	projectRepo repository.ProjectRepository
}

// NewOrderingService creates a new OrderingService.
func NewOrderingService(projectRepo repository.ProjectRepository) *OrderingService {
	return &OrderingService{projectRepo: projectRepo}
}

// Sort applies a single-project ordering action. Moving the first project up
// or the last project down is a no-op, not an error.
func (s *OrderingService) Sort(actor policy.Principal, projectID string, action SortAction) error {
	if !policy.CanManageProjects(actor) {
		return ErrOnlyAdminManagesProjects
	}

	switch action {
	case SortActionMoveUp, SortActionMoveDown, SortActionPinToTop:
	default:
		return ErrInvalidSortAction
	}

	projects, err := s.projectRepo.ListOrdered()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	currentIndex := -1
	for i, p := range projects {
		if p.ID == projectID {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return ErrProjectNotFound
	}

	updates := make(map[string]int)

	switch action {
	case SortActionPinToTop:
		// The pinned project takes rank 1; everything that preceded it
		// shifts down by one position, everything after keeps its
		// relative position. Values may leave gaps but stay unique.
		for i, p := range projects {
			switch {
			case p.ID == projectID:
				updates[p.ID] = 1
			case i < currentIndex:
				updates[p.ID] = i + 2
			default:
				updates[p.ID] = i + 1
			}
		}
	case SortActionMoveUp:
		if currentIndex == 0 {
			return nil
		}
		prev := projects[currentIndex-1]
		updates[projectID] = prev.SortOrder
		updates[prev.ID] = projects[currentIndex].SortOrder
	case SortActionMoveDown:
		if currentIndex == len(projects)-1 {
			return nil
		}
		next := projects[currentIndex+1]
		updates[projectID] = next.SortOrder
		updates[next.ID] = projects[currentIndex].SortOrder
	}

	if err := s.projectRepo.UpdateSortOrders(updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to update sort order: %w", err)
	}
	return nil
}

// Reorder assigns each listed project the sort order of its 1-based position,
// atomically. Projects absent from the list are left untouched, even when
// that leaves their sort order stale relative to the renumbered subset.
func (s *OrderingService) Reorder(actor policy.Principal, projectIDs []string) error {
	if !policy.CanManageProjects(actor) {
		return ErrOnlyAdminManagesProjects
	}
	if projectIDs == nil {
		return ErrInvalidIDList
	}
	if len(projectIDs) == 0 {
		return nil
	}

	updates := make(map[string]int, len(projectIDs))
	for i, id := range projectIDs {
		updates[id] = i + 1
	}

	if err := s.projectRepo.UpdateSortOrders(updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to reorder projects: %w", err)
	}
	return nil
}
