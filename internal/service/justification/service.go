package justification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/justification"
	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/punch"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/database"
)

type JustificationServiceImpl struct {
	tx database.Transactor
	justification.JustificationRepository
	punch.PunchRepository
	clock clock.Clock
}

// CreateJustification implements justification.JustificationService.
func (s *JustificationServiceImpl) CreateJustification(ctx context.Context, req justification.CreateJustificationRequest) (justification.JustificationResponse, error) {
	if err := req.Validate(); err != nil {
		return justification.JustificationResponse{}, err
	}

	var (
		created justification.Justification
		p       punch.Punch
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.PunchRepository.GetByID(ctx, req.PunchID)
		if err != nil {
			return err
		}
		if req.EmployeeID != "" && p.EmployeeID != req.EmployeeID {
			return fmt.Errorf("punch %s: %w", p.ID, justification.ErrNotPunchOwner)
		}
		if p.Status != punch.StatusPending {
			return fmt.Errorf("punch %s is %s, expected %s: %w", p.ID, p.Status, punch.StatusPending, punch.ErrPunchNotPending)
		}

		open, err := s.JustificationRepository.GetPendingByPunchID(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to check open justification of punch %s: %w", p.ID, err)
		}
		if open != nil {
			return fmt.Errorf("punch %s, justification %s: %w", p.ID, open.ID, justification.ErrOpenJustificationExists)
		}

		created, err = s.JustificationRepository.Create(ctx, justification.Justification{
			PunchID:    p.ID,
			EmployeeID: p.EmployeeID,
			CompanyID:  p.CompanyID,
			Category:   justification.Category(req.Category),
			Reason:     req.Reason,
			Status:     justification.StatusPending,
		})
		return err
	})
	if err != nil {
		return justification.JustificationResponse{}, err
	}

	return toJustificationResponse(created, &p), nil
}

// GetJustification implements justification.JustificationService.
func (s *JustificationServiceImpl) GetJustification(ctx context.Context, id string, companyID string) (justification.JustificationResponse, error) {
	j, err := s.justificationInScope(ctx, id, companyID)
	if err != nil {
		return justification.JustificationResponse{}, err
	}

	p, err := s.PunchRepository.GetByID(ctx, j.PunchID)
	if err != nil {
		return justification.JustificationResponse{}, err
	}

	return toJustificationResponse(j, &p), nil
}

// ListJustifications implements justification.JustificationService.
func (s *JustificationServiceImpl) ListJustifications(ctx context.Context, req justification.ListJustificationsRequest) ([]justification.JustificationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filter := justification.JustificationFilter{
		CompanyID:  req.CompanyID,
		EmployeeID: req.EmployeeID,
	}
	if req.Status != nil {
		status := justification.Status(*req.Status)
		filter.Status = &status
	}

	justifications, err := s.JustificationRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]justification.JustificationResponse, 0, len(justifications))
	for _, j := range justifications {
		responses = append(responses, toJustificationResponse(j, nil))
	}
	return responses, nil
}

// ApproveJustification implements justification.JustificationService.
func (s *JustificationServiceImpl) ApproveJustification(ctx context.Context, req justification.ApproveJustificationRequest) (justification.JustificationResponse, error) {
	if err := req.Validate(); err != nil {
		return justification.JustificationResponse{}, err
	}
	return s.review(ctx, req.ID, req.CompanyID, req.ApproverID, justification.StatusApproved, punch.StatusJustified, req.Note)
}

// RejectJustification implements justification.JustificationService.
func (s *JustificationServiceImpl) RejectJustification(ctx context.Context, req justification.RejectJustificationRequest) (justification.JustificationResponse, error) {
	if err := req.Validate(); err != nil {
		return justification.JustificationResponse{}, err
	}
	return s.review(ctx, req.ID, req.CompanyID, req.ApproverID, justification.StatusRejected, punch.StatusRejected, &req.Reason)
}

// review closes a PENDING justification and moves its punch in the same unit of work.
func (s *JustificationServiceImpl) review(
	ctx context.Context,
	id, companyID, approverID string,
	status justification.Status,
	punchStatus punch.Status,
	note *string,
) (justification.JustificationResponse, error) {
	var (
		reviewed justification.Justification
		p        punch.Punch
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		j, err := s.justificationInScope(ctx, id, companyID)
		if err != nil {
			return err
		}
		if !j.IsPending() {
			return fmt.Errorf("justification %s is %s, expected %s: %w", j.ID, j.Status, justification.StatusPending, justification.ErrJustificationAlreadyProcessed)
		}

		now := s.clock.Now()
		j.Status = status
		j.ReviewedBy = &approverID
		j.ReviewedAt = &now
		j.ReviewNote = note
		if err := s.JustificationRepository.Update(ctx, j); err != nil {
			return err
		}

		if err := s.PunchRepository.UpdateStatus(ctx, j.PunchID, punchStatus); err != nil {
			return fmt.Errorf("failed to move punch %s to %s: %w", j.PunchID, punchStatus, err)
		}
		if p, err = s.PunchRepository.GetByID(ctx, j.PunchID); err != nil {
			return err
		}

		reviewed = j
		return nil
	})
	if err != nil {
		return justification.JustificationResponse{}, err
	}

	slog.Info("justification reviewed",
		"justification_id", reviewed.ID,
		"punch_id", reviewed.PunchID,
		"status", reviewed.Status,
		"punch_status", p.Status,
		"reviewed_by", approverID,
	)

	return toJustificationResponse(reviewed, &p), nil
}

// GetStats implements justification.JustificationService.
func (s *JustificationServiceImpl) GetStats(ctx context.Context, companyID string) (justification.StatsResponse, error) {
	stats, err := s.JustificationRepository.CountByStatus(ctx, companyID)
	if err != nil {
		return justification.StatsResponse{}, err
	}

	return justification.StatsResponse{
		Total:    stats.Total,
		Pending:  stats.Pending,
		Approved: stats.Approved,
		Rejected: stats.Rejected,
	}, nil
}

// justificationInScope hides justifications of other companies. An empty companyID skips the check.
func (s *JustificationServiceImpl) justificationInScope(ctx context.Context, id, companyID string) (justification.Justification, error) {
	j, err := s.JustificationRepository.GetByID(ctx, id)
	if err != nil {
		return justification.Justification{}, err
	}
	if companyID != "" && j.CompanyID != companyID {
		return justification.Justification{}, fmt.Errorf("justification with id %s: %w", id, justification.ErrJustificationNotFound)
	}
	return j, nil
}

func toJustificationResponse(j justification.Justification, p *punch.Punch) justification.JustificationResponse {
	response := justification.JustificationResponse{
		ID:         j.ID,
		PunchID:    j.PunchID,
		EmployeeID: j.EmployeeID,
		Category:   string(j.Category),
		Reason:     j.Reason,
		Status:     string(j.Status),
		ReviewedBy: j.ReviewedBy,
		ReviewNote: j.ReviewNote,
		CreatedAt:  j.CreatedAt.Format(time.RFC3339),
	}
	if j.ReviewedAt != nil {
		reviewedAt := j.ReviewedAt.Format(time.RFC3339)
		response.ReviewedAt = &reviewedAt
	}
	if p != nil {
		punchStatus := string(p.Status)
		response.PunchStatus = &punchStatus
	}
	return response
}

func NewJustificationService(
	tx database.Transactor,
	justificationRepo justification.JustificationRepository,
	punchRepo punch.PunchRepository,
	clk clock.Clock,
) justification.JustificationService {
	return &JustificationServiceImpl{
		tx:                      tx,
		JustificationRepository: justificationRepo,
		PunchRepository:         punchRepo,
		clock:                   clk,
	}
}
