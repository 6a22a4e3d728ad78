package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
)

// CreateSlotsRequest describes a run of timeslots for one occurrence.
type CreateSlotsRequest struct {
	Count           int               `json:"count" binding:"required,min=1,max=100"`
	FirstStart      *entity.TimeOfDay `json:"first_start"`
	DurationMinutes int               `json:"duration_minutes" binding:"min=0,max=120"`
}

type slotService struct {
	slotRepo  repository.SlotRepository
	eventRepo repository.EventRepository
}

// NewSlotService creates a new instance of SlotService
func NewSlotService(
	slotRepo repository.SlotRepository,
	eventRepo repository.EventRepository,
) SlotService {
	return &slotService{
		slotRepo:  slotRepo,
		eventRepo: eventRepo,
	}
}

func (s *slotService) CreateSlots(ctx context.Context, actor *entity.User, eventID int64, dateKey string, req *CreateSlotsRequest) ([]*entity.EventSlot, error) {
	if !schedule.IsValidDateKey(dateKey) {
		return nil, entity.ErrInvalidDateKey
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !canManageEvent(actor, &event.Event) {
		return nil, entity.ErrForbidden
	}

	existing, err := s.slotRepo.GetByEventAndDate(ctx, eventID, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing slots: %w", err)
	}
	nextIndex := 0
	for _, slot := range existing {
		if slot.SlotIndex >= nextIndex {
			nextIndex = slot.SlotIndex + 1
		}
	}

	slots := make([]*entity.EventSlot, 0, req.Count)
	start := req.FirstStart
	for i := 0; i < req.Count; i++ {
		slot := &entity.EventSlot{
			EventID:   eventID,
			DateKey:   dateKey,
			SlotIndex: nextIndex + i,
			StartTime: start,
		}
		if start != nil && req.DurationMinutes > 0 {
			end := start.AddMinutes(req.DurationMinutes)
			slot.EndTime = &end
			start = &end
		}
		slots = append(slots, slot)
	}

	if err := s.slotRepo.CreateBatch(ctx, slots); err != nil {
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"event_id": eventID,
		"date_key": dateKey,
		"count":    len(slots),
	}).Info("timeslots created")

	return slots, nil
}

func (s *slotService) GetSlots(ctx context.Context, eventID int64, dateKey string) ([]*entity.EventSlotWithPerformer, error) {
	if !schedule.IsValidDateKey(dateKey) {
		return nil, entity.ErrInvalidDateKey
	}
	return s.slotRepo.GetByEventAndDate(ctx, eventID, dateKey)
}

// ClaimSlot is a straight pass-through to the conditional update; the
// database decides races, not this layer.
func (s *slotService) ClaimSlot(ctx context.Context, slotID, performerID int64) (*entity.EventSlot, error) {
	if err := s.slotRepo.Claim(ctx, slotID, performerID); err != nil {
		return nil, err
	}
	return s.slotRepo.GetByID(ctx, slotID)
}

func (s *slotService) UnclaimSlot(ctx context.Context, slotID, performerID int64) error {
	return s.slotRepo.Unclaim(ctx, slotID, performerID)
}

func (s *slotService) DeleteSlots(ctx context.Context, actor *entity.User, eventID int64, dateKey string) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !canManageEvent(actor, &event.Event) {
		return entity.ErrForbidden
	}
	return s.slotRepo.DeleteByEventAndDate(ctx, eventID, dateKey)
}
