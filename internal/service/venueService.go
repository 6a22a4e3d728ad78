package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	repository "github.com/samiserrag/denver-songwriters-collective-sub014/internal/database/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/schedule"
)

// CreateVenueRequest represents the data needed to create a venue
type CreateVenueRequest struct {
	Slug          string   `json:"slug" binding:"max=255"`
	Name          string   `json:"name" binding:"required,min=1,max=255"`
	Address       string   `json:"address" binding:"required,max=255"`
	City          string   `json:"city" binding:"required,max=100"`
	State         string   `json:"state" binding:"required,max=50"`
	Zip           string   `json:"zip" binding:"required,max=20"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	GoogleMapsURL string   `json:"google_maps_url" binding:"omitempty,url"`
	WebsiteURL    string   `json:"website_url" binding:"omitempty,url"`
	ManagerID     *int64   `json:"manager_id"`
}

// UpdateVenueRequest represents the data needed to update a venue
type UpdateVenueRequest struct {
	Name          *string  `json:"name,omitempty"`
	Address       *string  `json:"address,omitempty"`
	City          *string  `json:"city,omitempty"`
	State         *string  `json:"state,omitempty"`
	Zip           *string  `json:"zip,omitempty"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
	GoogleMapsURL *string  `json:"google_maps_url,omitempty" binding:"omitempty,url"`
	WebsiteURL    *string  `json:"website_url,omitempty" binding:"omitempty,url"`
	ManagerID     *int64   `json:"manager_id,omitempty"`
}

type venueService struct {
	venueRepo repository.VenueRepository
	eventRepo repository.EventRepository
}

// NewVenueService creates a new instance of VenueService
func NewVenueService(
	venueRepo repository.VenueRepository,
	eventRepo repository.EventRepository,
) VenueService {
	return &venueService{
		venueRepo: venueRepo,
		eventRepo: eventRepo,
	}
}

// canEditVenue allows the venue manager, any host with an event at the
// venue, and admins.
func (s *venueService) canEditVenue(ctx context.Context, actor *entity.User, venue *entity.Venue) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	if venue.ManagerID != nil && *venue.ManagerID == actor.ID {
		return true
	}
	if !actor.IsHost() {
		return false
	}
	events, err := s.eventRepo.GetByVenueID(ctx, venue.ID)
	if err != nil {
		logrus.WithError(err).Warn("failed to check venue events for permission")
		return false
	}
	for _, ev := range events {
		if ev.HostID == actor.ID {
			return true
		}
	}
	return false
}

func (s *venueService) CreateVenue(ctx context.Context, actor *entity.User, req *CreateVenueRequest) (*entity.Venue, error) {
	if actor == nil || !actor.IsHost() {
		return nil, entity.ErrForbidden
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Name)
	}

	venue := &entity.Venue{
		Slug:          slug,
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		State:         req.State,
		Zip:           req.Zip,
		Lat:           req.Lat,
		Lng:           req.Lng,
		GoogleMapsURL: req.GoogleMapsURL,
		WebsiteURL:    req.WebsiteURL,
		ManagerID:     req.ManagerID,
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}

	logrus.WithFields(logrus.Fields{"venue_id": venue.ID, "slug": venue.Slug}).Info("venue created")
	return venue, nil
}

func (s *venueService) GetVenue(ctx context.Context, id int64) (*entity.Venue, error) {
	return s.venueRepo.GetByID(ctx, id)
}

func (s *venueService) GetVenueBySlug(ctx context.Context, slug string) (*entity.Venue, error) {
	return s.venueRepo.GetBySlug(ctx, slug)
}

func (s *venueService) GetAllVenues(ctx context.Context) ([]*entity.Venue, error) {
	return s.venueRepo.GetAll(ctx)
}

func (s *venueService) UpdateVenue(ctx context.Context, actor *entity.User, id int64, req *UpdateVenueRequest) (*entity.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canEditVenue(ctx, actor, venue) {
		return nil, entity.ErrForbidden
	}

	if req.Name != nil {
		venue.Name = *req.Name
	}
	if req.Address != nil {
		venue.Address = *req.Address
	}
	if req.City != nil {
		venue.City = *req.City
	}
	if req.State != nil {
		venue.State = *req.State
	}
	if req.Zip != nil {
		venue.Zip = *req.Zip
	}
	if req.Lat != nil {
		venue.Lat = req.Lat
	}
	if req.Lng != nil {
		venue.Lng = req.Lng
	}
	if req.GoogleMapsURL != nil {
		venue.GoogleMapsURL = *req.GoogleMapsURL
	}
	if req.WebsiteURL != nil {
		venue.WebsiteURL = *req.WebsiteURL
	}
	if req.ManagerID != nil {
		venue.ManagerID = req.ManagerID
	}

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, actor *entity.User, id int64) error {
	if actor == nil || !actor.IsAdmin() {
		return entity.ErrForbidden
	}

	events, err := s.eventRepo.GetByVenueID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check venue events: %w", err)
	}
	if len(events) > 0 {
		return fmt.Errorf("venue has %d events attached: %w", len(events), entity.ErrInvalidInput)
	}

	return s.venueRepo.Delete(ctx, id)
}

func (s *venueService) GetDirectionsURL(ctx context.Context, id int64) (string, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return schedule.VenueDirectionsURL(venue), nil
}
