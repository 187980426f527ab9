package service

import (
	"context"

	"hotelops/internal/domain"
	"hotelops/internal/models"
)

// CatalogService manages the per-hotel service catalog owners edit.
type CatalogService struct {
	store domain.Store
}

func NewCatalogService(store domain.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) UpsertService(ctx context.Context, service *models.Service) error {
	if service.HotelID == "" {
		return ErrHotelRequired
	}
	if service.Key == "" {
		return ErrServiceKeyRequired
	}
	if service.SLAMinutes < 0 {
		return ErrInvalidSLA
	}
	if service.SLAMinutes == 0 {
		service.SLAMinutes = models.DefaultSLAMinutes
	}
	return s.store.UpsertService(ctx, service)
}

func (s *CatalogService) GetServices(ctx context.Context, hotelID string) ([]models.Service, error) {
	if hotelID == "" {
		return nil, ErrHotelRequired
	}
	return s.store.GetServices(ctx, hotelID)
}

func (s *CatalogService) DeactivateService(ctx context.Context, hotelID, key string) error {
	if hotelID == "" {
		return ErrHotelRequired
	}
	if key == "" {
		return ErrServiceKeyRequired
	}
	return s.store.DeactivateService(ctx, hotelID, key)
}

// SeedCatalog loads hotels and services from the config file into the
// store at startup. Upserts, so re-running is harmless.
func (s *CatalogService) SeedCatalog(ctx context.Context, hotels []models.Hotel, services []models.Service) error {
	for i := range hotels {
		if err := s.store.CreateOrUpdateHotel(ctx, &hotels[i]); err != nil {
			return err
		}
	}
	for i := range services {
		if services[i].SLAMinutes == 0 {
			services[i].SLAMinutes = models.DefaultSLAMinutes
		}
		if err := s.store.UpsertService(ctx, &services[i]); err != nil {
			return err
		}
	}
	return nil
}
