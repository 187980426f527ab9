package service

import (
	"context"

	"hotelops/internal/domain"
	"hotelops/internal/events"
	"hotelops/internal/metrics"
	"hotelops/internal/models"

	"github.com/rs/zerolog"
)

// RewardService validates claim inputs and delegates the balance check,
// debit and voucher insert to the store's atomic claim. This layer never
// computes a balance itself: after a mutation callers reload
// authoritative state from the store.
type RewardService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	notify   domain.NotifyEnqueuer
	logger   *zerolog.Logger
}

func NewRewardService(store domain.Store, eventBus domain.EventPublisher, notify domain.NotifyEnqueuer, logger *zerolog.Logger) *RewardService {
	return &RewardService{
		store:    store,
		eventBus: eventBus,
		notify:   notify,
		logger:   logger,
	}
}

// ValidateClaim checks inputs in order, each with a distinct failure
// reason, without touching the store.
func ValidateClaim(userID, hotelID string, amountPaise int64) error {
	if userID == "" {
		return ErrUserRequired
	}
	if hotelID == "" {
		return ErrHotelRequired
	}
	if amountPaise <= 0 {
		return ErrAmountNotPositive
	}
	if amountPaise%models.VoucherStepPaise != 0 {
		return ErrAmountDenomination
	}
	if amountPaise < models.VoucherMinPaise {
		return ErrAmountBelowMinimum
	}
	return nil
}

// ClaimRewards converts balance into a voucher. The double-spend guard
// lives entirely in the store transaction; a concurrent claim that loses
// the race surfaces as ErrInsufficientBalance.
func (s *RewardService) ClaimRewards(ctx context.Context, userID, hotelID string, amountPaise int64) (*models.Voucher, error) {
	if err := ValidateClaim(userID, hotelID, amountPaise); err != nil {
		return nil, err
	}

	voucher, err := s.store.ClaimVoucher(ctx, userID, hotelID, amountPaise)
	if err != nil {
		return nil, err
	}
	metrics.IncVoucherIssued()

	s.publishVoucherEvent(voucher)
	s.enqueueIssueNotice(ctx, voucher)

	return voucher, nil
}

func (s *RewardService) GetBalance(ctx context.Context, userID, hotelID string) (int64, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}
	if hotelID == "" {
		return 0, ErrHotelRequired
	}
	return s.store.GetRewardBalance(ctx, userID, hotelID)
}

func (s *RewardService) GetVouchers(ctx context.Context, userID, hotelID string) ([]models.Voucher, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if hotelID == "" {
		return nil, ErrHotelRequired
	}
	return s.store.GetVouchers(ctx, userID, hotelID)
}

func (s *RewardService) publishVoucherEvent(voucher *models.Voucher) {
	if s.eventBus == nil {
		return
	}

	payload := events.VoucherEventPayload{
		VoucherID:   voucher.ID,
		Code:        voucher.Code,
		UserID:      voucher.UserID,
		HotelID:     voucher.HotelID,
		AmountPaise: voucher.AmountPaise,
		ExpiresAt:   voucher.ExpiresAt,
	}

	if err := s.eventBus.PublishJSON(events.EventVoucherIssued, payload); err != nil {
		s.logger.Error().Err(err).Str("voucher_id", voucher.ID).Msg("publish event error")
	}
}

func (s *RewardService) enqueueIssueNotice(ctx context.Context, voucher *models.Voucher) {
	if s.notify == nil {
		return
	}

	err := s.notify.Enqueue(ctx, "voucher_issued", voucher.ID, map[string]interface{}{
		"title": "Voucher issued",
		"text":  "Your voucher " + voucher.Code + " is ready to use.",
		"meta": map[string]string{
			"hotel_id": voucher.HotelID,
			"user_id":  voucher.UserID,
			"code":     voucher.Code,
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("voucher_id", voucher.ID).Msg("notify enqueue error")
	}
}
