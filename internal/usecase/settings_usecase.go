package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/pdrm55/vesthub/internal/domain"
)

// SettingsUseCase serves system settings with a cache-aside layer in front of
// the store. Setting changes apply prospectively only; nothing in the ledger
// is recomputed when a value changes.
type SettingsUseCase struct {
	settingRepo SettingRepository
	cache       Cache
	logger      zerolog.Logger
}

// NewSettingsUseCase creates a new SettingsUseCase. cache may be nil, in which
// case every read goes to the store.
func NewSettingsUseCase(settingRepo SettingRepository, cache Cache, logger zerolog.Logger) *SettingsUseCase {
	return &SettingsUseCase{
		settingRepo: settingRepo,
		cache:       cache,
		logger:      logger,
	}
}

// ReferralPercentage returns the current referral percentage, defaulting to
// 2.0 when unset. It satisfies ReferralRateSource for the accrual engine.
func (uc *SettingsUseCase) ReferralPercentage(ctx context.Context) (decimal.Decimal, error) {
	value, err := uc.get(ctx, domain.SettingReferralPercentage)
	if errors.Is(err, domain.ErrSettingNotFound) {
		value = domain.DefaultReferralPercentage
	} else if err != nil {
		return decimal.Zero, err
	}

	percent, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed %s setting %q: %w", domain.SettingReferralPercentage, value, err)
	}

	return percent, nil
}

// SetReferralPercentage updates the referral percentage and drops the cached
// value so the next accrual run sees the change.
func (uc *SettingsUseCase) SetReferralPercentage(ctx context.Context, percent decimal.Decimal) error {
	if err := domain.ValidatePercentage(percent); err != nil {
		return err
	}

	if err := uc.settingRepo.Set(ctx, domain.SettingReferralPercentage, percent.String()); err != nil {
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.Delete(ctx, cacheKey(domain.SettingReferralPercentage)); err != nil {
			uc.logger.Warn().Err(err).Msg("failed to invalidate settings cache")
		}
	}

	return nil
}

func (uc *SettingsUseCase) get(ctx context.Context, key string) (string, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey(key)); err == nil {
			return cached, nil
		}
	}

	value, err := uc.settingRepo.Get(ctx, key)
	if err != nil {
		return "", err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, cacheKey(key), value, SettingsCacheTTL); err != nil {
			uc.logger.Warn().Err(err).Msg("failed to cache setting")
		}
	}

	return value, nil
}

func cacheKey(key string) string {
	return "settings:" + key
}
