package infra

import (
	"context"
	"errors"

	"videoadmin/ratelimit/domain"
)

// MultiStats repassa cada evento para todos os stores. Um store com erro não impede os demais.
type MultiStats []domain.StatsStore

func (m MultiStats) Record(ctx context.Context, ev domain.StatsEvent) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
