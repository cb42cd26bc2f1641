package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-token-screener/internal/domain"
)

// recordingStore counts saves and optionally fails them.
type recordingStore struct {
	saves   int
	saveErr error
}

func (s *recordingStore) SaveRanking(_ context.Context, _ *domain.Ranking) error {
	s.saves++
	return s.saveErr
}

func (s *recordingStore) LatestRanking(_ context.Context, _ string) (*domain.Ranking, error) {
	return nil, ErrNotFound
}

func teeRanking() *domain.Ranking {
	return &domain.Ranking{TokenAddress: "mint1", ObservedAt: time.Now().UTC()}
}

func TestTeeAnalysisStore_WritesBoth(t *testing.T) {
	primary := &recordingStore{}
	secondary := &recordingStore{}
	tee := NewTeeAnalysisStore(primary, secondary)

	if err := tee.SaveRanking(context.Background(), teeRanking()); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}
	if primary.saves != 1 || secondary.saves != 1 {
		t.Errorf("expected one save each, got primary=%d secondary=%d", primary.saves, secondary.saves)
	}
}

func TestTeeAnalysisStore_SecondaryFailureIgnored(t *testing.T) {
	primary := &recordingStore{}
	secondary := &recordingStore{saveErr: errors.New("sink down")}
	tee := NewTeeAnalysisStore(primary, secondary)

	if err := tee.SaveRanking(context.Background(), teeRanking()); err != nil {
		t.Fatalf("a secondary failure must not surface: %v", err)
	}
}

func TestTeeAnalysisStore_PrimaryFailureSurfaces(t *testing.T) {
	primaryErr := errors.New("disk full")
	primary := &recordingStore{saveErr: primaryErr}
	secondary := &recordingStore{}
	tee := NewTeeAnalysisStore(primary, secondary)

	if err := tee.SaveRanking(context.Background(), teeRanking()); !errors.Is(err, primaryErr) {
		t.Fatalf("expected primary error, got %v", err)
	}
	if secondary.saves != 0 {
		t.Errorf("secondary must not be written after a primary failure, got %d saves", secondary.saves)
	}
}

func TestTeeAnalysisStore_NilSecondary(t *testing.T) {
	primary := &recordingStore{}
	tee := NewTeeAnalysisStore(primary, nil)

	if err := tee.SaveRanking(context.Background(), teeRanking()); err != nil {
		t.Fatalf("SaveRanking: %v", err)
	}
}
