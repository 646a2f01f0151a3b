package quotations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seedQuotation(f *fixture, code string, status Status, validUntil time.Time) {
	f.repo.quotations[code] = Quotation{
		Code:       code,
		Client:     "ACME SA",
		Status:     status,
		ValidUntil: timePtr(validUntil),
	}
	f.repo.order = append(f.repo.order, code)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSweepExpiresOverdueQuotations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQuotation(f, "GAN-IM-25/11/001", StatusSent, testTime().AddDate(0, 0, -1))

	changed, err := f.svc.SweepExpiring(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, changed)
	require.Equal(t, StatusExpired, f.repo.quotations["GAN-IM-25/11/001"].Status)
	require.Equal(t, []string{"GAN-IM-25/11/001:state_expired"}, f.tasks.notifications)
}

func TestSweepFlagsAboutToExpire(t *testing.T) {
	f := newFixture(t)
	seedQuotation(f, "GAN-IM-25/11/002", StatusCreated, testTime().AddDate(0, 0, 2))

	changed, err := f.svc.SweepExpiring(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, changed)
	require.Equal(t, StatusAboutToExpire, f.repo.quotations["GAN-IM-25/11/002"].Status)
}

func TestSweepSkipsSettledStates(t *testing.T) {
	f := newFixture(t)
	seedQuotation(f, "GAN-IM-25/11/003", StatusAccepted, testTime().AddDate(0, 0, -5))
	seedQuotation(f, "GAN-IM-25/11/004", StatusExpired, testTime().AddDate(0, 0, -5))

	changed, err := f.svc.SweepExpiring(context.Background())
	require.NoError(t, err)
	require.Zero(t, changed)
	require.Empty(t, f.tasks.notifications)
}

func TestSweepIsIdempotentPerState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedQuotation(f, "GAN-IM-25/11/005", StatusSent, testTime().AddDate(0, 0, 1))

	changed, err := f.svc.SweepExpiring(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	// second pass sees the persisted state and stays quiet
	changed, err = f.svc.SweepExpiring(ctx)
	require.NoError(t, err)
	require.Zero(t, changed)
	require.Len(t, f.tasks.notifications, 1)
}

func TestSweepSurfacesListingOutage(t *testing.T) {
	f := newFixture(t)
	f.repo.listErr = errors.New("connection refused")
	seedQuotation(f, "GAN-IM-25/11/006", StatusSent, testTime().AddDate(0, 0, -1))

	_, err := f.svc.SweepExpiring(context.Background())
	require.Error(t, err)
}
