package partners

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

type memoryRepo struct {
	partners map[int64]*Partner
	entries  []CapitalEntry
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{partners: make(map[int64]*Partner)}
}

func (r *memoryRepo) CreatePartner(ctx context.Context, req CreatePartnerRequest) (*Partner, error) {
	r.nextID++
	p := &Partner{ID: r.nextID, Name: req.Name, Phone: req.Phone, SharePct: req.SharePct}
	r.partners[p.ID] = p
	return p, nil
}

func (r *memoryRepo) GetPartner(ctx context.Context, id int64) (*Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) ListPartners(ctx context.Context) ([]Partner, error) {
	var out []Partner
	for _, p := range r.partners {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memoryRepo) CreateEntry(ctx context.Context, partnerID int64, req RecordEntryRequest) (*CapitalEntry, error) {
	r.nextID++
	e := CapitalEntry{
		ID: r.nextID, PartnerID: partnerID, Number: "CAP-TEST",
		Kind: req.Kind, Amount: req.Amount, EntryDate: req.EntryDate, Note: req.Note,
	}
	r.entries = append(r.entries, e)
	return &e, nil
}

func (r *memoryRepo) ListEntries(ctx context.Context, partnerID int64) ([]CapitalEntry, error) {
	var out []CapitalEntry
	for _, e := range r.entries {
		if e.PartnerID == partnerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNetPositionStaysSigned(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	partner, err := svc.Create(ctx, CreatePartnerRequest{Name: "Anita"})
	require.NoError(t, err)

	_, err = svc.RecordEntry(ctx, partner.ID, RecordEntryRequest{
		Kind: Contribution, Amount: dec("5000"), EntryDate: day(2024, 1, 1),
	})
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, partner.ID, RecordEntryRequest{
		Kind: Drawing, Amount: dec("1500"), EntryDate: day(2024, 2, 1),
	})
	require.NoError(t, err)

	stmt, err := svc.Statement(ctx, partner.ID, ledger.Window{})
	require.NoError(t, err)
	require.Len(t, stmt.Entries, 2)
	// Net contributor: the partner is owed 3500 by the firm, so the
	// signed balance is negative and must not be clamped.
	require.True(t, stmt.Entries[0].RunningBalance.Equal(dec("-5000")))
	require.True(t, stmt.Entries[1].RunningBalance.Equal(dec("-3500")))
	require.True(t, stmt.Summary.OutstandingBalance.Equal(dec("-3500")))
}

func TestWindowNarrowsAggregatesOnly(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	partner, err := svc.Create(ctx, CreatePartnerRequest{Name: "Bhavin"})
	require.NoError(t, err)

	_, err = svc.RecordEntry(ctx, partner.ID, RecordEntryRequest{
		Kind: Contribution, Amount: dec("2000"), EntryDate: day(2024, 1, 10),
	})
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, partner.ID, RecordEntryRequest{
		Kind: Contribution, Amount: dec("1000"), EntryDate: day(2024, 3, 10),
	})
	require.NoError(t, err)

	from := day(2024, 3, 1)
	to := day(2024, 3, 31)
	stmt, err := svc.Statement(ctx, partner.ID, ledger.Window{From: &from, To: &to})
	require.NoError(t, err)
	// Only the March entry is displayed, but its running balance and
	// the lifetime figure still reflect the full history.
	require.Len(t, stmt.Entries, 1)
	require.True(t, stmt.Entries[0].RunningBalance.Equal(dec("-3000")))
	require.True(t, stmt.Summary.OutstandingBalance.Equal(dec("-3000")))
	require.Equal(t, 1, stmt.Summary.EventCountInWindow)
	require.True(t, stmt.Summary.WindowedCreditTotal.Equal(dec("1000")))
}

func TestPositionsRanked(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, CreatePartnerRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreatePartnerRequest{Name: "B"})
	require.NoError(t, err)

	_, err = svc.RecordEntry(ctx, a.ID, RecordEntryRequest{
		Kind: Contribution, Amount: dec("100"), EntryDate: day(2024, 1, 1),
	})
	require.NoError(t, err)
	_, err = svc.RecordEntry(ctx, b.ID, RecordEntryRequest{
		Kind: Drawing, Amount: dec("100"), EntryDate: day(2024, 1, 1),
	})
	require.NoError(t, err)

	positions, err := svc.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 2)
	// Highest signed balance first: the net drawer before the net
	// contributor.
	require.Equal(t, b.ID, positions[0].HolderID)
	require.Equal(t, a.ID, positions[1].HolderID)
}

func TestRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	partner, err := svc.Create(ctx, CreatePartnerRequest{Name: "C"})
	require.NoError(t, err)

	_, err = svc.RecordEntry(ctx, partner.ID, RecordEntryRequest{
		Kind: Drawing, Amount: dec("-10"), EntryDate: day(2024, 1, 1),
	})
	require.Error(t, err)
}
