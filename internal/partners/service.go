package partners

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// RepositoryPort defines data access methods for partners.
type RepositoryPort interface {
	CreatePartner(ctx context.Context, req CreatePartnerRequest) (*Partner, error)
	GetPartner(ctx context.Context, id int64) (*Partner, error)
	ListPartners(ctx context.Context) ([]Partner, error)
	CreateEntry(ctx context.Context, partnerID int64, req RecordEntryRequest) (*CapitalEntry, error)
	ListEntries(ctx context.Context, partnerID int64) ([]CapitalEntry, error)
}

// Service handles partner capital accounting. Capital statements use
// net-position semantics: negative balances stay negative.
type Service struct {
	repo       RepositoryPort
	validate   *validator.Validate
	statements *ledger.StatementCache
}

// NewService constructs the service.
func NewService(repo RepositoryPort) *Service {
	return &Service{
		repo:       repo,
		validate:   validator.New(),
		statements: ledger.NewStatementCache(ledger.DefaultCacheSize),
	}
}

// Create registers a partner.
func (s *Service) Create(ctx context.Context, req CreatePartnerRequest) (*Partner, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("partners: validate: %w", err)
	}
	return s.repo.CreatePartner(ctx, req)
}

// Get fetches one partner.
func (s *Service) Get(ctx context.Context, id int64) (*Partner, error) {
	return s.repo.GetPartner(ctx, id)
}

// List returns every partner.
func (s *Service) List(ctx context.Context) ([]Partner, error) {
	return s.repo.ListPartners(ctx)
}

// RecordEntry registers a contribution or drawing.
func (s *Service) RecordEntry(ctx context.Context, partnerID int64, req RecordEntryRequest) (*CapitalEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("partners: validate: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("partners: amount must be positive: %w", httpx.ErrValidation)
	}
	if _, err := s.repo.GetPartner(ctx, partnerID); err != nil {
		return nil, err
	}
	entry, err := s.repo.CreateEntry(ctx, partnerID, req)
	if err != nil {
		return nil, err
	}
	s.statements.Flush()
	return entry, nil
}

// Statement reconstructs a partner's capital account under an
// optional window. Balances are signed.
func (s *Service) Statement(ctx context.Context, partnerID int64, window ledger.Window) (*Statement, error) {
	key := "partners:" + strconv.FormatInt(partnerID, 10) + ":" + shared.WindowKey(window)
	if cached, ok := s.statements.Get(key); ok {
		return &Statement{PartnerID: partnerID, Entries: cached.Statement, Summary: cached.Summary}, nil
	}

	stmt, err := s.buildStatement(ctx, partnerID, window)
	if err != nil {
		return nil, err
	}
	if len(stmt.SkippedRecords) == 0 {
		s.statements.Put(key, ledger.Result{Statement: stmt.Entries, Summary: stmt.Summary})
	}
	return stmt, nil
}

// Positions summarizes every partner's lifetime net position, ordered
// by balance descending.
func (s *Service) Positions(ctx context.Context) ([]ledger.HolderSummary, error) {
	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]ledger.HolderSummary, 0, len(partners))
	for _, p := range partners {
		stmt, err := s.buildStatement(ctx, p.ID, ledger.Window{})
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ledger.HolderSummary{HolderID: p.ID, HolderName: p.Name, Summary: stmt.Summary})
	}
	return ledger.RankByOutstanding(summaries), nil
}

func (s *Service) buildStatement(ctx context.Context, partnerID int64, window ledger.Window) (*Statement, error) {
	if _, err := s.repo.GetPartner(ctx, partnerID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	records := make([]ledger.SourceRecord, 0, len(entries))
	for i := range entries {
		e := entries[i]
		kind := ledger.Credit
		desc := "capital contribution"
		if e.Kind == Drawing {
			kind = ledger.Debit
			desc = "drawing"
		}
		date := e.EntryDate
		amount := e.Amount
		records = append(records, ledger.SourceRecord{
			Date:        &date,
			Kind:        kind,
			Amount:      &amount,
			Reference:   e.Number,
			Description: desc,
		})
	}

	collected, err := ledger.Collect(records, ledger.SkipInvalid)
	if err != nil {
		return nil, err
	}
	res := ledger.Reconstruct(collected.Events, window, ledger.BalanceNet)
	return &Statement{
		PartnerID:      partnerID,
		Entries:        res.Statement,
		Summary:        res.Summary,
		SkippedRecords: collected.Skipped,
	}, nil
}
