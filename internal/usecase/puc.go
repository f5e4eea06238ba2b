package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cifrato/invoice-backend/internal/model"
)

// UploadPUC replaces the tenant's chart-of-accounts with the content of an
// uploaded Excel workbook. The previous set is discarded as a unit, never
// merged.
type UploadPUC struct {
	puc    PUCRepository
	parser PUCWorkbookParser
	log    zerolog.Logger
}

func NewUploadPUC(puc PUCRepository, parser PUCWorkbookParser, log zerolog.Logger) *UploadPUC {
	return &UploadPUC{puc: puc, parser: parser, log: log}
}

// PUCUploadResult reports how many accounts the upload produced.
type PUCUploadResult struct {
	TotalAccounts int
}

func (uc *UploadPUC) Execute(ctx context.Context, ownerID, filename string, content []byte) (*PUCUploadResult, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
		return nil, fmt.Errorf("%w: el archivo debe ser formato Excel (.xlsx o .xls)", model.ErrPUCUpload)
	}

	accounts, err := uc.parser.ParseWorkbook(content, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPUCUpload, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no se encontraron cuentas válidas en el archivo", model.ErrPUCUpload)
	}

	if err := uc.puc.DeleteAllByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := uc.puc.AddBulk(ctx, accounts); err != nil {
		return nil, err
	}

	uc.log.Info().Str("owner_id", ownerID).Int("accounts", len(accounts)).Msg("puc replaced")
	return &PUCUploadResult{TotalAccounts: len(accounts)}, nil
}

// PUCPage is one page of a tenant's chart-of-accounts.
type PUCPage struct {
	Accounts   []*model.PUCAccount
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ListPUC pages through the tenant's accounts with optional search.
type ListPUC struct {
	puc PUCRepository
}

func NewListPUC(puc PUCRepository) *ListPUC {
	return &ListPUC{puc: puc}
}

func (uc *ListPUC) Execute(ctx context.Context, ownerID, search string, page, pageSize int) (*PUCPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}

	accounts, total, err := uc.puc.ListByOwner(ctx, ownerID, search, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return &PUCPage{
		Accounts:   accounts,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// PUCStats summarizes whether a tenant has a usable chart-of-accounts.
type PUCStats struct {
	TotalAccounts int
	HasPUC        bool
}

// GetPUCStats reports the tenant's account count.
type GetPUCStats struct {
	puc PUCRepository
}

func NewGetPUCStats(puc PUCRepository) *GetPUCStats {
	return &GetPUCStats{puc: puc}
}

func (uc *GetPUCStats) Execute(ctx context.Context, ownerID string) (*PUCStats, error) {
	total, err := uc.puc.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &PUCStats{TotalAccounts: total, HasPUC: total > 0}, nil
}
