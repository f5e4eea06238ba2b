package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cifrato/invoice-backend/internal/model"
	"github.com/cifrato/invoice-backend/internal/storage/memory"
)

// stubPUCParser returns a canned account list.
type stubPUCParser struct {
	accounts []*model.PUCAccount
	err      error
}

func (p *stubPUCParser) ParseWorkbook(_ []byte, _ string) ([]*model.PUCAccount, error) {
	return p.accounts, p.err
}

func pucAccount(ownerID, codigo, nombre string) *model.PUCAccount {
	return model.NewPUCAccount(ownerID, map[string]string{"codigo": codigo, "nombre": nombre})
}

func TestUploadPUC(t *testing.T) {
	puc := memory.NewPUCRepository()
	parser := &stubPUCParser{accounts: []*model.PUCAccount{
		pucAccount("owner-1", "4135", "Comercio"),
		pucAccount("owner-1", "5195", "Papelería"),
	}}
	uc := NewUploadPUC(puc, parser, zerolog.Nop())

	result, err := uc.Execute(context.Background(), "owner-1", "puc.xlsx", []byte("PK..."))
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalAccounts)

	total, err := puc.CountByOwner(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestUploadPUC_ReplacesPreviousSet(t *testing.T) {
	puc := memory.NewPUCRepository()
	require.NoError(t, puc.AddBulk(context.Background(), []*model.PUCAccount{
		pucAccount("owner-1", "1105", "Caja"),
		pucAccount("owner-2", "1105", "Caja ajena"),
	}))

	parser := &stubPUCParser{accounts: []*model.PUCAccount{pucAccount("owner-1", "4135", "Comercio")}}
	uc := NewUploadPUC(puc, parser, zerolog.Nop())

	_, err := uc.Execute(context.Background(), "owner-1", "puc.xlsx", []byte("PK..."))
	require.NoError(t, err)

	// Old set gone as a unit; other tenants untouched.
	accounts, total, err := puc.ListByOwner(context.Background(), "owner-1", "", 100, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, "4135", accounts[0].Codigo)

	otherTotal, err := puc.CountByOwner(context.Background(), "owner-2")
	require.NoError(t, err)
	assert.Equal(t, 1, otherTotal)
}

func TestUploadPUC_Failures(t *testing.T) {
	t.Run("wrong extension", func(t *testing.T) {
		uc := NewUploadPUC(memory.NewPUCRepository(), &stubPUCParser{}, zerolog.Nop())
		_, err := uc.Execute(context.Background(), "owner-1", "puc.csv", []byte("a,b"))
		require.ErrorIs(t, err, model.ErrPUCUpload)
	})

	t.Run("parser failure", func(t *testing.T) {
		uc := NewUploadPUC(memory.NewPUCRepository(), &stubPUCParser{err: errors.New("archivo corrupto")}, zerolog.Nop())
		_, err := uc.Execute(context.Background(), "owner-1", "puc.xlsx", []byte("no es zip"))
		require.ErrorIs(t, err, model.ErrPUCUpload)
	})

	t.Run("no accounts", func(t *testing.T) {
		puc := memory.NewPUCRepository()
		require.NoError(t, puc.AddBulk(context.Background(), []*model.PUCAccount{pucAccount("owner-1", "1105", "Caja")}))

		uc := NewUploadPUC(puc, &stubPUCParser{}, zerolog.Nop())
		_, err := uc.Execute(context.Background(), "owner-1", "puc.xlsx", []byte("PK..."))
		require.ErrorIs(t, err, model.ErrPUCUpload)

		// An empty upload must not wipe the existing catalog.
		total, err := puc.CountByOwner(context.Background(), "owner-1")
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}

func TestListPUC(t *testing.T) {
	puc := memory.NewPUCRepository()
	require.NoError(t, puc.AddBulk(context.Background(), []*model.PUCAccount{
		pucAccount("owner-1", "4135", "Comercio al por mayor"),
		pucAccount("owner-1", "1105", "Caja"),
		pucAccount("owner-1", "5195", "Papelería"),
	}))

	uc := NewListPUC(puc)

	t.Run("defaults and ordering", func(t *testing.T) {
		page, err := uc.Execute(context.Background(), "owner-1", "", 0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 50, page.PageSize)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 1, page.TotalPages)
		require.Len(t, page.Accounts, 3)
		assert.Equal(t, "1105", page.Accounts[0].Codigo)
	})

	t.Run("paging", func(t *testing.T) {
		page, err := uc.Execute(context.Background(), "owner-1", "", 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Accounts, 1)
		assert.Equal(t, "5195", page.Accounts[0].Codigo)
	})

	t.Run("search matches code and name", func(t *testing.T) {
		page, err := uc.Execute(context.Background(), "owner-1", "papel", 1, 50)
		require.NoError(t, err)
		require.Len(t, page.Accounts, 1)
		assert.Equal(t, "5195", page.Accounts[0].Codigo)

		page, err = uc.Execute(context.Background(), "owner-1", "41", 1, 50)
		require.NoError(t, err)
		require.Len(t, page.Accounts, 1)
		assert.Equal(t, "4135", page.Accounts[0].Codigo)
	})
}

func TestGetPUCStats(t *testing.T) {
	puc := memory.NewPUCRepository()
	uc := NewGetPUCStats(puc)

	stats, err := uc.Execute(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.False(t, stats.HasPUC)
	assert.Zero(t, stats.TotalAccounts)

	require.NoError(t, puc.AddBulk(context.Background(), []*model.PUCAccount{pucAccount("owner-1", "4135", "Comercio")}))

	stats, err = uc.Execute(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.True(t, stats.HasPUC)
	assert.Equal(t, 1, stats.TotalAccounts)
}
