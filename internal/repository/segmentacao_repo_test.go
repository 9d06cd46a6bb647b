package repository

import (
	"context"
	"testing"

	"agriis/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentacaoRepo_PadraoUnicoPorFornecedor(t *testing.T) {
	ctx := context.Background()
	repo := NewSegmentacaoRepository(newTestDB(t))

	primeira := &model.Segmentacao{FornecedorID: 1, Nome: "2024", EhPadrao: true, Ativo: true}
	require.NoError(t, repo.Criar(ctx, primeira))

	segunda := &model.Segmentacao{
		FornecedorID: 1, Nome: "2025", EhPadrao: true, Ativo: true,
		Grupos: []model.GrupoSegmentacao{{
			Nome: "Médio", AreaMinima: decimal.NewFromInt(100), AreaMaxima: ptr(decimal.NewFromInt(1000)), Ativo: true,
			Regras: []model.RegraDescontoSegmentacao{{Categoria: "Sementes", PercentualDesconto: decimal.NewFromInt(4)}},
		}},
	}
	require.NoError(t, repo.Criar(ctx, segunda))

	padrao, err := repo.ObterPadraoDoFornecedor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, segunda.ID, padrao.ID)
	require.Len(t, padrao.Grupos, 1)
	require.Len(t, padrao.Grupos[0].Regras, 1)
	assert.True(t, padrao.Desconto(decimal.NewFromInt(250), "sementes").Equal(decimal.NewFromInt(4)))

	require.NoError(t, repo.Remover(ctx, segunda.ID))
	_, err = repo.ObterPadraoDoFornecedor(ctx, 1)
	assert.Error(t, err)
}
