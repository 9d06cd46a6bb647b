package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMesmaIdentidade(t *testing.T) {
	a := EntidadeBase{ID: 3}
	b := EntidadeBase{ID: 3, DataCriacao: time.Now()}

	assert.True(t, a.MesmaIdentidade(b))
	assert.False(t, a.MesmaIdentidade(EntidadeBase{ID: 4}))
	assert.False(t, EntidadeBase{}.MesmaIdentidade(EntidadeBase{}))
	assert.True(t, EntidadeBase{}.Transiente())
}

func TestSafra(t *testing.T) {
	s := &Safra{
		PlantioInicial: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		PlantioFinal:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		PlantioNome:    "S1",
		AnoColheita:    2025,
	}
	assert.NoError(t, s.ValidarPeriodo())
	assert.Equal(t, "2024/2025 S1", s.Nome())
	assert.True(t, s.Atual(time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, s.Atual(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	s.PlantioFinal = s.PlantioInicial
	assert.ErrorIs(t, s.ValidarPeriodo(), ErrArgumentoInvalido)
}

func TestPropriedadeValidarAreas(t *testing.T) {
	safra := 1
	p := &Propriedade{
		AreaTotal: decimal.NewFromInt(100),
		Culturas: []PropriedadeCultura{
			{CulturaID: 1, SafraID: &safra, Area: decimal.NewFromInt(60)},
			{CulturaID: 2, SafraID: &safra, Area: decimal.NewFromInt(40)},
			{CulturaID: 1, Area: decimal.NewFromInt(90)},
		},
	}
	assert.NoError(t, p.ValidarAreas())

	p.Culturas = append(p.Culturas, PropriedadeCultura{CulturaID: 3, SafraID: &safra, Area: decimal.NewFromInt(1)})
	assert.ErrorIs(t, p.ValidarAreas(), ErrArgumentoInvalido)
}

func TestSegmentacaoDesconto(t *testing.T) {
	max := decimal.NewFromInt(500)
	s := &Segmentacao{
		Ativo: true,
		Grupos: []GrupoSegmentacao{
			{Nome: "Médio", AreaMinima: decimal.NewFromInt(100), AreaMaxima: &max, Ativo: true,
				Regras: []RegraDescontoSegmentacao{{Categoria: "Fertilizantes", PercentualDesconto: decimal.NewFromInt(3)}}},
			{Nome: "Grande", AreaMinima: decimal.NewFromInt(501), Ativo: true,
				Regras: []RegraDescontoSegmentacao{{Categoria: "Fertilizantes", PercentualDesconto: decimal.NewFromInt(7)}}},
		},
	}
	assert.NoError(t, s.ValidarGrupos())
	assert.Equal(t, "3", s.Desconto(decimal.NewFromInt(200), "fertilizantes").String())
	assert.Equal(t, "7", s.Desconto(decimal.NewFromInt(5000), "Fertilizantes").String())
	assert.True(t, s.Desconto(decimal.NewFromInt(50), "Fertilizantes").IsZero())
	assert.True(t, s.Desconto(decimal.NewFromInt(200), "Sementes").IsZero())
}
