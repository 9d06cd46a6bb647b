package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comboTeste() *Combo {
	return &Combo{
		EntidadeBase:  EntidadeBase{ID: 1},
		Nome:          "Combo Soja Premium",
		Status:        StatusComboAtivo,
		HectareMinimo: decimal.NewFromInt(100),
		HectareMaximo: decimal.NewFromInt(500),
		DataInicio:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		DataFim:       time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC),
	}
}

func TestValidoParaProdutor(t *testing.T) {
	agora := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	ha := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	tests := []struct {
		name      string
		ajustar   func(c *Combo)
		hectare   decimal.Decimal
		municipio string
		agora     time.Time
		want      bool
	}{
		{"dentro de tudo", nil, ha(200), "Sorriso", agora, true},
		{"limite inferior inclusivo", nil, ha(100), "Sorriso", agora, true},
		{"limite superior inclusivo", nil, ha(500), "Sorriso", agora, true},
		{"abaixo do minimo", nil, ha(99), "Sorriso", agora, false},
		{"acima do maximo", nil, ha(501), "Sorriso", agora, false},
		{"antes da vigencia", nil, ha(200), "Sorriso", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"depois da vigencia", nil, ha(200), "Sorriso", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"inicio da vigencia", nil, ha(200), "Sorriso", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"inativo", func(c *Combo) { c.Status = StatusComboInativo }, ha(200), "Sorriso", agora, false},
		{"suspenso", func(c *Combo) { c.Status = StatusComboSuspenso }, ha(200), "Sorriso", agora, false},
		{"expirado", func(c *Combo) { c.Status = StatusComboExpirado }, ha(200), "Sorriso", agora, false},
		{"municipio permitido", func(c *Combo) { c.RestricoesMunicipios = []string{"Sorriso", "Sinop"} }, ha(200), " sinop ", agora, true},
		{"municipio nao permitido", func(c *Combo) { c.RestricoesMunicipios = []string{"Sorriso"} }, ha(200), "Lucas do Rio Verde", agora, false},
		{"restricao vazia", func(c *Combo) { c.RestricoesMunicipios = []string{" "} }, ha(200), "Qualquer", agora, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := comboTeste()
			if tt.ajustar != nil {
				tt.ajustar(c)
			}
			assert.Equal(t, tt.want, c.ValidoParaProdutor(tt.hectare, tt.municipio, tt.agora))
		})
	}
}

func TestValidarIntervalos(t *testing.T) {
	c := comboTeste()
	require.NoError(t, c.ValidarIntervalos())

	c.HectareMaximo = c.HectareMinimo
	assert.ErrorIs(t, c.ValidarIntervalos(), ErrArgumentoInvalido)

	c = comboTeste()
	c.DataFim = c.DataInicio
	assert.ErrorIs(t, c.ValidarIntervalos(), ErrArgumentoInvalido)

	c = comboTeste()
	c.HectareMinimo = decimal.NewFromInt(-1)
	assert.ErrorIs(t, c.ValidarIntervalos(), ErrArgumentoInvalido)
}

func TestCalcularDesconto(t *testing.T) {
	c := comboTeste()
	c.CategoriasDesconto = []ComboCategoriaDesconto{
		{Nome: "Pequeno", TipoDesconto: TipoDescontoPercentual, PercentualDesconto: decimal.NewFromInt(5),
			HectareMinimo: decimal.NewFromInt(100), HectareMaximo: decimal.NewFromInt(249), Ativo: true},
		{Nome: "Grande", TipoDesconto: TipoDescontoPercentual, PercentualDesconto: decimal.NewFromInt(10),
			HectareMinimo: decimal.NewFromInt(250), HectareMaximo: decimal.NewFromInt(500), Ativo: true},
		{Nome: "Por hectare", TipoDesconto: TipoDescontoValorPorHectare, ValorDescontoPorHectare: decimal.NewFromInt(3),
			HectareMinimo: decimal.NewFromInt(400), HectareMaximo: decimal.NewFromInt(500), Ativo: true},
		{Nome: "Inativa", TipoDesconto: TipoDescontoPercentual, PercentualDesconto: decimal.NewFromInt(90),
			HectareMinimo: decimal.NewFromInt(0), HectareMaximo: decimal.NewFromInt(1000), Ativo: false},
	}
	base := decimal.NewFromInt(10000)

	assert.Equal(t, "500", c.CalcularDesconto(decimal.NewFromInt(150), base).String())
	assert.Equal(t, "1000", c.CalcularDesconto(decimal.NewFromInt(300), base).String())
	// 450 ha × 3 = 1350 beats 10% of 10000
	assert.Equal(t, "1350", c.CalcularDesconto(decimal.NewFromInt(450), base).String())
	assert.True(t, c.CalcularDesconto(decimal.NewFromInt(50), base).IsZero())

	// never more than the base value
	assert.Equal(t, "100", c.CalcularDesconto(decimal.NewFromInt(450), decimal.NewFromInt(100)).String())
}

func TestAlterarStatusCombo(t *testing.T) {
	agora := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := comboTeste()

	require.NoError(t, c.AlterarStatus(StatusComboSuspenso, agora))
	require.NoError(t, c.AlterarStatus(StatusComboAtivo, agora))
	require.NoError(t, c.AlterarStatus(StatusComboInativo, agora))
	assert.ErrorIs(t, c.AlterarStatus(StatusComboInativo, agora), ErrTransicaoInvalida)

	assert.ErrorIs(t, c.AlterarStatus(StatusComboExpirado, agora), ErrTransicaoInvalida)
	depois := c.DataFim.Add(time.Hour)
	require.NoError(t, c.AlterarStatus(StatusComboExpirado, depois))
	assert.ErrorIs(t, c.AlterarStatus(StatusComboAtivo, depois), ErrTransicaoInvalida)
}
