package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCpfValido(t *testing.T) {
	assert.True(t, CpfValido("529.982.247-25"))
	assert.True(t, CpfValido("52998224725"))
	assert.False(t, CpfValido("529.982.247-24"))
	assert.False(t, CpfValido("111.111.111-11"))
	assert.False(t, CpfValido("123"))
}

func TestCnpjValido(t *testing.T) {
	assert.True(t, CnpjValido("11.222.333/0001-81"))
	assert.True(t, CnpjValido("45997418000153"))
	assert.False(t, CnpjValido("11.222.333/0001-80"))
	assert.False(t, CnpjValido("00000000000000"))
}

func TestProdutorDefinirDocumento(t *testing.T) {
	p := &Produtor{}

	require.NoError(t, p.DefinirDocumento("529.982.247-25", ""))
	assert.Equal(t, "52998224725", p.Documento())
	assert.Nil(t, p.Cnpj)

	require.NoError(t, p.DefinirDocumento("", "11.222.333/0001-81"))
	assert.Equal(t, "11222333000181", p.Documento())
	assert.Nil(t, p.Cpf)

	assert.ErrorIs(t, p.DefinirDocumento("", ""), ErrArgumentoInvalido)
	assert.ErrorIs(t, p.DefinirDocumento("52998224725", "11222333000181"), ErrArgumentoInvalido)
	assert.ErrorIs(t, p.DefinirDocumento("12345678900", ""), ErrArgumentoInvalido)
}

func TestProdutorValidar(t *testing.T) {
	p := &Produtor{Status: StatusProdutorPendenteValidacaoManual}

	require.NoError(t, p.Validar(true))
	assert.Equal(t, StatusProdutorAutorizadoManualmente, p.Status)
	assert.ErrorIs(t, p.Validar(true), ErrTransicaoInvalida)

	require.NoError(t, p.Validar(false))
	assert.Equal(t, StatusProdutorNegado, p.Status)
	assert.ErrorIs(t, p.Validar(false), ErrTransicaoInvalida)
}
