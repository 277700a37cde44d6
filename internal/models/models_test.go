package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, Aluno.IsValid())
	assert.True(t, Professor.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("gestor").IsValid())
}

func TestUnidadeLabels(t *testing.T) {
	for _, u := range Unidades() {
		assert.True(t, u.IsValid())
		assert.NotEmpty(t, u.Label())
	}
	assert.Len(t, Unidades(), 5)
	assert.False(t, Unidade("centro").IsValid())
	assert.Empty(t, Unidade("centro").Label())
}

func TestAtividadeIsValid(t *testing.T) {
	valid := []Atividade{
		KungFu, Handebol, FutebolFutsal, Volei, Ballet, Jazz,
		Zumba, Capoeira, Bateria, Croche, ReforcoEscolar, Ingles,
	}
	for _, a := range valid {
		assert.True(t, a.IsValid(), a)
		assert.NotEmpty(t, a.Label(), a)
	}
	assert.False(t, Atividade("natacao").IsValid())
}

func TestParseDiasSemana(t *testing.T) {
	dias, ok := ParseDiasSemana("segunda,quarta,sexta")
	require.True(t, ok)
	assert.Equal(t, []DiaSemana{Segunda, Quarta, Sexta}, dias)

	dias, ok = ParseDiasSemana(" terca , quinta ")
	require.True(t, ok)
	assert.Equal(t, []DiaSemana{Terca, Quinta}, dias)

	dias, ok = ParseDiasSemana("")
	require.True(t, ok)
	assert.Nil(t, dias)

	_, ok = ParseDiasSemana("segunda,funday")
	assert.False(t, ok)
}

func TestJoinDiasSemanaRoundTrip(t *testing.T) {
	in := []DiaSemana{Sabado, Domingo}
	csv := JoinDiasSemana(in)
	assert.Equal(t, "sabado,domingo", csv)

	out, ok := ParseDiasSemana(csv)
	require.True(t, ok)
	assert.Equal(t, in, out)
}

func TestStatusInscricaoIsValid(t *testing.T) {
	assert.True(t, StatusAtivo.IsValid())
	assert.True(t, StatusFilaEspera.IsValid())
	assert.True(t, StatusInativo.IsValid())
	assert.False(t, StatusInscricao("pendente").IsValid())
}
