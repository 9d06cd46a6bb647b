// Package model holds the GORM-mapped domain entities of every Agriis module
// together with the business rules that only depend on entity state.
package model

import (
	"errors"
	"time"
)

var (
	// ErrArgumentoInvalido is returned by constructors and mutators when an
	// argument violates an entity invariant.
	ErrArgumentoInvalido = errors.New("argumento inválido")

	// ErrTransicaoInvalida is returned when a lifecycle change is not allowed
	// from the entity's current state.
	ErrTransicaoInvalida = errors.New("transição de status inválida")
)

// EntidadeBase carries the identity and audit columns shared by every table.
type EntidadeBase struct {
	ID              int       `gorm:"primaryKey"`
	DataCriacao     time.Time `gorm:"column:data_criacao;autoCreateTime;not null"`
	DataAtualizacao time.Time `gorm:"column:data_atualizacao;autoUpdateTime"`
}

// MesmaIdentidade reports whether both entities were persisted and share the same id.
func (e EntidadeBase) MesmaIdentidade(outra EntidadeBase) bool {
	return e.ID != 0 && e.ID == outra.ID
}

// Transiente reports whether the entity has not been persisted yet.
func (e EntidadeBase) Transiente() bool { return e.ID == 0 }

// TocarAtualizacao stamps DataAtualizacao; used by domain mutators so the
// audit column changes even when GORM only updates selected fields.
func (e *EntidadeBase) TocarAtualizacao(agora time.Time) {
	e.DataAtualizacao = agora
}
