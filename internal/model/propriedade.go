package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Propriedade is a farm owned by a producer.
type Propriedade struct {
	EntidadeBase
	Nome              string          `gorm:"type:varchar(200);not null"`
	Nirf              *string         `gorm:"type:varchar(20);uniqueIndex"`
	InscricaoEstadual *string         `gorm:"type:varchar(30)"`
	ProdutorID        int             `gorm:"not null;index"`
	Municipio         string          `gorm:"type:varchar(120);not null"`
	Uf                string          `gorm:"type:char(2);not null"`
	AreaTotal         decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	Culturas []PropriedadeCultura `gorm:"foreignKey:PropriedadeID;constraint:OnDelete:CASCADE"`
}

func (Propriedade) TableName() string { return "propriedades" }

// PropriedadeCultura is the planted area of one crop in one season.
type PropriedadeCultura struct {
	EntidadeBase
	PropriedadeID int             `gorm:"not null;index"`
	CulturaID     int             `gorm:"not null;index"`
	SafraID       *int            `gorm:"index"`
	Area          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (PropriedadeCultura) TableName() string { return "propriedade_culturas" }

// ValidarAreas checks that planted areas per season do not exceed the property area.
func (p *Propriedade) ValidarAreas() error {
	if !p.AreaTotal.IsPositive() {
		return fmt.Errorf("%w: área total deve ser maior que zero", ErrArgumentoInvalido)
	}
	porSafra := map[int]decimal.Decimal{}
	for _, c := range p.Culturas {
		if !c.Area.IsPositive() {
			return fmt.Errorf("%w: área da cultura %d deve ser maior que zero", ErrArgumentoInvalido, c.CulturaID)
		}
		chave := 0
		if c.SafraID != nil {
			chave = *c.SafraID
		}
		porSafra[chave] = porSafra[chave].Add(c.Area)
		if porSafra[chave].GreaterThan(p.AreaTotal) {
			return fmt.Errorf("%w: área plantada excede a área total da propriedade", ErrArgumentoInvalido)
		}
	}
	return nil
}
