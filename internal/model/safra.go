package model

import (
	"fmt"
	"time"
)

// Safra is an agricultural season identified by its planting window and harvest year.
type Safra struct {
	EntidadeBase
	PlantioInicial time.Time `gorm:"not null"`
	PlantioFinal   time.Time `gorm:"not null"`
	PlantioNome    string    `gorm:"type:varchar(50);not null;uniqueIndex:ux_safra_periodo"`
	AnoColheita    int       `gorm:"not null;uniqueIndex:ux_safra_periodo"`
	Descricao      string    `gorm:"type:varchar(200);not null"`
}

func (Safra) TableName() string { return "safras" }

func (s *Safra) ValidarPeriodo() error {
	if !s.PlantioFinal.After(s.PlantioInicial) {
		return fmt.Errorf("%w: plantio final deve ser posterior ao plantio inicial", ErrArgumentoInvalido)
	}
	if s.AnoColheita < s.PlantioInicial.Year() {
		return fmt.Errorf("%w: ano de colheita anterior ao início do plantio", ErrArgumentoInvalido)
	}
	return nil
}

// Atual reports whether agora falls inside the planting window.
func (s *Safra) Atual(agora time.Time) bool {
	return !agora.Before(s.PlantioInicial) && !agora.After(s.PlantioFinal)
}

// Nome renders the season label, e.g. "2024/2025 S1".
func (s *Safra) Nome() string {
	return fmt.Sprintf("%d/%d %s", s.PlantioInicial.Year(), s.AnoColheita, s.PlantioNome)
}
