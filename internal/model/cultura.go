package model

// Cultura is a crop (soja, milho, algodão...).
type Cultura struct {
	EntidadeBase
	Nome      string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Descricao *string `gorm:"type:varchar(500)"`
	Ativo     bool    `gorm:"not null;default:true"`
}

func (Cultura) TableName() string { return "culturas" }
