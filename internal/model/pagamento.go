package model

// FormaPagamento is a payment method offered on orders (à vista, boleto, barter...).
type FormaPagamento struct {
	EntidadeBase
	Descricao string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Ativo     bool   `gorm:"not null;default:true"`
}

func (FormaPagamento) TableName() string { return "formas_pagamento" }

// CulturaFormaPagamento enables a payment method for a supplier and crop.
type CulturaFormaPagamento struct {
	EntidadeBase
	FornecedorID     int  `gorm:"not null;uniqueIndex:ux_cultura_forma_pagamento"`
	CulturaID        int  `gorm:"not null;uniqueIndex:ux_cultura_forma_pagamento"`
	FormaPagamentoID int  `gorm:"not null;uniqueIndex:ux_cultura_forma_pagamento"`
	Ativo            bool `gorm:"not null;default:true"`

	FormaPagamento FormaPagamento `gorm:"foreignKey:FormaPagamentoID"`
}

func (CulturaFormaPagamento) TableName() string { return "culturas_formas_pagamento" }
