package repository

import "gorm.io/gorm"

const (
	tamanhoPaginaPadrao = 20
	tamanhoPaginaMaximo = 100
)

// Paginacao is a 1-based page request.
type Paginacao struct {
	Pagina        int
	TamanhoPagina int
}

// Normalizar clamps the request to sane bounds.
func (p Paginacao) Normalizar() Paginacao {
	if p.Pagina < 1 {
		p.Pagina = 1
	}
	if p.TamanhoPagina < 1 {
		p.TamanhoPagina = tamanhoPaginaPadrao
	}
	if p.TamanhoPagina > tamanhoPaginaMaximo {
		p.TamanhoPagina = tamanhoPaginaMaximo
	}
	return p
}

func (p Paginacao) aplicar(q *gorm.DB) *gorm.DB {
	p = p.Normalizar()
	return q.Limit(p.TamanhoPagina).Offset((p.Pagina - 1) * p.TamanhoPagina)
}
