package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Produtores ──────────────────────────────────────────────────────────────

type CriarProdutorRequest struct {
	Nome              string          `json:"nome"               validate:"required,min=2,max=200"`
	Cpf               string          `json:"cpf"                validate:"omitempty,max=14"`
	Cnpj              string          `json:"cnpj"               validate:"omitempty,max=18"`
	InscricaoEstadual *string         `json:"inscricao_estadual" validate:"omitempty,max=30"`
	TipoAtividade     *string         `json:"tipo_atividade"     validate:"omitempty,max=100"`
	AreaPlantio       decimal.Decimal `json:"area_plantio"       validate:"min=0"`
	CulturaIDs        []int           `json:"cultura_ids"        validate:"dive,gt=0"`
}

type AtualizarProdutorRequest struct {
	Nome              string           `json:"nome"               validate:"omitempty,min=2,max=200"`
	InscricaoEstadual *string          `json:"inscricao_estadual" validate:"omitempty,max=30"`
	TipoAtividade     *string          `json:"tipo_atividade"     validate:"omitempty,max=100"`
	AreaPlantio       *decimal.Decimal `json:"area_plantio"`
	CulturaIDs        []int            `json:"cultura_ids"        validate:"omitempty,dive,gt=0"`
}

type ValidarProdutorRequest struct {
	Autorizado bool `json:"autorizado"`
}

type VincularUsuarioProdutorRequest struct {
	UsuarioID      int  `json:"usuario_id"      validate:"required,gt=0"`
	EhProprietario bool `json:"eh_proprietario"`
}

type ProdutorResponse struct {
	ID                int               `json:"id"`
	Nome              string            `json:"nome"`
	Cpf               *string           `json:"cpf"`
	Cnpj              *string           `json:"cnpj"`
	InscricaoEstadual *string           `json:"inscricao_estadual"`
	TipoAtividade     *string           `json:"tipo_atividade"`
	AreaPlantio       decimal.Decimal   `json:"area_plantio"`
	Status            string            `json:"status"`
	Culturas          []CulturaResponse `json:"culturas"`
	DataCriacao       time.Time         `json:"data_criacao"`
}

// ─── Fornecedores ────────────────────────────────────────────────────────────

type CriarFornecedorRequest struct {
	Nome              string          `json:"nome"               validate:"required,min=2,max=200"`
	Cnpj              string          `json:"cnpj"               validate:"required,max=18"`
	InscricaoEstadual *string         `json:"inscricao_estadual" validate:"omitempty,max=30"`
	Endereco          *string         `json:"endereco"           validate:"omitempty,max=300"`
	Municipio         *string         `json:"municipio"          validate:"omitempty,max=120"`
	Uf                *string         `json:"uf"                 validate:"omitempty,len=2"`
	Telefone          *string         `json:"telefone"           validate:"omitempty,max=20"`
	Email             *string         `json:"email"              validate:"omitempty,email"`
	MoedaPadrao       string          `json:"moeda_padrao"       validate:"omitempty,len=3"`
	PedidoMinimo      decimal.Decimal `json:"pedido_minimo"      validate:"min=0"`
}

type AtualizarFornecedorRequest struct {
	Nome              string           `json:"nome"               validate:"omitempty,min=2,max=200"`
	InscricaoEstadual *string          `json:"inscricao_estadual" validate:"omitempty,max=30"`
	Endereco          *string          `json:"endereco"           validate:"omitempty,max=300"`
	Municipio         *string          `json:"municipio"          validate:"omitempty,max=120"`
	Uf                *string          `json:"uf"                 validate:"omitempty,len=2"`
	Telefone          *string          `json:"telefone"           validate:"omitempty,max=20"`
	Email             *string          `json:"email"              validate:"omitempty,email"`
	MoedaPadrao       string           `json:"moeda_padrao"       validate:"omitempty,len=3"`
	PedidoMinimo      *decimal.Decimal `json:"pedido_minimo"`
}

type VincularUsuarioFornecedorRequest struct {
	UsuarioID int    `json:"usuario_id" validate:"required,gt=0"`
	Role      string `json:"role"       validate:"required,oneof=Admin Comercial Tecnico"`
}

type FornecedorResponse struct {
	ID                int             `json:"id"`
	Nome              string          `json:"nome"`
	Cnpj              string          `json:"cnpj"`
	InscricaoEstadual *string         `json:"inscricao_estadual"`
	Endereco          *string         `json:"endereco"`
	Municipio         *string         `json:"municipio"`
	Uf                *string         `json:"uf"`
	Telefone          *string         `json:"telefone"`
	Email             *string         `json:"email"`
	MoedaPadrao       string          `json:"moeda_padrao"`
	PedidoMinimo      decimal.Decimal `json:"pedido_minimo"`
	Ativo             bool            `json:"ativo"`
}

// ─── Propriedades ────────────────────────────────────────────────────────────

type PropriedadeCulturaInput struct {
	CulturaID int             `json:"cultura_id" validate:"required,gt=0"`
	SafraID   *int            `json:"safra_id"   validate:"omitempty,gt=0"`
	Area      decimal.Decimal `json:"area"       validate:"gt=0"`
}

type CriarPropriedadeRequest struct {
	ProdutorID        int                       `json:"produtor_id"        validate:"required,gt=0"`
	Nome              string                    `json:"nome"               validate:"required,max=200"`
	Nirf              *string                   `json:"nirf"               validate:"omitempty,max=20"`
	InscricaoEstadual *string                   `json:"inscricao_estadual" validate:"omitempty,max=30"`
	Municipio         string                    `json:"municipio"          validate:"required,max=120"`
	Uf                string                    `json:"uf"                 validate:"required,len=2"`
	AreaTotal         decimal.Decimal           `json:"area_total"         validate:"gt=0"`
	Culturas          []PropriedadeCulturaInput `json:"culturas"           validate:"dive"`
}

type AtualizarPropriedadeRequest struct {
	Nome              string                    `json:"nome"               validate:"required,max=200"`
	Nirf              *string                   `json:"nirf"               validate:"omitempty,max=20"`
	InscricaoEstadual *string                   `json:"inscricao_estadual" validate:"omitempty,max=30"`
	Municipio         string                    `json:"municipio"          validate:"required,max=120"`
	Uf                string                    `json:"uf"                 validate:"required,len=2"`
	AreaTotal         decimal.Decimal           `json:"area_total"         validate:"gt=0"`
	Culturas          []PropriedadeCulturaInput `json:"culturas"           validate:"dive"`
}

type PropriedadeCulturaResponse struct {
	CulturaID int             `json:"cultura_id"`
	SafraID   *int            `json:"safra_id"`
	Area      decimal.Decimal `json:"area"`
}

type PropriedadeResponse struct {
	ID                int                          `json:"id"`
	ProdutorID        int                          `json:"produtor_id"`
	Nome              string                       `json:"nome"`
	Nirf              *string                      `json:"nirf"`
	InscricaoEstadual *string                      `json:"inscricao_estadual"`
	Municipio         string                       `json:"municipio"`
	Uf                string                       `json:"uf"`
	AreaTotal         decimal.Decimal              `json:"area_total"`
	Culturas          []PropriedadeCulturaResponse `json:"culturas"`
}

type AreaProdutorResponse struct {
	ProdutorID int             `json:"produtor_id"`
	AreaTotal  decimal.Decimal `json:"area_total"`
	Municipios []string        `json:"municipios"`
}
