package service

import (
	"errors"
	"fmt"
	"time"

	"agriis/internal/model"

	"gorm.io/gorm"
)

var (
	ErrNaoEncontrado        = errors.New("registro não encontrado")
	ErrConflito             = errors.New("registro já existe")
	ErrProibido             = errors.New("operação não permitida para o usuário")
	ErrCredenciaisInvalidas = errors.New("credenciais inválidas")
)

// Ator is the authenticated user on whose behalf a service call runs.
type Ator struct {
	UsuarioID int
	Rol       string
}

func (a Ator) Administrador() bool { return a.Rol == model.RolAdministrador }

// traduzirErro maps repository errors onto the service sentinels.
func traduzirErro(err error, recurso string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s %v", ErrNaoEncontrado, recurso, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrConflito, recurso)
	}
	return err
}

func agoraUTC() time.Time { return time.Now().UTC() }

func argInvalido(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrArgumentoInvalido, fmt.Sprintf(format, args...))
}
