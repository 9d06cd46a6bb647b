package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"agriis/internal/apierror"
	"agriis/internal/middleware"
	"agriis/internal/model"
	"agriis/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal is validated as its float value so numeric tags
	// (min, max, gt) apply to money and area fields.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:]] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// responderErro maps service and domain errors onto HTTP statuses.
// Anything unrecognised is attached to the context and answered with a 500.
func responderErro(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrArgumentoInvalido):
		c.JSON(http.StatusBadRequest, apierror.WithCode("argumento_invalido", err.Error()))
	case errors.Is(err, model.ErrTransicaoInvalida):
		c.JSON(http.StatusConflict, apierror.WithCode("transicao_invalida", err.Error()))
	case errors.Is(err, service.ErrNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.WithCode("nao_encontrado", err.Error()))
	case errors.Is(err, service.ErrConflito):
		c.JSON(http.StatusConflict, apierror.WithCode("conflito", err.Error()))
	case errors.Is(err, service.ErrProibido):
		c.JSON(http.StatusForbidden, apierror.WithCode("proibido", err.Error()))
	case errors.Is(err, service.ErrCredenciaisInvalidas):
		c.JSON(http.StatusUnauthorized, apierror.WithCode("credenciais_invalidas", "Credenciais inválidas"))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}

// paramID parses a positive integer path parameter, answering 400 otherwise.
func paramID(c *gin.Context, nome string) (int, bool) {
	id, err := strconv.Atoi(c.Param(nome))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido: "+nome))
		return 0, false
	}
	return id, true
}

func queryIntPtr(c *gin.Context, nome string) (*int, bool) {
	raw := c.Query(nome)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetro inválido: "+nome))
		return nil, false
	}
	return &v, true
}

// queryBool reads an optional boolean query parameter; absent means padrao.
func queryBool(c *gin.Context, nome string, padrao bool) bool {
	v, err := strconv.ParseBool(c.Query(nome))
	if err != nil {
		return padrao
	}
	return v
}

// ator builds the acting user from the JWT claims.
func ator(c *gin.Context) service.Ator {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Ator{}
	}
	return service.Ator{UsuarioID: claims.UserID, Rol: claims.Rol}
}

// bindQuery binds query-string parameters, answering 400 on malformed input.
func bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parâmetros inválidos: "+err.Error()))
		return false
	}
	return true
}
