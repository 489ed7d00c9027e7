package api

import (
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"

	"github.com/go-playground/validator/v10"
)

func init() {
	err := xhttp.RegisterValidation("b3ticker", func(fl validator.FieldLevel) bool {
		_, err := models.NormalizeTicker(fl.Field().String())
		return err == nil
	}, "ERR_INVALID_TICKER", "%s must look like PETR4, VALE3 or BOVA11")
	if err != nil {
		panic(err)
	}
}
