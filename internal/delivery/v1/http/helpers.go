package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

// newValidator называет поля в ошибках по тегу query.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})

	return v
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// badRequestErrs — ошибки, текст которых отдаётся клиенту как есть
var badRequestErrs = []error{
	e.ErrInvalidRange,
	e.ErrABVOutOfBounds,
	e.ErrABVPrecision,
	e.ErrInvalidMaxResults,
	e.ErrInvalidThreshold,
	e.ErrInvalidField,
	e.ErrAnchorNameRequired,
	e.ErrQueryTextRequired,
	e.ErrEmptyIngredients,
	e.ErrInvalidID,
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrAnchorNotEmbedded):
		return http.StatusNotFound, e.ErrAnchorNotEmbedded.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrCocktailNotFound.Error()
	case errors.Is(err, e.ErrInvalidQueryParam):
		return http.StatusBadRequest, queryParamMessage(err)
	case errors.Is(err, e.ErrInvalidArgument):
		for _, known := range badRequestErrs {
			if errors.Is(err, known) {
				return http.StatusBadRequest, known.Error()
			}
		}
		return http.StatusBadRequest, e.ErrInvalidArgument.Error()
	case errors.Is(err, e.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable, e.ErrEmbeddingUnavailable.Error()
	case errors.Is(err, e.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, e.ErrStorageUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// paramError — ошибка разбора одного параметра запроса
type paramError struct {
	name   string
	reason string
}

func (p *paramError) Error() string {
	return fmt.Sprintf("%s: %s", p.name, p.reason)
}

func (p *paramError) Unwrap() error {
	return e.ErrInvalidQueryParam
}

func queryParamMessage(err error) string {
	var pe *paramError
	if errors.As(err, &pe) {
		return fmt.Sprintf("%s: %s", e.ErrInvalidQueryParam.Error(), pe.Error())
	}

	return e.ErrInvalidQueryParam.Error()
}

// validateQuery проверяет структуру параметров по тегам validate.
func validateQuery(q any) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &paramError{name: fe.Field(), reason: fmt.Sprintf("failed %q constraint %s", fe.Tag(), fe.Param())}
	}

	return &paramError{name: "query", reason: err.Error()}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, reason: "must be an integer"}
	}

	return v, nil
}

func queryFloat(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &paramError{name: name, reason: "must be a number"}
	}

	return v, nil
}

// queryList разбирает список через запятую; повторяющийся параметр тоже допускается.
func queryList(r *http.Request, name string) []string {
	var res []string
	for _, raw := range r.URL.Query()[name] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				res = append(res, item)
			}
		}
	}

	return res
}

// parseABV разбирает крепость вида "12.5". Допускается не больше двух знаков после запятой.
func parseABV(r *http.Request, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, &paramError{name: name, reason: "must be a number"}
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, fmt.Errorf("%s: %w", name, e.ErrABVPrecision)
	}

	return d.InexactFloat64(), nil
}
