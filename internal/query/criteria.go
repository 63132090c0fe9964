package query

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultLimit    = 100
	MaxLimit        = 10000
	DefaultOrderBy  = "OpenTime"
	DefaultOrderDir = "ASC"
)

// Criteria is a request-scoped filter over TradeHistories.
//
// Nil pointers and empty strings mean "not set". Time bounds are inclusive.
// OrderBy and OrderDir are allow-listed because they are the only parts of
// the statement that cannot be bound as parameters.
type Criteria struct {
	AccountID   *int64     `json:"account_id"`
	Ticket      *int64     `json:"ticket"`
	Symbol      string     `json:"symbol"`
	OpenedFrom  *time.Time `json:"opened_from"`
	OpenedTo    *time.Time `json:"opened_to"`
	ClosedFrom  *time.Time `json:"closed_from"`
	ClosedTo    *time.Time `json:"closed_to"`
	CommentLike string     `json:"comment_like"`
	Limit       int        `json:"limit" validate:"min=1,max=10000"`
	Offset      int        `json:"offset" validate:"min=0"`
	OrderBy     string     `json:"order_by" validate:"oneof=ID OpenTime CloseTime TimeStamp Ticket"`
	OrderDir    string     `json:"order_dir" validate:"oneof=ASC DESC"`
}

// DefaultCriteria returns criteria matching every row, first page of 100,
// oldest open first.
func DefaultCriteria() Criteria {
	return Criteria{
		Limit:    DefaultLimit,
		Offset:   0,
		OrderBy:  DefaultOrderBy,
		OrderDir: DefaultOrderDir,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks limit, offset and ordering. The first violation is
// returned as a *ValidationError.
func (c Criteria) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate criteria: %w", err)
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		if fe.Field() == "limit" {
			return fmt.Sprintf("must be between 1 and %d, got %v", MaxLimit, fe.Value())
		}
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
