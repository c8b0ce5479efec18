package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sebastiangueler-commits/cARTE/internal/model"
	"github.com/sebastiangueler-commits/cARTE/internal/transport/rest/middleware"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createPortfolioRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

type updatePortfolioRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (r updatePortfolioRequest) toModel() model.PortfolioUpdate {
	return model.PortfolioUpdate{Name: r.Name, Description: r.Description}
}

type createAssetRequest struct {
	Symbol        string  `json:"symbol" validate:"required,max=20"`
	ISIN          string  `json:"isin" validate:"omitempty,len=12,alphanum"`
	Name          string  `json:"name" validate:"max=255"`
	Quantity      float64 `json:"quantity" validate:"gt=0"`
	PurchasePrice float64 `json:"purchasePrice" validate:"gte=0"`
	PurchaseDate  string  `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	Notes         string  `json:"notes" validate:"max=1000"`
}

func (r createAssetRequest) toModel() model.Asset {
	asset := model.Asset{
		Symbol:        r.Symbol,
		ISIN:          strings.ToUpper(r.ISIN),
		Name:          strings.TrimSpace(r.Name),
		Quantity:      decimal.NewFromFloat(r.Quantity),
		PurchasePrice: decimal.NewFromFloat(r.PurchasePrice),
		Notes:         r.Notes,
	}
	// формат уже проверен валидатором
	if date, err := time.Parse(dateLayout, r.PurchaseDate); err == nil {
		asset.PurchaseDate = date
	}
	return asset
}

type updateAssetRequest struct {
	Symbol        *string  `json:"symbol" validate:"omitempty,min=1,max=20"`
	ISIN          *string  `json:"isin" validate:"omitempty,len=12,alphanum"`
	Name          *string  `json:"name" validate:"omitempty,max=255"`
	Quantity      *float64 `json:"quantity" validate:"omitempty,gt=0"`
	PurchasePrice *float64 `json:"purchasePrice" validate:"omitempty,gte=0"`
	PurchaseDate  *string  `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	Notes         *string  `json:"notes" validate:"omitempty,max=1000"`
}

func (r updateAssetRequest) toModel() model.AssetUpdate {
	upd := model.AssetUpdate{
		Symbol: r.Symbol,
		ISIN:   r.ISIN,
		Name:   r.Name,
		Notes:  r.Notes,
	}
	if r.Quantity != nil {
		q := decimal.NewFromFloat(*r.Quantity)
		upd.Quantity = &q
	}
	if r.PurchasePrice != nil {
		p := decimal.NewFromFloat(*r.PurchasePrice)
		upd.PurchasePrice = &p
	}
	if r.PurchaseDate != nil {
		if date, err := time.Parse(dateLayout, *r.PurchaseDate); err == nil {
			upd.PurchaseDate = &date
		}
	}
	return upd
}

type textRequest struct {
	Text string `json:"text" validate:"required,max=200000"`
}

type roleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

// bindJSON parses and validates the body. When ok is false the error response is already written.
func bindJSON(c *fiber.Ctx, req any) (ok bool, err error) {
	if err = c.BodyParser(req); err != nil {
		return false, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if errs := validationErrors(req); len(errs) > 0 {
		return false, middleware.ValidationErrorResponse(c, errs)
	}

	return true, nil
}

func validationErrors(req any) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return map[string]string{"body": err.Error()}
	}

	res := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		res[fe.Field()] = fieldMessage(fe)
	}
	return res
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required!"
	case "email":
		return "Invalid email!"
	case "min":
		return fmt.Sprintf("Must be at least %s characters long!", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters long!", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters long!", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s!", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s!", fe.Param())
	case "datetime":
		return "Invalid date, expected YYYY-MM-DD!"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s!", fe.Param())
	}
	return "Invalid value!"
}
