// internal/validation/validation.go
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/XevgenX/go-filmorate/internal/domain"
	"github.com/XevgenX/go-filmorate/internal/store"
)

// Validator проверяет фильмы и пользователей перед записью: правила полей
// описаны тегами validate в domain, ссылки на MPA и жанры проверяются по справочникам.
type Validator struct {
	validate *validator.Validate
	genres   store.GenreStore
	mpa      store.MpaStore
	now      func() time.Time
}

// Option настраивает Validator.
type Option func(*Validator)

// WithClock задает источник текущего времени для правила notfuture.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// New создает Validator с зарегистрированными правилами notblank, nowhitespace,
// releasedate и notfuture.
func New(genres store.GenreStore, mpa store.MpaStore, opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		genres:   genres,
		mpa:      mpa,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.validate.RegisterTagNameFunc(jsonFieldName)
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(domain.Date); ok {
			return d.Time
		}
		return nil
	}, domain.Date{})

	// Ошибка регистрации возможна только при пустом имени тега.
	_ = v.validate.RegisterValidation("notblank", notBlank)
	_ = v.validate.RegisterValidation("nowhitespace", noWhitespace)
	_ = v.validate.RegisterValidation("releasedate", releaseDate)
	_ = v.validate.RegisterValidation("notfuture", v.notFuture)
	return v
}

// ValidateFilm проверяет поля фильма и существование его MPA и жанров.
func (v *Validator) ValidateFilm(ctx context.Context, film *domain.Film) error {
	if film == nil {
		return domain.NewValidationError("", "film is required")
	}
	if err := v.structCtx(ctx, film); err != nil {
		return err
	}
	if film.Mpa != nil {
		if _, err := v.mpa.FindByID(ctx, film.Mpa.ID); err != nil {
			return referenceError(err, "mpa", fmt.Sprintf("unknown mpa id %d", film.Mpa.ID))
		}
	}
	for _, g := range film.Genres {
		if _, err := v.genres.FindByID(ctx, g.ID); err != nil {
			return referenceError(err, "genres", fmt.Sprintf("unknown genre id %d", g.ID))
		}
	}
	return nil
}

// ValidateUser проверяет поля пользователя.
func (v *Validator) ValidateUser(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.NewValidationError("", "user is required")
	}
	return v.structCtx(ctx, user)
}

func (v *Validator) structCtx(ctx context.Context, s any) error {
	err := v.validate.StructCtx(ctx, s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, domain.NewValidationError(fe.Field(), message(fe)))
	}
	return errors.Join(errs...)
}

// referenceError превращает отсутствие записи справочника в ошибку валидации:
// неизвестный ID прислал клиент.
func referenceError(err error, field, msg string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(field, msg)
	}
	return err
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return "must not be negative"
	case "email":
		return "must be a valid email address"
	case "nowhitespace":
		return "must not contain whitespace"
	case "releasedate":
		return "must not be earlier than " + domain.CinemaBirthday.String()
	case "notfuture":
		return "must not be in the future"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func noWhitespace(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
}

func releaseDate(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	return ok && !t.Before(domain.CinemaBirthday.Time)
}

func (v *Validator) notFuture(fl validator.FieldLevel) bool {
	t, ok := fieldTime(fl)
	return ok && !t.After(domain.DateOf(v.now()).Time)
}

func fieldTime(fl validator.FieldLevel) (time.Time, bool) {
	switch t := fl.Field().Interface().(type) {
	case time.Time:
		return t, true
	case domain.Date:
		return t.Time, true
	default:
		return time.Time{}, false
	}
}
