package binder

import (
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/segmentio/encoding/json"
	"github.com/shishobooks/booknotes/pkg/errcodes"
)

var unknownFieldRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// fieldNameTags are checked in order when naming a field in a validation
// message, so a form field is reported the way the browser posted it.
var fieldNameTags = []string{"form", "query", "json"}

// Binder implements echo.Binder. Payloads are decoded from JSON, form bodies
// or the query string, cleaned up by mold, defaulted and then validated.
type Binder struct {
	query    *schema.Decoder
	form     *schema.Decoder
	conform  *mold.Transformer
	validate *validator.Validate
}

func New() (*Binder, error) {
	validate := validator.New()
	validate.RegisterTagNameFunc(fieldName)

	return &Binder{
		query:    newSchemaDecoder("query"),
		form:     newSchemaDecoder("form"),
		conform:  modifiers.New(),
		validate: validate,
	}, nil
}

func newSchemaDecoder(tag string) *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag(tag)
	return d
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range fieldNameTags {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// Bind decodes the request into i and then runs the mod, default and validate
// tags over the result.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	if err := b.decode(i, c); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := b.conform.Struct(ctx, i); err != nil {
		return errors.WithStack(err)
	}
	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	err := b.validate.Struct(i)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return errors.WithStack(err)
	}
	return errcodes.ValidationError(formatValidationError(errs[0]))
}

func (b *Binder) decode(i interface{}, c echo.Context) error {
	req := c.Request()

	if req.ContentLength <= 0 {
		switch {
		case req.Method == http.MethodGet, req.Method == http.MethodDelete:
			return b.decodeValues(i, c.QueryParams(), b.query)
		case flag(c, "disallow_empty_body"):
			return errcodes.EmptyRequestBody()
		default:
			return nil
		}
	}

	ctype := req.Header.Get(echo.HeaderContentType)
	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
		return b.decodeJSON(i, c)
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm), strings.HasPrefix(ctype, echo.MIMEMultipartForm):
		params, err := c.FormParams()
		if err != nil {
			return errcodes.MalformedPayload()
		}
		return b.decodeValues(i, params, b.form)
	default:
		return errcodes.UnsupportedMediaType()
	}
}

// flag reads a per-request override set on the echo context. Unset flags are
// on.
func flag(c echo.Context, key string) bool {
	if v, ok := c.Get(key).(bool); ok {
		return v
	}
	return true
}

func (b *Binder) decodeJSON(i interface{}, c echo.Context) error {
	body := c.Request().Body
	defer body.Close()

	dec := json.NewDecoder(body)
	if flag(c, "disallow_unknown_fields") {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(i)
	if err == nil {
		return nil
	}
	if m := unknownFieldRE.FindStringSubmatch(err.Error()); len(m) == 2 {
		return errcodes.UnknownParameter(m[1])
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
	}

	logger.FromEchoContext(c).Err(err).Error("unknown json decode error")
	return errcodes.MalformedPayload()
}

func (b *Binder) decodeValues(i interface{}, params url.Values, decoder *schema.Decoder) error {
	err := decoder.Decode(i, params)
	if err == nil {
		return nil
	}

	var errs schema.MultiError
	if !errors.As(err, &errs) {
		return errors.WithStack(err)
	}

	// Only one error is reported; the lowest key keeps the message stable.
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	switch e := errs[keys[0]].(type) {
	case schema.ConversionError:
		return errcodes.ValidationTypeError(formatSchemaConversionError(e))
	case schema.UnknownKeyError:
		return errcodes.UnknownParameter(e.Key)
	default:
		return errors.WithStack(e)
	}
}
