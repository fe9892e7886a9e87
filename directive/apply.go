package directive

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/kalyuk/swagdeco/annotate"
	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/pagination"
	"github.com/kalyuk/swagdeco/route"
	"github.com/kalyuk/swagdeco/swagger"
)

var (
	// ErrUnknownDirective is returned for directive names with no meaning.
	ErrUnknownDirective = errors.New("unknown directive")

	// ErrUnknownModel is returned when a directive names a model that was
	// not registered with the registry.
	ErrUnknownModel = errors.New("unknown model")

	// ErrArgument is returned for missing or malformed arguments.
	ErrArgument = errors.New("invalid directive argument")
)

type applyFunc func(m *annotate.Member, h route.HandlerFunc, d *Directive) error

var appliers map[string]applyFunc

func init() {
	appliers = map[string]applyFunc{
		"action":      applyAction,
		"summary":     applyText(func(op *swagger.Operation, s string) { op.Summary = s }),
		"description": applyText(func(op *swagger.Operation, s string) { op.Description = s }),
		"id":          applyText(func(op *swagger.Operation, s string) { op.OperationID = s }),
		"tags":        applyList(func(op *swagger.Operation, v []string) { op.Tags = v }),
		"consumes":    applyList(func(op *swagger.Operation, v []string) { op.Consumes = v }),
		"produces":    applyList(func(op *swagger.Operation, v []string) { op.Produces = v }),
		"deprecated":  applyDeprecated,
		"pagination":  applyPagination,
		"param":       applyParam,
		"response":    applyResponse,
		"json":        applyJSON,
		"raw":         applyRaw,
		"swaggerdoc":  applySwaggerDoc,
	}
	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodHead,
	} {
		appliers[strings.ToLower(method)] = applyVerb(method)
	}
}

// Known reports whether name is a directive Apply understands.
func Known(name string) bool {
	_, ok := appliers[strings.ToLower(name)]
	return ok
}

// Apply runs directives against m in order. h is the handler bound by
// route directives (@GET, @action, ...).
//
// Directive errors (unknown names, bad arguments, unknown models) are
// returned. Errors raised by the annotations themselves are recorded by the
// registry and surface from Registry.Err and Registry.Mount.
func Apply(m *annotate.Member, h route.HandlerFunc, directives []*Directive) error {
	var errs []error
	for _, d := range directives {
		fn, ok := appliers[d.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("line %d: %w: @%s", d.Pos.Line, ErrUnknownDirective, d.Name))
			continue
		}
		if err := fn(m, h, d); err != nil {
			errs = append(errs, fmt.Errorf("line %d: @%s: %w", d.Pos.Line, d.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Bind parses text and applies its directives to m.
func Bind(m *annotate.Member, h route.HandlerFunc, text string) error {
	directives, err := ParseText(text)
	if err != nil {
		return err
	}
	return Apply(m, h, directives)
}

func argError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrArgument}, args...)...)
}

func applyVerb(method string) applyFunc {
	return func(m *annotate.Member, h route.HandlerFunc, d *Directive) error {
		pos := d.Positional()
		if len(pos) != 1 {
			return argError("expected a path")
		}
		m.Action(method, pos[0].Text(), h)
		return nil
	}
}

func applyAction(m *annotate.Member, h route.HandlerFunc, d *Directive) error {
	pos := d.Positional()
	if len(pos) != 2 {
		return argError("expected a method and a path")
	}
	m.Action(pos[0].Text(), pos[1].Text(), h)
	return nil
}

func applyText(set func(*swagger.Operation, string)) applyFunc {
	return func(m *annotate.Member, _ route.HandlerFunc, d *Directive) error {
		pos := d.Positional()
		if len(pos) != 1 {
			return argError("expected one value")
		}
		op := &swagger.Operation{}
		set(op, pos[0].Text())
		m.Swagger(op)
		return nil
	}
}

func applyList(set func(*swagger.Operation, []string)) applyFunc {
	return func(m *annotate.Member, _ route.HandlerFunc, d *Directive) error {
		var values []string
		for _, v := range d.Positional() {
			if v.List != nil {
				for _, it := range v.List.Items {
					values = append(values, it.Text())
				}
				continue
			}
			values = append(values, v.Text())
		}
		if len(values) == 0 {
			return argError("expected at least one value")
		}
		op := &swagger.Operation{}
		set(op, values)
		m.Swagger(op)
		return nil
	}
}

func applyDeprecated(m *annotate.Member, _ route.HandlerFunc, _ *Directive) error {
	m.Swagger(&swagger.Operation{Deprecated: true})
	return nil
}

// applyPagination accepts "@pagination cursor 20 sizes=[10,20]" as well
// as the named form "type=cursor pageSize=20".
func applyPagination(m *annotate.Member, _ route.HandlerFunc, d *Directive) error {
	var cfg pagination.Config

	for _, v := range d.Positional() {
		switch {
		case v.Number != nil:
			n, err := v.Int()
			if err != nil {
				return err
			}
			cfg.PageSize = n
		case v.List != nil:
			sizes, err := intList(v)
			if err != nil {
				return err
			}
			cfg.Sizes = sizes
		default:
			cfg.Type = meta.Mode(strings.ToLower(v.Text()))
		}
	}

	if v := d.Named("type"); v != nil {
		cfg.Type = meta.Mode(strings.ToLower(v.Text()))
	}
	if v := d.Named("pageSize"); v != nil {
		n, err := v.Int()
		if err != nil {
			return err
		}
		cfg.PageSize = n
	}
	if v := d.Named("sizes"); v != nil {
		sizes, err := intList(v)
		if err != nil {
			return err
		}
		cfg.Sizes = sizes
	}

	m.Pagination(cfg)
	return nil
}

func intList(v *Value) ([]int, error) {
	if v.List == nil {
		return nil, argError("expected a list, got %s", v)
	}
	out := make([]int, 0, len(v.List.Items))
	for _, it := range v.List.Items {
		n, err := it.Int()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// applyParam handles "@param name in [required] key=value...".
func applyParam(m *annotate.Member, _ route.HandlerFunc, d *Directive) error {
	pos := d.Positional()
	if len(pos) < 2 {
		return argError("expected a name and a location")
	}

	opts := annotate.ParamOptions{}
	for _, v := range pos[2:] {
		if strings.EqualFold(v.Text(), "required") {
			opts.Required = true
			continue
		}
		return argError("unexpected %s", v)
	}

	if v := d.Named("description"); v != nil {
		opts.Description = v.Text()
	}
	if v := d.Named("type"); v != nil {
		opts.Type = v.Text()
	}
	if v := d.Named("format"); v != nil {
		opts.Format = v.Text()
	}
	if v := d.Named("collectionFormat"); v != nil {
		opts.CollectionFormat = v.Text()
	}
	if v := d.Named("default"); v != nil {
		opts.Default = v.Any()
	}
	if v := d.Named("enum"); v != nil {
		if v.List == nil {
			return argError("enum must be a list")
		}
		opts.Enum = v.Any().([]any)
	}
	if v := d.Named("items"); v != nil {
		opts.Items = &swagger.Schema{Type: v.Text()}
	}
	if v := d.Named("schema"); v != nil {
		ref, err := modelRef(m.Registry(), v.Text())
		if err != nil {
			return err
		}
		opts.Schema = ref
	}

	m.Param(pos[0].Text(), strings.ToLower(pos[1].Text()), opts)
	return nil
}

// applyResponse handles "@response [status] Model|[]Model [description]".
// Positional arguments are told apart by kind: numbers are statuses, quoted
// strings descriptions, tokens model names.
func applyResponse(m *annotate.Member, _ route.HandlerFunc, d *Directive) error {
	var (
		status      int
		description string
		modelName   string
	)

	for _, v := range d.Positional() {
		switch {
		case v.Number != nil:
			n, err := v.Int()
			if err != nil {
				return err
			}
			status = n
		case v.Str != nil:
			description = *v.Str
		case v.Token != nil:
			modelName = *v.Token
		default:
			return argError("unexpected %s", v)
		}
	}
	if v := d.Named("status"); v != nil {
		n, err := v.Int()
		if err != nil {
			return err
		}
		status = n
	}
	if v := d.Named("description"); v != nil {
		description = v.Text()
	}
	if v := d.Named("model"); v != nil {
		modelName = v.Text()
	}

	if modelName == "" {
		return argError("expected a model")
	}
	ref, err := modelRef(m.Registry(), modelName)
	if err != nil {
		return err
	}

	m.Response(ref, status, description)
	return nil
}

// modelRef resolves "User" or "[]User" to the registered struct type, or a
// slice of it.
func modelRef(r *annotate.Registry, name string) (reflect.Type, error) {
	elem, isList := strings.CutPrefix(name, "[]")

	t, ok := r.ModelType(elem)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, elem)
	}
	if isList {
		return reflect.SliceOf(t), nil
	}
	return t, nil
}

func applyJSON(m *annotate.Member, _ route.HandlerFunc, d *Directive) error {
	status := 0
	if pos := d.Positional(); len(pos) > 0 {
		n, err := pos[0].Int()
		if err != nil {
			return err
		}
		status = n
	}
	m.JSON(status)
	return nil
}

func applyRaw(m *annotate.Member, _ route.HandlerFunc, _ *Directive) error {
	m.Raw()
	return nil
}

func applySwaggerDoc(m *annotate.Member, _ route.HandlerFunc, _ *Directive) error {
	m.SwaggerDoc()
	return nil
}
