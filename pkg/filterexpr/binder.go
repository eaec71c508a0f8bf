// Package filterexpr turns CEL filter strings into typed query parameters.
//
// A filter is a conjunction of simple predicates over whitelisted fields, e.g.
//
//	text.startsWith('be') && timestamp >= timestamp('2025-01-01T00:00:00Z')
//
// Each predicate is bound onto a named field of a params struct, so repositories
// never see raw expressions.
package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Msg wraps request DTOs that expose a raw filter input.
type Msg interface {
	GetFilter() string
}

// ValueKind describes the kind of literal value a field accepts.
type ValueKind string

const (
	KindString    ValueKind = "string"
	KindTimestamp ValueKind = "timestamp"
)

// Op represents a supported comparison operation.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// FilterField describes which operations a field allows and the params struct
// field each operation is bound to.
type FilterField struct {
	Kind ValueKind
	Ops  map[Op]string
}

// Schema whitelists the filterable fields of a resource.
type Schema struct {
	Fields map[string]FilterField
}

// Predicate is one parsed comparison of a conjunction.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Bind parses the request filter and assigns every predicate onto binding.
// An empty filter leaves binding untouched.
func Bind[M Msg, P any](msg M, binding *P, schema Schema) error {
	if binding == nil {
		return errors.New("binding must not be nil")
	}
	preds, err := Parse(msg.GetFilter(), schema)
	if err != nil {
		return err
	}
	if len(preds) == 0 {
		return nil
	}

	dest := reflect.ValueOf(binding).Elem()
	if dest.Kind() != reflect.Struct {
		return errors.New("binding must point to a struct")
	}
	for _, pred := range preds {
		target := schema.Fields[pred.Field].Ops[pred.Op]
		field := dest.FieldByName(target)
		if !field.IsValid() || !field.CanSet() {
			return fmt.Errorf("params struct %s has no settable field %q", dest.Type(), target)
		}
		if err := assign(field, pred.Value); err != nil {
			return fmt.Errorf("field %q: %w", target, err)
		}
	}
	return nil
}

// Parse validates filter against schema and returns its predicates in source order.
func Parse(filter string, schema Schema) ([]Predicate, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil, nil
	}
	if len(schema.Fields) == 0 {
		return nil, errors.New("filter schema has no fields defined")
	}

	env, err := newEnv(schema.Fields)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Parse(filter)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid filter: %w", issues.Err())
	}
	parsed, err := cel.AstToParsedExpr(ast)
	if err != nil {
		return nil, fmt.Errorf("convert filter AST: %w", err)
	}

	var conjuncts []*exprpb.Expr
	if err := flattenAnd(parsed.GetExpr(), &conjuncts); err != nil {
		return nil, err
	}

	preds := make([]Predicate, 0, len(conjuncts))
	for _, expr := range conjuncts {
		pred, err := parsePredicate(expr)
		if err != nil {
			return nil, err
		}
		rule, ok := schema.Fields[pred.Field]
		if !ok {
			return nil, fmt.Errorf("field %q is not allowed", pred.Field)
		}
		if _, ok := rule.Ops[pred.Op]; !ok {
			return nil, fmt.Errorf("operator %q is not allowed for field %q", pred.Op, pred.Field)
		}
		if err := checkLiteral(rule.Kind, pred); err != nil {
			return nil, fmt.Errorf("field %q: %w", pred.Field, err)
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

func newEnv(fields map[string]FilterField) (*cel.Env, error) {
	opts := make([]cel.EnvOption, 0, len(fields))
	for name, rule := range fields {
		switch rule.Kind {
		case KindString:
			opts = append(opts, cel.Variable(name, cel.StringType))
		case KindTimestamp:
			opts = append(opts, cel.Variable(name, cel.TimestampType))
		default:
			return nil, fmt.Errorf("field %q: unsupported kind %s", name, rule.Kind)
		}
	}
	return cel.NewEnv(opts...)
}

func flattenAnd(expr *exprpb.Expr, out *[]*exprpb.Expr) error {
	if expr == nil {
		return errors.New("empty expression")
	}
	call := expr.GetCallExpr()
	if call == nil {
		*out = append(*out, expr)
		return nil
	}
	switch call.GetFunction() {
	case "_&&_":
		for _, arg := range call.GetArgs() {
			if err := flattenAnd(arg, out); err != nil {
				return err
			}
		}
		return nil
	case "_||_", "_?_:_", "!_":
		return fmt.Errorf("operator %q is not supported; only && is allowed", call.GetFunction())
	default:
		*out = append(*out, expr)
		return nil
	}
}

func parsePredicate(expr *exprpb.Expr) (Predicate, error) {
	call := expr.GetCallExpr()
	if call == nil {
		return Predicate{}, errors.New("expected a comparison or function call")
	}

	var (
		op          Op
		left, right *exprpb.Expr
	)
	args := call.GetArgs()
	switch call.GetFunction() {
	case "_==_":
		op = OpEQ
	case "_>=_":
		op = OpGTE
	case "_<=_":
		op = OpLTE
	case "@in":
		op = OpIN
	case "startsWith":
		op = OpSW
		if call.GetTarget() == nil || len(args) != 1 {
			return Predicate{}, errors.New("startsWith must be called on a field with one argument")
		}
		left, right = call.GetTarget(), args[0]
	default:
		return Predicate{}, fmt.Errorf("function %q is not supported", call.GetFunction())
	}
	if left == nil {
		if len(args) != 2 {
			return Predicate{}, fmt.Errorf("operator %q expects two operands", op)
		}
		left, right = args[0], args[1]
	}

	ident := left.GetIdentExpr()
	if ident == nil {
		return Predicate{}, errors.New("left-hand side must be a field name")
	}
	value, err := parseLiteral(right)
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Field: ident.GetName(), Op: op, Value: value}, nil
}

func parseLiteral(expr *exprpb.Expr) (any, error) {
	if constant := expr.GetConstExpr(); constant != nil {
		if _, ok := constant.GetConstantKind().(*exprpb.Constant_StringValue); ok {
			return constant.GetStringValue(), nil
		}
		return nil, fmt.Errorf("literal type %T is not supported", constant.GetConstantKind())
	}

	if list := expr.GetListExpr(); list != nil {
		values := make([]string, 0, len(list.GetElements()))
		for i, elem := range list.GetElements() {
			val, err := parseLiteral(elem)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			str, ok := val.(string)
			if !ok {
				return nil, errors.New("list elements must be strings")
			}
			values = append(values, str)
		}
		return values, nil
	}

	if call := expr.GetCallExpr(); call != nil && call.GetFunction() == "timestamp" {
		args := call.GetArgs()
		if call.GetTarget() != nil || len(args) != 1 || args[0].GetConstExpr() == nil {
			return nil, errors.New("timestamp() expects a single string literal")
		}
		raw := args[0].GetConstExpr().GetStringValue()
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("timestamp literal %q is not RFC3339", raw)
		}
		return t.UTC(), nil
	}

	return nil, errors.New("right-hand side must be a literal, list literal, or timestamp() call")
}

func checkLiteral(kind ValueKind, pred Predicate) error {
	switch kind {
	case KindString:
		if pred.Op == OpIN {
			list, ok := pred.Value.([]string)
			if !ok || len(list) == 0 {
				return errors.New("expected a non-empty list of strings")
			}
			return nil
		}
		if _, ok := pred.Value.(string); !ok {
			return errors.New("expected a string literal")
		}
	case KindTimestamp:
		if _, ok := pred.Value.(time.Time); !ok {
			return errors.New("expected a timestamp() literal")
		}
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
	return nil
}

func assign(field reflect.Value, value any) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		field = field.Elem()
	}
	v := reflect.ValueOf(value)
	if !v.Type().AssignableTo(field.Type()) {
		return fmt.Errorf("cannot assign %s to %s", v.Type(), field.Type())
	}
	if v.Kind() == reflect.Slice {
		clone := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(clone, v)
		v = clone
	}
	field.Set(v)
	return nil
}
