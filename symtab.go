package main

import (
	"strconv"
	"strings"
)

//
// The variable environment is a single flat map from identifier to
// value.  Runtime values are one of:
//
//	int64      - integer
//	float64    - float
//	string     - string
//	[]any      - array (elements are themselves values)
//	nullValue  - the null sentinel in fresh [n] arrays
//
// There are no declarations: assignment creates.  The table is
// created empty at program start and lives until the run ends
//

func initSymbolTable() {

	r.vars = make(map[string]any)
}

//
// Look up a scalar or array variable, throwing an EvalError if it
// was never assigned
//

func lookupSymbolValue(name string) any {

	val, ok := r.vars[name]

	runtimeCheck(ok, EvalError, EUNDEFINEDVAR, name)

	return val
}

func storeSymbolValue(name string, val any) {

	r.vars[name] = val

	if g.traceExec {
		tracePrintf("  %s = %s", name, formatValue(val, true))
	}
}

//
// Truthiness: nonzero numbers and nonempty strings/arrays are true.
// The null sentinel is false
//

func isTruthy(val any) bool {

	switch val := val.(type) {
	default:
		unexpectedTypeError(val)

	case int64:
		return val != 0

	case float64:
		return val != 0.0

	case string:
		return val != ""

	case []any:
		return len(val) > 0

	case nullValue:
		return false
	}

	panic("not reached")
}

//
// Numeric view of a value, for comparisons and loop bounds.  Strings,
// arrays and nulls do not have one
//

func comparisonValue(val any) float64 {

	switch val := val.(type) {
	default:
		unexpectedTypeError(val)

	case int64:
		return float64(val)

	case float64:
		return val

	case string:
		runtimeError(EvalError, "Cannot compare string %q", val)

	case []any:
		runtimeError(EvalError, "Cannot compare an array")

	case nullValue:
		runtimeError(EvalError, EUNSETELEMENT)
	}

	panic("not reached")
}

//
// Integer coercion per the 'int' statement: integers pass through,
// floats truncate toward zero, strings must parse as an integer
// literal
//

func toInteger(val any) int64 {

	switch val := val.(type) {
	default:
		unexpectedTypeError(val)

	case int64:
		return val

	case float64:
		return int64(val)

	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		runtimeCheck(err == nil, EvalError,
			"%q is not a valid integer", val)
		return i

	case []any:
		runtimeError(EvalError, "Cannot convert an array to integer")

	case nullValue:
		runtimeError(EvalError, EUNSETELEMENT)
	}

	panic("not reached")
}

func toFloat(val any) float64 {

	switch val := val.(type) {
	default:
		unexpectedTypeError(val)

	case int64:
		return float64(val)

	case float64:
		return val

	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		runtimeCheck(err == nil, EvalError,
			"%q is not a valid number", val)
		return f

	case []any:
		runtimeError(EvalError, "Cannot convert an array to float")

	case nullValue:
		runtimeError(EvalError, EUNSETELEMENT)
	}

	panic("not reached")
}

//
// Round a coordinate value to the nearest pixel column/row.
// Integers pass through; floats round to nearest
//

func toCoord(val any) int {

	switch val := val.(type) {
	default:
		unexpectedTypeError(val)

	case int64:
		return int(val)

	case float64:
		if val < 0 {
			return int(val - 0.5)
		}
		return int(val + 0.5)

	case string, []any, nullValue:
		runtimeError(EvalError, "Coordinate must be numeric")
	}

	panic("not reached")
}

//
// The one textual rendering of values.  With delimiters, arrays come
// out as '{1, 2, 3}' - the 'print' form.  Without, elements are
// simply concatenated - the 'str' form.  Floats use the shortest
// round-trip 'g' form; this policy is fixed and golden-tested
//

func formatValue(val any, delimiters bool) string {

	switch val := val.(type) {
	default:
		unexpectedTypeError(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)

	case string:
		return val

	case []any:
		var sb strings.Builder

		if delimiters {
			sb.WriteString("{")
		}

		for i, elem := range val {
			sb.WriteString(formatValue(elem, delimiters))
			if delimiters && i != len(val)-1 {
				sb.WriteString(", ")
			}
		}

		if delimiters {
			sb.WriteString("}")
		}

		return sb.String()

	case nullValue:
		return "nil"
	}

	panic("not reached")
}

func isInt(val any) bool {

	_, ok := val.(int64)

	return ok
}

func isFloat(val any) bool {

	_, ok := val.(float64)

	return ok
}

func isNumeric(val any) bool {

	return isInt(val) || isFloat(val)
}
