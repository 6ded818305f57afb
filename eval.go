package main

import (
	"math"
	"math/rand"
	"time"
)

//
// Evaluate an expression tree against the current variable
// environment, producing a value.  All type errors surface here,
// at evaluation time - there is no static checking
//

func evaluateExpr(node *exprNode) any {

	switch node.token {
	default:
		unexpectedTokenError(node.token)

	case INTEGER:
		return node.tokenData.(int64)

	case FLOAT:
		return node.tokenData.(float64)

	case STRING:
		return node.tokenData.(string)

	case IDENT:
		return lookupSymbolValue(node.tokenData.(string))

	case ARRAY:
		array := make([]any, len(node.operands))
		for i, op := range node.operands {
			array[i] = evaluateExpr(op)
		}
		return array

	case NULLARRAY:
		size := toInteger(evaluateExpr(node.operands[0]))
		runtimeCheck(size >= 0, EvalError,
			"Array size must be non-negative, got %d", size)

		array := make([]any, size)
		for i := range array {
			array[i] = nullValue{}
		}
		return array

	case INDEX:
		return evaluateIndex(node)

	case CALL:
		return evaluateCall(node.tokenData.(string), node.operands)

	case BANG:
		return boolValue(!isTruthy(evaluateExpr(node.operands[0])))

	case PLUS, MINUS:
		if len(node.operands) == 1 {
			return evaluateUnary(node.token,
				evaluateExpr(node.operands[0]))
		}
		fallthrough

	case STAR, SLASH, PERCENT, LT, GT, LE, GE, EQEQ, NE, AMP, PIPE:
		left := evaluateExpr(node.operands[0])
		right := evaluateExpr(node.operands[1])
		return applyBinary(node.token, left, right)
	}

	panic("not reached")
}

func evaluateIndex(node *exprNode) any {

	base := evaluateExpr(node.operands[0])

	array, ok := base.([]any)
	runtimeCheck(ok, EvalError, "Cannot index a non-array value")

	index := toInteger(evaluateExpr(node.operands[1]))

	runtimeCheck(index >= 0 && index < int64(len(array)), EvalError,
		"Index %d out of bounds for array of length %d",
		index, len(array))

	elem := array[index]

	//
	// Reading an element that was never assigned is an error, not
	// a silent zero
	//

	if _, unset := elem.(nullValue); unset {
		runtimeError(EvalError, EUNSETELEMENT)
	}

	return elem
}

func evaluateUnary(op int, val any) any {

	runtimeCheck(isNumeric(val), EvalError,
		"Cannot negate a non-numeric value")

	if op == PLUS {
		return val
	}

	if v, ok := val.(int64); ok {
		return -v
	}

	return -val.(float64)
}

//
// The per-operator coercion table.  Arithmetic on two integers
// yields an integer (wrapping on overflow, two's complement);
// anything involving a float yields a float.  '+' additionally
// concatenates two strings.  Every combination not listed here is
// an EvalError, never an implicit fallback
//

func applyBinary(op int, left, right any) any {

	switch op {
	default:
		unexpectedTokenError(op)

	case PLUS:
		if l, ok := left.(string); ok {
			r, ok := right.(string)
			runtimeCheck(ok, EvalError,
				"Cannot add string and non-string")
			return l + r
		}
		return arith(op, left, right)

	case MINUS, STAR, SLASH, PERCENT:
		return arith(op, left, right)

	case LT:
		return boolValue(comparisonValue(left) < comparisonValue(right))

	case GT:
		return boolValue(comparisonValue(left) > comparisonValue(right))

	case LE:
		return boolValue(comparisonValue(left) <= comparisonValue(right))

	case GE:
		return boolValue(comparisonValue(left) >= comparisonValue(right))

	case EQEQ:
		return boolValue(valuesEqual(left, right))

	case NE:
		return boolValue(!valuesEqual(left, right))

	case AMP:
		return boolValue(isTruthy(left) && isTruthy(right))

	case PIPE:
		return boolValue(isTruthy(left) || isTruthy(right))
	}

	panic("not reached")
}

func arith(op int, left, right any) any {

	runtimeCheck(isNumeric(left) && isNumeric(right), EvalError,
		"Cannot apply %s to non-numeric operands", tokenNames[op])

	if isInt(left) && isInt(right) {
		l, r := left.(int64), right.(int64)

		switch op {
		default:
			unexpectedTokenError(op)

		case PLUS:
			return l + r

		case MINUS:
			return l - r

		case STAR:
			return l * r

		case SLASH:
			runtimeCheck(r != 0, EvalError, EDIVISIONBYZERO)
			return l / r

		case PERCENT:
			runtimeCheck(r != 0, EvalError, EDIVISIONBYZERO)
			return l % r
		}
	}

	l, r := toFloat(left), toFloat(right)

	switch op {
	default:
		unexpectedTokenError(op)

	case PLUS:
		return l + r

	case MINUS:
		return l - r

	case STAR:
		return l * r

	case SLASH:
		runtimeCheck(r != 0.0, EvalError, EDIVISIONBYZERO)
		return l / r

	case PERCENT:
		runtimeCheck(r != 0.0, EvalError, EDIVISIONBYZERO)
		return math.Mod(l, r)
	}

	panic("not reached")
}

//
// Equality: numerics compare by value across int/float, strings
// compare as strings.  Mixed string/number equality is an error
//

func valuesEqual(left, right any) bool {

	if isNumeric(left) && isNumeric(right) {
		return comparisonValue(left) == comparisonValue(right)
	}

	ls, lok := left.(string)
	rs, rok := right.(string)

	runtimeCheck(lok && rok, EvalError,
		"Cannot compare values of different types")

	return ls == rs
}

func boolValue(b bool) int64 {

	if b {
		return 1
	}

	return 0
}

//
// Built-in functions usable inside expressions
//

func evaluateCall(name string, args []*exprNode) any {

	switch name {
	default:
		runtimeError(EvalError, EUNKNOWNFUNCTION, name)

	case "sin":
		return math.Sin(toFloat(evaluateOneArg(name, args)))

	case "cos":
		return math.Cos(toFloat(evaluateOneArg(name, args)))

	case "rad":
		return toFloat(evaluateOneArg(name, args)) * math.Pi / 180.0

	case "deg":
		return toFloat(evaluateOneArg(name, args)) * 180.0 / math.Pi

	case "chr":
		n := toInteger(evaluateOneArg(name, args))
		runtimeCheck(n >= 0 && n <= 255, EvalError,
			"chr expects 0..255, got %d", n)
		return string(rune(n))

	case "str":
		return formatValue(evaluateOneArg(name, args), false)

	case "int":
		return toInteger(evaluateOneArg(name, args))

	case "rnd":
		runtimeCheck(len(args) == 2, EvalError, EWANTARGS,
			"rnd", 2, len(args))

		lo := toFloat(evaluateExpr(args[0]))
		hi := toFloat(evaluateExpr(args[1]))
		runtimeCheck(hi > lo, EvalError,
			"rnd range is empty")

		return lo + rand.Float64()*(hi-lo)

	case "time":
		runtimeCheck(len(args) == 0, EvalError, EWANTARGS,
			"time", 0, len(args))

		return time.Since(g.startTime).Seconds()
	}

	panic("not reached")
}

func evaluateOneArg(name string, args []*exprNode) any {

	runtimeCheck(len(args) == 1, EvalError, EWANTARGS,
		name, 1, len(args))

	return evaluateExpr(args[0])
}
