// Package diagnostics carries located, coded errors from the parser and
// static checker back to a driver.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/smlfront/internal/loc"
)

// Phase names which stage of the pipeline raised an error.
type Phase string

const (
	PhaseParser  Phase = "parser"
	PhaseChecker Phase = "checker"
)

// ErrorCode is a stable identifier for one kind of diagnostic, independent
// of its rendered message.
type ErrorCode string

const (
	// Parser-phase codes.
	ErrExpectedButFound   ErrorCode = "P001"
	ErrInfixWithoutOp     ErrorCode = "P002"
	ErrNotInfix           ErrorCode = "P003"
	ErrRealPat            ErrorCode = "P004"
	ErrNegativeFixity     ErrorCode = "P005"
	ErrSameFixityDiffAssoc ErrorCode = "P006"
	ErrParserUnsupported  ErrorCode = "P007"

	// Checker-phase codes.
	ErrUndefined            ErrorCode = "A001"
	ErrRedefined            ErrorCode = "A002"
	ErrForbiddenBinding     ErrorCode = "A003"
	ErrDuplicateLabel       ErrorCode = "A004"
	ErrPatNotArrow          ErrorCode = "A005"
	ErrFunDecNameMismatch   ErrorCode = "A006"
	ErrFunDecWrongNumPats   ErrorCode = "A007"
	ErrExnWrongIdStatus     ErrorCode = "A008"
	ErrDatatypeCopyNotDatatype ErrorCode = "A009"
	ErrTyNameEscape         ErrorCode = "A010"
	ErrCircularTy           ErrorCode = "A011"
	ErrHeadMismatch         ErrorCode = "A012"
	ErrRowMismatch          ErrorCode = "A013"
	ErrNonExhaustiveMatch   ErrorCode = "A014"
	ErrUnreachableArm       ErrorCode = "A015"
	ErrNoSuitableOverload   ErrorCode = "A016"
	ErrCheckerUnsupported   ErrorCode = "A017"
	ErrInternal             ErrorCode = "A999"
)

var errorTemplates = map[ErrorCode]string{
	ErrExpectedButFound:       "expected %s but found %s",
	ErrInfixWithoutOp:         "infix identifier %s used without op in declaration position",
	ErrNotInfix:               "%s is not infix",
	ErrRealPat:                "real constants are not allowed in patterns",
	ErrNegativeFixity:         "fixity precedence must not be negative",
	ErrSameFixityDiffAssoc:    "consecutive infix operators %s and %s have the same precedence but different associativity",
	ErrParserUnsupported:      "unsupported syntax: %s",
	ErrUndefined:              "undefined identifier %s",
	ErrRedefined:              "%s is rebound where rebinding is not permitted here",
	ErrForbiddenBinding:       "%s may not be rebound",
	ErrDuplicateLabel:         "duplicate label %s in record",
	ErrPatNotArrow:            "expected a function type for this pattern, found %s",
	ErrFunDecNameMismatch:     "clauses of a fun binding must all name the same function, found %s and %s",
	ErrFunDecWrongNumPats:     "clauses of a fun binding must all take the same number of arguments",
	ErrExnWrongIdStatus:       "%s does not have exception status",
	ErrDatatypeCopyNotDatatype: "%s is not a datatype and cannot be copied",
	ErrTyNameEscape:           "type name %s would escape its scope",
	ErrCircularTy:             "circular type: %s occurs in %s",
	ErrHeadMismatch:           "cannot unify %s with %s",
	ErrRowMismatch:            "record types %s and %s have different fields",
	ErrNonExhaustiveMatch:     "match is not exhaustive",
	ErrUnreachableArm:         "this match rule is unreachable",
	ErrNoSuitableOverload:     "no suitable overload resolves the type of %s",
	ErrCheckerUnsupported:     "unsupported: %s",
	ErrInternal:               "internal error: %s",
}

// DiagnosticError is the one error type emitted by this module's parser and
// checker. It carries enough structure for a caller to match on Code
// without string comparison, and enough to render a human message via
// Error().
type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Pos   loc.Loc
	Args  []any
	File  string
	Hint  string
}

func (e *DiagnosticError) Error() string {
	msg := e.message()
	prefix := e.File
	if prefix == "" {
		prefix = "<input>"
	}
	out := fmt.Sprintf("%s: [%s] error at %s [%s]: %s", prefix, e.Phase, e.Pos, e.Code, msg)
	if e.Hint != "" {
		out += " (" + e.Hint + ")"
	}
	return out
}

func (e *DiagnosticError) message() string {
	tmpl, ok := errorTemplates[e.Code]
	if !ok {
		return string(e.Code)
	}
	return fmt.Sprintf(tmpl, e.Args...)
}

// NewError builds a DiagnosticError with no extra hint.
func NewError(phase Phase, pos loc.Loc, code ErrorCode, args ...any) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: phase, Pos: pos, Args: args}
}

// NewParserError is a convenience constructor for parser-phase errors.
func NewParserError(pos loc.Loc, code ErrorCode, args ...any) *DiagnosticError {
	return NewError(PhaseParser, pos, code, args...)
}

// NewCheckerError is a convenience constructor for checker-phase errors.
func NewCheckerError(pos loc.Loc, code ErrorCode, args ...any) *DiagnosticError {
	return NewError(PhaseChecker, pos, code, args...)
}

// InternalError wraps an unexpected invariant violation so it still renders
// as a DiagnosticError rather than panicking.
func InternalError(pos loc.Loc, msg string) *DiagnosticError {
	return NewError(PhaseChecker, pos, ErrInternal, msg)
}

// WrapError promotes a generic error into a DiagnosticError, preserving an
// existing DiagnosticError's phase/position unchanged.
func WrapError(pos loc.Loc, phase Phase, err error) *DiagnosticError {
	if de, ok := err.(*DiagnosticError); ok {
		return de
	}
	return NewError(phase, pos, ErrInternal, err.Error())
}
