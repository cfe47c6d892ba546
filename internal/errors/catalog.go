package errors

// Standardised error messages: lowercase, present tense, parameterised
// with %s/%v.
const (
	MsgIndexOutOfBounds   = "index out of bounds: %v"
	MsgNegativeIndex      = "index out of bounds: negative index %v"
	MsgIsPrivateMember    = "%s.%s is a private member"
	MsgMemberNotFound     = "member not found: %s.%s"
	MsgUndefinedVariable  = "variable not found: %s"
	MsgUndefinedFunction  = "function not found: %s"
	MsgAssignToConst      = "cannot assign to const %s"
	MsgZeroStep           = "for-loop step cannot be zero"
	MsgForParseError      = "cannot parse %q as a for-loop bound"
	MsgNestedFunction     = "nested function definitions are not allowed"
	MsgArityMismatch      = "%s expects at most %d argument(s), got %d"
	MsgTypeMismatch       = "expected %s, got %s"
	MsgNotAPlaceExpr      = "expression is not assignable"
	MsgConstructorMissing = "class %s has no constructor"
	MsgNotCallable        = "%s is not callable"
)

// Constructors for the error shapes this evaluator raises most often.

func NewIndexOutOfBounds(index any) *UError {
	return New(ArrayError, MsgIndexOutOfBounds, index)
}

func NewIsPrivateMember(moduleName, member string) *UError {
	return New(ModuleError, MsgIsPrivateMember, moduleName, member)
}

func NewMemberNotFound(receiver, member string) *UError {
	return New(DotOperatorError, MsgMemberNotFound, receiver, member)
}

func NewUndefinedVariable(name string) *UError {
	return New(EvaluatorError, MsgUndefinedVariable, name)
}

func NewUndefinedFunction(name string) *UError {
	return New(FuncCallError, MsgUndefinedFunction, name)
}
