package jiki

// The closed set of error kinds. Node-gate kinds of the form
// "<NodeKind>NotAllowed" are added by RegisterNodeKind.

// scanning
const (
	KindUnknownCharacter                          Kind = "UnknownCharacter"
	KindNumberWithMultipleDecimalPoints           Kind = "NumberWithMultipleDecimalPoints"
	KindNumberEndsWithDecimalPoint                Kind = "NumberEndsWithDecimalPoint"
	KindNumberContainsAlpha                       Kind = "NumberContainsAlpha"
	KindNumberStartsWithZero                      Kind = "NumberStartsWithZero"
	KindInvalidNumberLiteral                      Kind = "InvalidNumberLiteral"
	KindMissingDoubleQuoteToStartString           Kind = "MissingDoubleQuoteToStartString"
	KindMissingDoubleQuoteToTerminateString       Kind = "MissingDoubleQuoteToTerminateString"
	KindMissingSingleQuoteToTerminateString       Kind = "MissingSingleQuoteToTerminateString"
	KindMissingBacktickToTerminateTemplateLiteral Kind = "MissingBacktickToTerminateTemplateLiteral"
	KindUnterminatedBlockComment                  Kind = "UnterminatedBlockComment"
	KindIndentationError                          Kind = "IndentationError"
	KindUnimplementedToken                        Kind = "UnimplementedToken"
	KindPermanentlyExcludedToken                  Kind = "PermanentlyExcludedToken"
	KindDisabledFeatureViolation                  Kind = "DisabledFeatureViolation"
)

// parsing
const (
	KindUnexpectedToken                                         Kind = "UnexpectedToken"
	KindUnexpectedKeyword                                       Kind = "UnexpectedKeyword"
	KindUnexpectedEndOfInput                                    Kind = "UnexpectedEndOfInput"
	KindMiscapitalizedKeyword                                   Kind = "MiscapitalizedKeyword"
	KindMissingExpression                                       Kind = "MissingExpression"
	KindMissingSemicolon                                        Kind = "MissingSemicolon"
	KindMultipleStatementsPerLine                               Kind = "MultipleStatementsPerLine"
	KindMissingEndOfLine                                        Kind = "MissingEndOfLine"
	KindMissingInitializerInConstDeclaration                    Kind = "MissingInitializerInConstDeclaration"
	KindConstInForLoopInit                                      Kind = "ConstInForLoopInit"
	KindNestedFunctionDeclaration                               Kind = "NestedFunctionDeclaration"
	KindMissingColon                                            Kind = "MissingColon"
	KindMissingIndentedBlock                                    Kind = "MissingIndentedBlock"
	KindUnexpectedIndentation                                   Kind = "UnexpectedIndentation"
	KindMissingDoToStartBlock                                   Kind = "MissingDoToStartBlock"
	KindMissingEndAfterBlock                                    Kind = "MissingEndAfterBlock"
	KindMissingLeftBraceToStartBlock                            Kind = "MissingLeftBraceToStartBlock"
	KindMissingRightBraceAfterBlock                             Kind = "MissingRightBraceAfterBlock"
	KindMissingLeftParenthesisAfterKeyword                      Kind = "MissingLeftParenthesisAfterKeyword"
	KindMissingRightParenthesisAfterExpression                  Kind = "MissingRightParenthesisAfterExpression"
	KindMissingRightParenthesisAfterExpressionWithPotentialTypo Kind = "MissingRightParenthesisAfterExpressionWithPotentialTypo"
	KindMissingRightParenthesisAfterFunctionCall                Kind = "MissingRightParenthesisAfterFunctionCall"
	KindMissingRightBracketAfterIndex                           Kind = "MissingRightBracketAfterIndex"
	KindMissingRightBracketAfterListElements                    Kind = "MissingRightBracketAfterListElements"
	KindMissingCommaBetweenListElements                         Kind = "MissingCommaBetweenListElements"
	KindTrailingCommaInList                                     Kind = "TrailingCommaInList"
	KindMissingRightBraceAfterDictionary                        Kind = "MissingRightBraceAfterDictionary"
	KindMissingCommaInDictionary                                Kind = "MissingCommaInDictionary"
	KindMissingColonInDictionary                                Kind = "MissingColonInDictionary"
	KindTrailingCommaInDictionary                               Kind = "TrailingCommaInDictionary"
	KindDuplicateDictionaryKey                                  Kind = "DuplicateDictionaryKey"
	KindInvalidDictionaryKey                                    Kind = "InvalidDictionaryKey"
	KindUnexpectedClosingBracket                                Kind = "UnexpectedClosingBracket"
	KindPointlessStatementWithNoEffect                          Kind = "PointlessStatementWithNoEffect"
	KindPotentialMissingParenthesesForFunctionCall              Kind = "PotentialMissingParenthesesForFunctionCall"
	KindUnexpectedSpaceInIdentifier                             Kind = "UnexpectedSpaceInIdentifier"
	KindInvalidNumericVariableName                              Kind = "InvalidNumericVariableName"
	KindMissingVariableName                                     Kind = "MissingVariableName"
	KindMissingToAfterVariableName                              Kind = "MissingToAfterVariableName"
	KindUnexpectedEqualsForAssignmentUseSetInstead              Kind = "UnexpectedEqualsForAssignmentUseSetInstead"
	KindUnexpectedEqualsForEqualityUseIsInstead                 Kind = "UnexpectedEqualsForEqualityUseIsInstead"
	KindUnexpectedChainedEquality                               Kind = "UnexpectedChainedEquality"
	KindInvalidAssignmentTarget                                 Kind = "InvalidAssignmentTarget"
	KindUnexpectedElseWithoutMatchingIf                         Kind = "UnexpectedElseWithoutMatchingIf"
	KindMissingIfCondition                                      Kind = "MissingIfCondition"
	KindMissingCondition                                        Kind = "MissingCondition"
	KindMissingFunctionName                                     Kind = "MissingFunctionName"
	KindMissingParameterName                                    Kind = "MissingParameterName"
	KindMissingCommaBetweenParameters                           Kind = "MissingCommaBetweenParameters"
	KindMissingWithBeforeParameters                             Kind = "MissingWithBeforeParameters"
	KindDuplicateParameterName                                  Kind = "DuplicateParameterName"
	KindMissingTimesInRepeat                                    Kind = "MissingTimesInRepeat"
	KindMissingEachAfterFor                                     Kind = "MissingEachAfterFor"
	KindMissingInAfterForEachVariable                           Kind = "MissingInAfterForEachVariable"
	KindMissingOfInForLoop                                      Kind = "MissingOfInForLoop"
	KindMissingSemicolonInForLoop                               Kind = "MissingSemicolonInForLoop"
	KindMissingByAfterIndexed                                   Kind = "MissingByAfterIndexed"
	KindMissingIndexNameAfterIndexedBy                          Kind = "MissingIndexNameAfterIndexedBy"
	KindMissingSecondElementName                                Kind = "MissingSecondElementName"
	KindMissingMemberName                                       Kind = "MissingMemberName"
	KindMissingClassName                                        Kind = "MissingClassName"
	KindVariableCannotBeNamespaced                              Kind = "VariableCannotBeNamespaced"
	KindFunctionCannotBeNamespaced                              Kind = "FunctionCannotBeNamespaced"
)

// evaluation
const (
	KindVariableNotDeclared                Kind = "VariableNotDeclared"
	KindVariableAlreadyDeclared            Kind = "VariableAlreadyDeclared"
	KindVariableNotAccessibleInFunction    Kind = "VariableNotAccessibleInFunction"
	KindConstAssignment                    Kind = "ConstAssignment"
	KindShadowingDisabled                  Kind = "ShadowingDisabled"
	KindFunctionNotFound                   Kind = "FunctionNotFound"
	KindClassNotFound                      Kind = "ClassNotFound"
	KindUnexpectedUncalledFunction         Kind = "UnexpectedUncalledFunction"
	KindNotCallable                        Kind = "NotCallable"
	KindInvalidNumberOfArguments           Kind = "InvalidNumberOfArguments"
	KindLogicErrorInExecution              Kind = "LogicErrorInExecution"
	KindFunctionExecutionError             Kind = "FunctionExecutionError"
	KindTypeCoercionNotAllowed             Kind = "TypeCoercionNotAllowed"
	KindTruthinessDisabled                 Kind = "TruthinessDisabled"
	KindStrictEqualityRequired             Kind = "StrictEqualityRequired"
	KindOperandMustBeNumber                Kind = "OperandMustBeNumber"
	KindOperandMustBeBoolean               Kind = "OperandMustBeBoolean"
	KindUnsupportedOperation               Kind = "UnsupportedOperation"
	KindCannotCompareListObjects           Kind = "CannotCompareListObjects"
	KindCannotCompareObjectInstances       Kind = "CannotCompareObjectInstances"
	KindDivisionByZero                     Kind = "DivisionByZero"
	KindIndexIsZeroBased                   Kind = "IndexIsZeroBased"
	KindIndexOutOfBounds                   Kind = "IndexOutOfBounds"
	KindIndexMustBeInteger                 Kind = "IndexMustBeInteger"
	KindNotIndexable                       Kind = "NotIndexable"
	KindKeyNotFound                        Kind = "KeyNotFound"
	KindDictionaryKeyMustBeString          Kind = "DictionaryKeyMustBeString"
	KindNotIterable                        Kind = "NotIterable"
	KindUnexpectedForeachSecondElementName Kind = "UnexpectedForeachSecondElementName"
	KindMissingForeachSecondElementName    Kind = "MissingForeachSecondElementName"
	KindPropertyNotFound                   Kind = "PropertyNotFound"
	KindMethodNotFound                     Kind = "MethodNotFound"
	KindImmutableValue                     Kind = "ImmutableValue"
	KindExpressionEvaluatedToNull          Kind = "ExpressionEvaluatedToNull"
	KindCannotStoreNullValueFromFunction   Kind = "CannotStoreNullValueFromFunction"
	KindMaxIterationsReached               Kind = "MaxIterationsReached"
	KindRepeatCountTooHigh                 Kind = "RepeatCountTooHigh"
	KindRepeatCountMustBeNumber            Kind = "RepeatCountMustBeNumber"
	KindRepeatCountMustBeZeroOrGreater     Kind = "RepeatCountMustBeZeroOrGreater"
	KindRepeatCountMustBeInteger           Kind = "RepeatCountMustBeInteger"
	KindMaxTotalExecutionTimeExceeded      Kind = "MaxTotalExecutionTimeExceeded"
	KindInfiniteRecursionDetected          Kind = "InfiniteRecursionDetected"
	KindReturnOutsideFunction              Kind = "ReturnOutsideFunction"
	KindBreakOutsideLoop                   Kind = "BreakOutsideLoop"
	KindContinueOutsideLoop                Kind = "ContinueOutsideLoop"
	KindNodeNotAllowed                     Kind = "NodeNotAllowed"
)

// engine
const (
	KindUnknownErrorKind Kind = "UnknownErrorKind"
	KindInternalError    Kind = "InternalError"
)

var kinds = map[Kind]bool{}

func init() {
	for _, k := range []Kind{
		KindUnknownCharacter,
		KindNumberWithMultipleDecimalPoints,
		KindNumberEndsWithDecimalPoint,
		KindNumberContainsAlpha,
		KindNumberStartsWithZero,
		KindInvalidNumberLiteral,
		KindMissingDoubleQuoteToStartString,
		KindMissingDoubleQuoteToTerminateString,
		KindMissingSingleQuoteToTerminateString,
		KindMissingBacktickToTerminateTemplateLiteral,
		KindUnterminatedBlockComment,
		KindIndentationError,
		KindUnimplementedToken,
		KindPermanentlyExcludedToken,
		KindDisabledFeatureViolation,
		KindUnexpectedToken,
		KindUnexpectedKeyword,
		KindUnexpectedEndOfInput,
		KindMiscapitalizedKeyword,
		KindMissingExpression,
		KindMissingSemicolon,
		KindMultipleStatementsPerLine,
		KindMissingEndOfLine,
		KindMissingInitializerInConstDeclaration,
		KindConstInForLoopInit,
		KindNestedFunctionDeclaration,
		KindMissingColon,
		KindMissingIndentedBlock,
		KindUnexpectedIndentation,
		KindMissingDoToStartBlock,
		KindMissingEndAfterBlock,
		KindMissingLeftBraceToStartBlock,
		KindMissingRightBraceAfterBlock,
		KindMissingLeftParenthesisAfterKeyword,
		KindMissingRightParenthesisAfterExpression,
		KindMissingRightParenthesisAfterExpressionWithPotentialTypo,
		KindMissingRightParenthesisAfterFunctionCall,
		KindMissingRightBracketAfterIndex,
		KindMissingRightBracketAfterListElements,
		KindMissingCommaBetweenListElements,
		KindTrailingCommaInList,
		KindMissingRightBraceAfterDictionary,
		KindMissingCommaInDictionary,
		KindMissingColonInDictionary,
		KindTrailingCommaInDictionary,
		KindDuplicateDictionaryKey,
		KindInvalidDictionaryKey,
		KindUnexpectedClosingBracket,
		KindPointlessStatementWithNoEffect,
		KindPotentialMissingParenthesesForFunctionCall,
		KindUnexpectedSpaceInIdentifier,
		KindInvalidNumericVariableName,
		KindMissingVariableName,
		KindMissingToAfterVariableName,
		KindUnexpectedEqualsForAssignmentUseSetInstead,
		KindUnexpectedEqualsForEqualityUseIsInstead,
		KindUnexpectedChainedEquality,
		KindInvalidAssignmentTarget,
		KindUnexpectedElseWithoutMatchingIf,
		KindMissingIfCondition,
		KindMissingCondition,
		KindMissingFunctionName,
		KindMissingParameterName,
		KindMissingCommaBetweenParameters,
		KindMissingWithBeforeParameters,
		KindDuplicateParameterName,
		KindMissingTimesInRepeat,
		KindMissingEachAfterFor,
		KindMissingInAfterForEachVariable,
		KindMissingOfInForLoop,
		KindMissingSemicolonInForLoop,
		KindMissingByAfterIndexed,
		KindMissingIndexNameAfterIndexedBy,
		KindMissingSecondElementName,
		KindMissingMemberName,
		KindMissingClassName,
		KindVariableCannotBeNamespaced,
		KindFunctionCannotBeNamespaced,
		KindVariableNotDeclared,
		KindVariableAlreadyDeclared,
		KindVariableNotAccessibleInFunction,
		KindConstAssignment,
		KindShadowingDisabled,
		KindFunctionNotFound,
		KindClassNotFound,
		KindUnexpectedUncalledFunction,
		KindNotCallable,
		KindInvalidNumberOfArguments,
		KindLogicErrorInExecution,
		KindFunctionExecutionError,
		KindTypeCoercionNotAllowed,
		KindTruthinessDisabled,
		KindStrictEqualityRequired,
		KindOperandMustBeNumber,
		KindOperandMustBeBoolean,
		KindUnsupportedOperation,
		KindCannotCompareListObjects,
		KindCannotCompareObjectInstances,
		KindDivisionByZero,
		KindIndexIsZeroBased,
		KindIndexOutOfBounds,
		KindIndexMustBeInteger,
		KindNotIndexable,
		KindKeyNotFound,
		KindDictionaryKeyMustBeString,
		KindNotIterable,
		KindUnexpectedForeachSecondElementName,
		KindMissingForeachSecondElementName,
		KindPropertyNotFound,
		KindMethodNotFound,
		KindImmutableValue,
		KindExpressionEvaluatedToNull,
		KindCannotStoreNullValueFromFunction,
		KindMaxIterationsReached,
		KindRepeatCountTooHigh,
		KindRepeatCountMustBeNumber,
		KindRepeatCountMustBeZeroOrGreater,
		KindRepeatCountMustBeInteger,
		KindMaxTotalExecutionTimeExceeded,
		KindInfiniteRecursionDetected,
		KindReturnOutsideFunction,
		KindBreakOutsideLoop,
		KindContinueOutsideLoop,
		KindNodeNotAllowed,
		KindUnknownErrorKind,
		KindInternalError,
	} {
		kinds[k] = true
	}
}
// KnownKind reports whether k belongs to the taxonomy.
func KnownKind(k Kind) bool {
	return kinds[k]
}

// RegisterNodeKind adds the "<node>NotAllowed" kind for a node kind name.
// It is called from package ast during initialization.
func RegisterNodeKind(node string) {
	kinds[NotAllowed(node)] = true
}

// NotAllowed names the gate error raised when a node kind is disabled.
func NotAllowed(node string) Kind {
	return Kind(node + "NotAllowed")
}
