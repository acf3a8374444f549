// Package errs holds the engine's flat error taxonomy: one struct per kind,
// carrying a message and an optional structured context, plus constructor
// functions for the common cases raised while parsing configuration,
// compiling constraints, and running the transducer algebra.
package errs

import "fmt"

// ConfigurationError covers invalid configuration values, missing keys,
// mutation weights summing to zero, and min>max bound violations.
type ConfigurationError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Kind, e.Message)
}

func NewConfigurationError(kind, message string, context map[string]any) *ConfigurationError {
	return &ConfigurationError{Kind: kind, Message: message, Context: context}
}

// FeatureParseError covers malformed feature tables: duplicate labels,
// values outside a feature's declared set, segments with the wrong number
// of feature values.
type FeatureParseError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *FeatureParseError) Error() string {
	return fmt.Sprintf("feature parse error (%s): %s", e.Kind, e.Message)
}

func NewFeatureParseError(kind, message string, context map[string]any) *FeatureParseError {
	return &FeatureParseError{Kind: kind, Message: message, Context: context}
}

// GrammarParseError covers constraint descriptors referencing unknown
// features or types, and bundle-count violations.
type GrammarParseError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *GrammarParseError) Error() string {
	return fmt.Sprintf("grammar parse error (%s): %s", e.Kind, e.Message)
}

func NewGrammarParseError(kind, message string, context map[string]any) *GrammarParseError {
	return &GrammarParseError{Kind: kind, Message: message, Context: context}
}

// ConstraintError covers an alignment constraint encountering a segment
// symbol outside its expected class.
type ConstraintError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint error (%s): %s", e.Kind, e.Message)
}

func NewConstraintError(symbol, constraintName string) *ConstraintError {
	return &ConstraintError{
		Kind:    "UnsupportedSymbol",
		Message: fmt.Sprintf("%s not supported in %s", symbol, constraintName),
		Context: map[string]any{"symbol": symbol, "constraint": constraintName},
	}
}

// CostVectorOperationError covers adding or comparing vectors of mismatched
// length where addition is required.
type CostVectorOperationError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *CostVectorOperationError) Error() string {
	return fmt.Sprintf("cost vector error (%s): %s", e.Kind, e.Message)
}

func NewCostVectorLengthMismatch(lenA, lenB int) *CostVectorOperationError {
	return &CostVectorOperationError{
		Kind:    "LengthMismatch",
		Message: fmt.Sprintf("cannot combine cost vectors of length %d and %d", lenA, lenB),
		Context: map[string]any{"lengthA": lenA, "lengthB": lenB},
	}
}

// TransducerError covers a malformed transducer (dangling state
// references, arc width mismatches, unknown states).
type TransducerError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *TransducerError) Error() string {
	return fmt.Sprintf("transducer error (%s): %s", e.Kind, e.Message)
}

func NewTransducerError(kind, message string, context map[string]any) *TransducerError {
	return &TransducerError{Kind: kind, Message: message, Context: context}
}

// TransducerOptimizationError covers an optimal-paths reduction failure.
type TransducerOptimizationError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *TransducerOptimizationError) Error() string {
	return fmt.Sprintf("transducer optimization error (%s): %s", e.Kind, e.Message)
}

func NewTransducerOptimizationError(kind, message string, context map[string]any) *TransducerOptimizationError {
	return &TransducerOptimizationError{Kind: kind, Message: message, Context: context}
}
