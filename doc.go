// Package formula parses and evaluates arithmetic formulas over real scalars
// and arrays.
//
// The syntax is ordinary infix math: "a * X1 + b / X2", "sqrt(a^2 + b^2)",
// "-2^2" (which is "-(2^2)"), "2^3^2" (which is "2^(3^2)"). Exponentiation may
// also be written "**". Consecutive signs need brackets: "a - -b" is a syntax
// error, but "a - (-b)" is fine.
//
// Variables may be bound to scalars or to arrays. Operations on arrays apply
// to each element, with scalars and size-1 dimensions broadcast as needed.
// Parse an expression once and evaluate it for many bindings, or share one
// Evaluator between goroutines; neither is modified by evaluation.
//
package formula
