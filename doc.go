// Package calc implements the evaluator behind a desk calculator.
//
// Expressions are the kind typed on a calculator keypad: decimal numbers,
// the four arithmetic operators, unary signs, and parentheses. "2(3+4)" is a
// multiplication, as is "(2)(3)". Results are rendered for display with at
// most eight decimal places, and every failure becomes one of two sentinel
// strings rather than an error, so a UI can show the output of Evaluate
// directly.
//
// Evaluation never runs general-purpose code. Input is scanned, rewritten,
// and parsed against a small fixed grammar before anything is computed.
package calc
