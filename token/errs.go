package token

import (
	"errors"
	"fmt"
)

var (
	ErrUnterminatedString  = errors.New("unterminated string")
	ErrUnterminatedComment = errors.New("unterminated comment")
	ErrUnbalanced          = errors.New("imbalanced braces")
	ErrConcatOperand       = errors.New("'+' must join quoted strings")
	ErrBadEscape           = errors.New("bad escape")
)

// TokenizeErr wraps a lexical error with its source position.
type TokenizeErr struct {
	Err error
	Pos Pos
}

func NewTokenizeErr(err error, pos Pos) *TokenizeErr {
	return &TokenizeErr{Err: err, Pos: pos}
}

func (e *TokenizeErr) Unwrap() error { return e.Err }

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%v at %s", e.Err, e.Pos)
}
