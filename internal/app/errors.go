package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidStatsType  = errors.New("invalid stats type")
	ErrUnsupportedFile   = errors.New("only PDF files are allowed")
	ErrFileTooLarge      = errors.New("file too large")
	ErrNoExtractableText = errors.New("document contains no extractable text")
)
