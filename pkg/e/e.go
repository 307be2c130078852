package e

import "fmt"

var (
	// Ошибки входных данных каталога
	ErrUnknownSource        = fmt.Errorf("unknown record source")
	ErrInvalidNumericValue  = fmt.Errorf("value cannot be parsed as a number")
	ErrEmptyDatapointID     = fmt.Errorf("datapoint id is empty: sku and name are both missing")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// Ошибки эмбеддингов
	ErrEmbeddingsUnavailable = fmt.Errorf("embeddings provider unavailable")
	ErrEmptyEmbedding        = fmt.Errorf("embeddings response missing vector values")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
