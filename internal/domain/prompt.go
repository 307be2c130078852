package domain

import "strings"

// BuildEmbeddingPrompt собирает текст для эмбеддинга из записи каталога.
// Порядок полей фиксирован и не настраивается: name, description, styleTags
// (через пробел), category, occasion — он определяет, какие термины доминируют
// в векторном представлении. Пустые поля не дают строки; строки соединяются
// переводами строк без пустых строк между ними. Если все поля пусты,
// возвращается пустая строка.
func BuildEmbeddingPrompt(record *ProductRecord) string {
	parts := []string{
		record.Name,
		record.Description,
		strings.Join(record.StyleTags, " "),
		record.Category,
		record.Occasion,
	}

	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}

	return strings.Join(nonEmpty, "\n")
}
