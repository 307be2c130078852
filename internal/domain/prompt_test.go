package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEmbeddingPrompt(t *testing.T) {
	record := &ProductRecord{
		Name:        "Tee",
		Description: "Soft cotton tee",
		StyleTags:   []string{"casual", "basic"},
		Category:    "tops",
		Occasion:    "everyday",
	}

	prompt := BuildEmbeddingPrompt(record)

	assert.Equal(t, "Tee\nSoft cotton tee\ncasual basic\ntops\neveryday", prompt)
}

func TestBuildEmbeddingPrompt_SkipsEmptyFields(t *testing.T) {
	record := &ProductRecord{
		Name:     "Tee",
		Category: "tops",
	}

	prompt := BuildEmbeddingPrompt(record)

	assert.Equal(t, "Tee\ntops", prompt)
}

func TestBuildEmbeddingPrompt_IgnoresNonPromptFields(t *testing.T) {
	price := 19.99
	record := &ProductRecord{
		Name:  "Tee",
		Brand: "Acme",
		Color: "red",
		Price: &price,
	}

	prompt := BuildEmbeddingPrompt(record)

	assert.Equal(t, "Tee", prompt)
}

func TestBuildEmbeddingPrompt_AllEmpty(t *testing.T) {
	prompt := BuildEmbeddingPrompt(&ProductRecord{})

	assert.Equal(t, "", prompt)
}
