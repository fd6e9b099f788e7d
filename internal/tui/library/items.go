package library

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/okozlov/quill/internal/kb"
)

type categoryItem struct {
	category *kb.Category
	depth    int
}

func (i categoryItem) Title() string {
	return strings.Repeat("  ", i.depth) + i.category.Name
}

func (i categoryItem) Description() string { return "" }
func (i categoryItem) FilterValue() string { return i.category.Name }

// categoryItems flattens the forest into list rows, depth encoded as
// indentation.
func categoryItems(roots []*kb.Category) []list.Item {
	var items []list.Item
	kb.FlattenTree(roots, func(c *kb.Category, depth int) {
		items = append(items, categoryItem{category: c, depth: depth})
	})
	return items
}

type questionItem struct {
	question kb.Question
}

func (i questionItem) Title() string { return i.question.QuestionText }

func (i questionItem) Description() string {
	if len(i.question.Tags) == 0 {
		return ""
	}
	names := make([]string, 0, len(i.question.Tags))
	for _, t := range i.question.Tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func (i questionItem) FilterValue() string { return i.question.QuestionText }

// questionItems orders questions lexicographically by id, matching the
// server's stable presentation order.
func questionItems(questions []kb.Question) []list.Item {
	items := make([]list.Item, 0, len(questions))
	for _, q := range questions {
		items = append(items, questionItem{question: q})
	}
	return items
}
