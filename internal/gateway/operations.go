package gateway

import (
	"context"

	"github.com/okozlov/quill/internal/kb"
)

// QuestionMutation is the triple every question-level mutation echoes
// back. The returned question becomes the new selection.
type QuestionMutation struct {
	Category *kb.Category `json:"category"`
	Question *kb.Question `json:"question"`
	Answer   *kb.Answer   `json:"answer"`
}

// Session is the login/register payload.
type Session struct {
	User  *kb.User `json:"user"`
	Token string   `json:"token"`
}

const categoriesQuery = `query GetCategories {
  categories { id name parentId }
}`

func (c *Client) Categories(ctx context.Context) ([]kb.Category, error) {
	var out struct {
		Categories []kb.Category `json:"categories"`
	}
	if err := c.do(ctx, categoriesQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

const libraryCategoriesQuery = `query GetLibraryCategories($email: String!) {
  categories(email: $email) { id name parentId }
}`

// CategoriesForUser returns the library category forest for one user,
// flat with parent references.
func (c *Client) CategoriesForUser(ctx context.Context, email string) ([]kb.Category, error) {
	var out struct {
		Categories []kb.Category `json:"categories"`
	}
	vars := map[string]any{"email": email}
	if err := c.do(ctx, libraryCategoriesQuery, vars, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

const dialogCategoryQuery = `query GetDialogCategory {
  category { id name }
}`

// DialogCategory returns the server-designated category for dialog
// practice sessions.
func (c *Client) DialogCategory(ctx context.Context) (*kb.Category, error) {
	var out struct {
		Category *kb.Category `json:"category"`
	}
	if err := c.do(ctx, dialogCategoryQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Category, nil
}

const questionsQuery = `query GetQuestionsByCategory($categoryId: ID!, $tagFilter: String) {
  questions(categoryId: $categoryId, tagFilter: $tagFilter) {
    id
    questionText
    tags { id name }
  }
}`

// Questions lists a category's questions with tags embedded. An empty
// tagFilter returns the unfiltered set.
func (c *Client) Questions(ctx context.Context, categoryID, tagFilter string) ([]kb.Question, error) {
	vars := map[string]any{"categoryId": categoryID}
	if tagFilter != "" {
		vars["tagFilter"] = tagFilter
	}

	var out struct {
		Questions []kb.Question `json:"questions"`
	}
	if err := c.do(ctx, questionsQuery, vars, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

const answerQuery = `query GetAnswerByQuestion($questionId: ID!) {
  answer(questionId: $questionId) { id answerText }
}`

// Answer fetches the question's answer, nil when the server has none.
func (c *Client) Answer(ctx context.Context, questionID string) (*kb.Answer, error) {
	var out struct {
		Answer *kb.Answer `json:"answer"`
	}
	vars := map[string]any{"questionId": questionID}
	if err := c.do(ctx, answerQuery, vars, &out); err != nil {
		return nil, err
	}
	return out.Answer, nil
}

const createQuestionMutation = `mutation CreateQuestion($questionText: String!, $categoryId: ID!, $questionType: String) {
  createQuestion(questionText: $questionText, categoryId: $categoryId, questionType: $questionType) {
    category { id name }
    question { id questionText tags { id name } }
    answer { id answerText }
  }
}`

func (c *Client) CreateQuestion(ctx context.Context, text, categoryID string, qt kb.QuestionType) (*QuestionMutation, error) {
	var out struct {
		CreateQuestion *QuestionMutation `json:"createQuestion"`
	}
	vars := map[string]any{
		"questionText": text,
		"categoryId":   categoryID,
		"questionType": string(qt),
	}
	if err := c.do(ctx, createQuestionMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CreateQuestion, nil
}

const updateQuestionMutation = `mutation UpdateQuestion($id: ID!, $questionText: String!, $questionType: String) {
  updateQuestion(id: $id, questionText: $questionText, questionType: $questionType) {
    category { id name }
    question { id questionText tags { id name } }
    answer { id answerText }
  }
}`

func (c *Client) UpdateQuestion(ctx context.Context, id, text string, qt kb.QuestionType) (*QuestionMutation, error) {
	var out struct {
		UpdateQuestion *QuestionMutation `json:"updateQuestion"`
	}
	vars := map[string]any{
		"id":           id,
		"questionText": text,
		"questionType": string(qt),
	}
	if err := c.do(ctx, updateQuestionMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.UpdateQuestion, nil
}

const updateAnswerMutation = `mutation UpdateAnswer($answerId: ID!, $answerText: String!) {
  updateAnswer(answerId: $answerId, answerText: $answerText) { id answerText }
}`

func (c *Client) UpdateAnswer(ctx context.Context, answerID, text string) (*kb.Answer, error) {
	var out struct {
		UpdateAnswer *kb.Answer `json:"updateAnswer"`
	}
	vars := map[string]any{"answerId": answerID, "answerText": text}
	if err := c.do(ctx, updateAnswerMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.UpdateAnswer, nil
}

const updateQuestionTagsMutation = `mutation UpdateQuestionTags($questionId: ID!, $tags: [TagInput!]!) {
  updateQuestionTags(questionId: $questionId, tags: $tags) {
    category { id name }
    question { id questionText tags { id name } }
    answer { id answerText }
  }
}`

func (c *Client) UpdateQuestionTags(ctx context.Context, questionID string, tags []kb.Tag) (*QuestionMutation, error) {
	cleaned := make([]map[string]any, 0, len(tags))
	for _, t := range tags {
		cleaned = append(cleaned, map[string]any{"id": t.ID, "name": t.Name})
	}

	var out struct {
		UpdateQuestionTags *QuestionMutation `json:"updateQuestionTags"`
	}
	vars := map[string]any{"questionId": questionID, "tags": cleaned}
	if err := c.do(ctx, updateQuestionTagsMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.UpdateQuestionTags, nil
}

const createCategoryMutation = `mutation CreateCategory($categoryText: String!, $userId: ID!, $parentId: ID) {
  createCategory(categoryText: $categoryText, userId: $userId, parentId: $parentId) {
    id
    name
    parentId
  }
}`

func (c *Client) CreateCategory(ctx context.Context, text, userID, parentID string) (*kb.Category, error) {
	vars := map[string]any{"categoryText": text, "userId": userID}
	if parentID != "" {
		vars["parentId"] = parentID
	}

	var out struct {
		CreateCategory *kb.Category `json:"createCategory"`
	}
	if err := c.do(ctx, createCategoryMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CreateCategory, nil
}

const tagsQuery = `query GetTags {
  tags { id name }
}`

func (c *Client) Tags(ctx context.Context) ([]kb.Tag, error) {
	var out struct {
		Tags []kb.Tag `json:"tags"`
	}
	if err := c.do(ctx, tagsQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

const loginMutation = `mutation Login($email: String!, $password: String!) {
  login(email: $email, password: $password) {
    user { id email name }
    token
  }
}`

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out struct {
		Login *Session `json:"login"`
	}
	vars := map[string]any{"email": email, "password": password}
	if err := c.do(ctx, loginMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.Login, nil
}

const registerMutation = `mutation Register($email: String!, $password: String!, $name: String!) {
  register(email: $email, password: $password, name: $name) {
    user { id email name }
    token
  }
}`

func (c *Client) Register(ctx context.Context, email, password, name string) (*Session, error) {
	var out struct {
		Register *Session `json:"register"`
	}
	vars := map[string]any{"email": email, "password": password, "name": name}
	if err := c.do(ctx, registerMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.Register, nil
}
