package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/golang-jwt/jwt"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// RenderMarkdown colors markdown content for terminal display. Errors
// degrade to the raw content so a bad document never blanks a pane.
func RenderMarkdown(content string, wrap int) string {
	if wrap <= 0 {
		wrap = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(wrap),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return content
	}

	out, err := r.Render(content)
	if err != nil {
		return content
	}

	return out
}

// PlainText strips markdown structure from an answer, leaving one text
// block per top-level node. Used when copying answers to the clipboard.
func PlainText(md string) string {
	source := []byte(md)
	parser := goldmark.DefaultParser()
	document := parser.Parse(text.NewReader(source))

	var blocks []string
	ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			content := strings.TrimSpace(string(n.Text(source)))
			if content != "" {
				blocks = append(blocks, content)
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			var sb strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			if code := strings.TrimRight(sb.String(), "\n"); code != "" {
				blocks = append(blocks, code)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(blocks, "\n\n")
}

// TokenClaims is the subset of the server JWT the client cares about.
type TokenClaims struct {
	UserID string
	Email  string
	Expiry time.Time
}

// ParseTokenClaims decodes the token payload without verifying the
// signature. Verification belongs to the server; the client only needs
// the expiry to know when to prompt for a fresh login.
func ParseTokenClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	out := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		out.UserID = sub
	}
	if id, ok := claims["user_id"].(string); ok && out.UserID == "" {
		out.UserID = id
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.Expiry = time.Unix(int64(exp), 0)
	}

	return out, nil
}
