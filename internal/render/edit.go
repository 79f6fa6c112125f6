package render

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyMessage is returned when the user saves no message.
var ErrEmptyMessage = errors.New("no message given")

// Editor lets the user edit text, returning "" when the text was not saved.
type Editor interface {
	Edit(ctx context.Context, text, ext string) (string, error)
}

// EditText renders edit/<kind>.mkd with data, hands it to ed and returns the
// result with comment lines removed.
func (r *Renderer) EditText(ctx context.Context, ed Editor, kind string, data map[string]any) (string, error) {
	if kind == "" {
		kind = "default"
	}
	ctxData := map[string]any{}
	for k, v := range data {
		ctxData[k] = v
	}
	ctxData["comment_char"] = r.commentChar

	text, err := r.Render("edit", kind+".mkd", ctxData)
	if err != nil {
		return "", err
	}
	edited, err := ed.Edit(ctx, text, ".mkd")
	if err != nil {
		return "", err
	}

	msg := StripComments(edited, r.commentChar)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	return msg, nil
}

// StripComments drops lines starting with commentChar and trims the result.
func StripComments(text, commentChar string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if commentChar != "" && strings.HasPrefix(line, commentChar) {
			continue
		}
		kept = append(kept, strings.TrimRight(line, "\r"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
