package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var site = Site{AppName: "FutureNote", AppURL: "https://futurenote.test"}

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestResponseRecorded_EscapesGoalText(t *testing.T) {
	html := render(t, context.Background(), ResponseRecorded(site, `Ship <script>alert("x")</script>`, true))

	assert.Contains(t, html, "Congratulations on achieving your goal!")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<title>Congratulations! - FutureNote</title>")
}

func TestResponseRecorded_NotAchieved(t *testing.T) {
	html := render(t, context.Background(), ResponseRecorded(site, "Run a marathon", false))
	assert.Contains(t, html, "Every step counts!")
	assert.Contains(t, html, "Run a marathon")
}

func TestLayout_UsesNonce(t *testing.T) {
	ctx := templ.WithNonce(context.Background(), "abc123")
	html := render(t, ctx, GoalDeleted(site))

	assert.Contains(t, html, `<style nonce="abc123">`)
	assert.Contains(t, html, `href="https://futurenote.test"`)
}

func TestStaticPages(t *testing.T) {
	tests := []struct {
		name string
		c    templ.Component
		want string
	}{
		{"already responded", AlreadyResponded(site), "You have already responded"},
		{"deleted", GoalDeleted(site), "Goal Deleted"},
		{"unsubscribed", Unsubscribed(site), "unsubscribed"},
		{"error", Error(site, "Link not found", "This link is invalid or has already been used."), "already been used"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, render(t, context.Background(), tt.c), tt.want)
		})
	}
}
