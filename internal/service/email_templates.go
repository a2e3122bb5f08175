package service

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/futurenote/futurenote/internal/markdown"
)

//go:embed emails/*.md
var emailFS embed.FS

var emailTemplates = template.Must(template.ParseFS(emailFS, "emails/*.md"))

type confirmationEmailData struct {
	AppName      string
	GoalText     string
	ReminderDate string
	DeleteURL    string
}

type reminderEmailData struct {
	AppName        string
	GoalText       string
	CreatedDate    string
	YesURL         string
	NoURL          string
	UnsubscribeURL string
}

type achievementEmailData struct {
	AppName  string
	GoalText string
	Achieved bool
}

// renderedEmail is a message ready for the transport.
type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

// markdownEscaper backslash-escapes characters that would turn user text
// into links, emphasis or headings.
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`,
	"#", `\#`, "!", `\!`, "|", `\|`, "~", `\~`,
)

// renderEmail executes the named template twice: once with user text
// escaped for the HTML part, once verbatim for the plain-text part.
func renderEmail(parser *markdown.Parser, name string, escaped, plain any) (*renderedEmail, error) {
	var src bytes.Buffer
	err := emailTemplates.ExecuteTemplate(&src, name, escaped)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	html, meta, err := parser.ParseWithFrontmatter(src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	subject, _ := meta["subject"].(string)
	if subject == "" {
		return nil, fmt.Errorf("template %s has no subject", name)
	}

	var text bytes.Buffer
	err = emailTemplates.ExecuteTemplate(&text, name, plain)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", name, err)
	}

	return &renderedEmail{
		Subject: subject,
		HTML:    string(html),
		Text:    string(markdown.Body(text.Bytes())),
	}, nil
}
