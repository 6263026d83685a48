package ui

import (
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"

	"github.com/valeriapadilla/ChatBot-Ecommerce/chat"
)

// renderMarkdown renders assistant content with go-term-markdown at the
// given width. Autolink is disabled so plain URLs stay plain text and the
// terminal emulator handles link detection.
func renderMarkdown(content string, width int) string {
	if width < 10 {
		width = 10
	}

	defaultExt := markdown.Extensions()
	customExt := defaultExt &^ parser.Autolink
	p := parser.NewWithExtensions(customExt)
	r := markdown.NewRenderer(width-4, 0)
	doc := p.Parse([]byte(content))
	rendered := gomarkdown.Render(doc, r)

	return strings.TrimRight(string(rendered), "\n")
}

// renderConversation renders the ordered log for the viewport.
func renderConversation(msgs []chat.Message, width int, hasMore bool) string {
	var b strings.Builder

	if hasMore {
		b.WriteString(DimStyle.Render("-- older messages available (ctrl+o) --") + "\n\n")
	}

	for _, m := range msgs {
		switch m.Role {
		case chat.RoleAssistant:
			b.WriteString(AssistantStyle.Render("Assistant") + "\n")
			b.WriteString(renderMarkdown(m.Content, width) + "\n\n")
		default:
			label := "You"
			style := UserStyle
			if m.Provisional() {
				label = "You (sending...)"
				style = PendingStyle
			}
			b.WriteString(style.Render(label) + "\n")
			b.WriteString(m.Content + "\n\n")
		}
	}

	return b.String()
}

// centerTitle centers a header line using runewidth for accurate emoji and
// wide-rune handling.
func centerTitle(title string, width int) string {
	visual := runewidth.StringWidth(title)
	if visual >= width {
		return TitleStyle.Render(title)
	}
	pad := (width - visual) / 2
	return strings.Repeat(" ", pad) + TitleStyle.Render(title)
}

// lastAssistantContent returns the newest assistant message's raw content,
// or "" when none exists.
func lastAssistantContent(msgs []chat.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == chat.RoleAssistant {
			return msgs[i].Content
		}
	}
	return ""
}
