package ui

import (
	"strings"
	"testing"

	"github.com/valeriapadilla/ChatBot-Ecommerce/catalog"
	"github.com/valeriapadilla/ChatBot-Ecommerce/chat"
)

func TestLastAssistantContent(t *testing.T) {
	tests := []struct {
		name     string
		msgs     []chat.Message
		expected string
	}{
		{
			name:     "empty log",
			msgs:     nil,
			expected: "",
		},
		{
			name: "no assistant messages",
			msgs: []chat.Message{
				{ID: "a", Role: chat.RoleUser, Content: "hi"},
			},
			expected: "",
		},
		{
			name: "picks the newest assistant message",
			msgs: []chat.Message{
				{ID: "a", Role: chat.RoleAssistant, Content: "first"},
				{ID: "b", Role: chat.RoleUser, Content: "more"},
				{ID: "c", Role: chat.RoleAssistant, Content: "second"},
				{ID: "d", Role: chat.RoleUser, Content: "bye"},
			},
			expected: "second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lastAssistantContent(tt.msgs)
			if got != tt.expected {
				t.Errorf("lastAssistantContent() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderConversationProvisional(t *testing.T) {
	msgs := []chat.Message{
		{ID: "local-1", Role: chat.RoleUser, Content: "confirmed message"},
		{ID: chat.ProvisionalPrefix + "2", Role: chat.RoleUser, Content: "in flight"},
	}

	out := renderConversation(msgs, 80, false)

	if !strings.Contains(out, "You (sending...)") {
		t.Errorf("expected provisional label in output, got:\n%s", out)
	}
	if strings.Count(out, "You (sending...)") != 1 {
		t.Errorf("expected exactly one provisional label, got:\n%s", out)
	}
	if !strings.Contains(out, "confirmed message") || !strings.Contains(out, "in flight") {
		t.Errorf("expected both message bodies in output, got:\n%s", out)
	}
}

func TestRenderConversationOlderBanner(t *testing.T) {
	withBanner := renderConversation(nil, 80, true)
	if !strings.Contains(withBanner, "older messages available") {
		t.Errorf("expected older-messages banner, got:\n%s", withBanner)
	}

	withoutBanner := renderConversation(nil, 80, false)
	if strings.Contains(withoutBanner, "older messages available") {
		t.Errorf("did not expect older-messages banner, got:\n%s", withoutBanner)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"short string untouched", "widget", 10, "widget"},
		{"exact length untouched", "widget", 6, "widget"},
		{"long string gets ellipsis", "wireless headphones", 10, "wireles..."},
		{"tiny budget hard cut", "widget", 2, "wi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.input, tt.n)
			if got != tt.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.expected)
			}
		})
	}
}

func TestVisibleProductsFilter(t *testing.T) {
	all := []catalog.Product{
		{ID: "1", Name: "Wireless Headphones"},
		{ID: "2", Name: "USB-C Cable"},
		{ID: "3", Name: "Wireless Mouse"},
	}

	browser := newProductBrowser()

	// Blank filter passes everything through unchanged
	if got := browser.visibleProducts(all); len(got) != 3 {
		t.Fatalf("expected 3 products with blank filter, got %d", len(got))
	}

	browser.filterInput.SetValue("wireless")
	got := browser.visibleProducts(all)
	if len(got) != 2 {
		t.Fatalf("expected 2 fuzzy matches, got %d", len(got))
	}
	for _, p := range got {
		if !strings.Contains(p.Name, "Wireless") {
			t.Errorf("unexpected match %q", p.Name)
		}
	}

	browser.filterInput.SetValue("zzzz")
	if got := browser.visibleProducts(all); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}
