package nodekind

import (
	"github.com/flowgraph/flowbuilder/internal/core/gate"
	"github.com/flowgraph/flowbuilder/internal/core/graph"
)

// Card is the rendered face of a node on the canvas.
type Card struct {
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Badge       string `json:"badge,omitempty"`
	Color       string `json:"color"`
	Body        string `json:"body"`
	Placeholder bool   `json:"placeholder"`
}

// Renderer turns a node into its canvas card.
type Renderer interface {
	Render(node *graph.Node) Card
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(node *graph.Node) Card

// Render calls f(node).
func (f RendererFunc) Render(node *graph.Node) Card { return f(node) }

// Editor describes the inspector form of a kind.
type Editor struct {
	Title       string `json:"title"`
	FieldLabel  string `json:"fieldLabel"`
	Placeholder string `json:"placeholder"`
}

// MessageDefinition is the "Send Message" node: one outgoing edge at most,
// any number of incoming edges.
func MessageDefinition() Definition {
	desc := Descriptor{
		Kind:        graph.NodeKindMessage,
		Label:       "Send Message",
		Icon:        "message-square-text",
		Color:       "#7CE5A3",
		Description: "Send a message via WhatsApp",
	}
	return Definition{
		Descriptor: desc,
		Sockets: Sockets{
			Source: gate.Exactly(1),
			Target: gate.Open(),
		},
		Renderer: RendererFunc(func(node *graph.Node) Card {
			card := Card{
				Title: desc.Label,
				Icon:  desc.Icon,
				Badge: "whatsapp",
				Color: desc.Color,
				Body:  node.Data.Message,
			}
			if card.Body == "" {
				card.Body = "No message"
				card.Placeholder = true
			}
			return card
		}),
		Editor: Editor{
			Title:       "Message",
			FieldLabel:  "Text",
			Placeholder: "Enter your message here",
		},
	}
}

// Default returns a registry holding the built-in kinds.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(MessageDefinition())
	return r
}
