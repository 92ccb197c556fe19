package metrics

import "github.com/san-kum/symfield/internal/dynamo"

// Connections counts undirected edges in the latest frame.
type Connections struct {
	name  string
	value float64
}

func NewConnections() *Connections {
	return &Connections{name: "connections"}
}

func (c *Connections) Name() string { return c.name }

func (c *Connections) Observe(f dynamo.Frame) {
	c.value = float64(f.Connections.Edges())
}

func (c *Connections) Value() float64 { return c.value }

func (c *Connections) Reset() { c.value = 0 }
