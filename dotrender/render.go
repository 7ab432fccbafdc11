// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dotrender renders a wsdep.DependencyGraph as Graphviz DOT text
// suitable for "dot -Tsvg" or similar.
package dotrender

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/wsdep/workspace-deps/wsdep"
)

// Renderer implements wsdep.GraphRenderer against Graphviz DOT text. The
// zero value is ready to use.
type Renderer struct{}

// New returns a ready-to-use Renderer.
func New() *Renderer { return &Renderer{} }

type gvnode struct {
	name     string
	version  string
	children []string
}

func (n gvnode) hash() uint32 {
	h := fnv.New32a()
	h.Write([]byte(n.name))
	return h.Sum32()
}

func (n gvnode) label() string {
	label := []string{n.name}
	if n.version != "" {
		label = append(label, n.version)
	}
	return strings.Join(label, "\n")
}

// Render writes g as a single "digraph { ... }" statement. Packages absent
// from the graph (external dependencies) still appear as bare-label nodes
// so the rendered graph shows the full dependency surface, not just the
// internally resolvable subset.
func (r *Renderer) Render(g *wsdep.DependencyGraph) (string, error) {
	nodes := make(map[string]*gvnode)
	var order []string

	addNode := func(name, version string) *gvnode {
		if n, ok := nodes[name]; ok {
			return n
		}
		n := &gvnode{name: name}
		nodes[name] = n
		order = append(order, name)
		return n
	}

	for _, p := range g.Packages() {
		n := addNode(p.Name(), p.Version().String())
		n.version = p.Version().String()
	}
	for _, p := range g.Packages() {
		for _, d := range p.Dependencies() {
			addNode(d.Name(), "")
			n := nodes[p.Name()]
			n.children = append(n.children, d.Name())
		}
	}

	sort.Strings(order)

	var b bytes.Buffer
	b.WriteString("digraph { node [shape=box]; ")

	hashOf := make(map[string]uint32, len(order))
	for _, name := range order {
		n := nodes[name]
		hashOf[name] = n.hash()
		fmt.Fprintf(&b, "%d [label=%q]; ", n.hash(), n.label())
	}

	seen := make(map[string]bool)
	for _, name := range order {
		n := nodes[name]
		children := append([]string(nil), n.children...)
		sort.Strings(children)
		for _, c := range children {
			edge := fmt.Sprintf("%d -> %d", hashOf[name], hashOf[c])
			if seen[edge] {
				continue
			}
			seen[edge] = true
			b.WriteString(edge + "; ")
		}
	}

	b.WriteString("}")
	return b.String(), nil
}
