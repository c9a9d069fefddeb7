package telemetry

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/culso/Eqonomize/output"
)

// slowThreshold marks operations highlighted in reports.
const slowThreshold = 100 * time.Millisecond

// TimingCollector collects hierarchical timing data.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
	now     func() time.Time
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	records  int
	counted  bool
	children []*timerNode
	parent   *timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{now: time.Now}
}

// Start begins timing an operation. With no running timer it opens a new
// root.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node
	return &timingTimer{collector: c, node: node}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

func (t *timingTimer) End() {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = c.now()
	if c.current == t.node {
		c.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	c := t.collector
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: c.now(), parent: t.node}
	t.node.children = append(t.node.children, node)
	return &timingTimer{collector: c, node: node}
}

func (t *timingTimer) Records(n int) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()
	t.node.records = n
	t.node.counted = true
}

// Report writes the timer tree:
//
//	load home.xml: 125ms
//	├─ parse: 85ms
//	└─ decode transactions (412 records): 40ms
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		name := root.label()
		if styles != nil {
			name = styles.Keyword(name)
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", name, formatDuration(root.duration()))
		for i, child := range root.children {
			formatNode(w, child, "", i == len(root.children)-1, styles)
		}
	}
}

func (n *timerNode) label() string {
	if n.counted {
		return fmt.Sprintf("%s (%d records)", n.name, n.records)
	}
	return n.name
}

func formatNode(w io.Writer, node *timerNode, prefix string, isLast bool, styles *output.Styles) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	d := node.duration()
	timing := formatDuration(d)
	tree := prefix + branch
	if styles != nil {
		tree = styles.Dim(tree)
		if d >= slowThreshold {
			timing = styles.Warning(timing)
		} else {
			timing = styles.Dim(timing)
		}
	}
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", tree, node.label(), timing)

	for i, child := range node.children {
		formatNode(w, child, prefix+extension, i == len(node.children)-1, styles)
	}
}

// Log emits one debug event per finished timer, named by its path.
func (c *TimingCollector) Log(logger zerolog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var walk func(n *timerNode, path []string)
	walk = func(n *timerNode, path []string) {
		path = append(path, n.name)
		if !n.end.IsZero() {
			ev := logger.Debug().
				Str("operation", strings.Join(path, " > ")).
				Dur("duration", n.duration())
			if n.counted {
				ev = ev.Int("records", n.records)
			}
			ev.Msg("timing")
		}
		for _, child := range n.children {
			walk(child, path)
		}
	}
	for _, root := range c.roots {
		walk(root, nil)
	}
}

// formatDuration shows milliseconds below one second, seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
