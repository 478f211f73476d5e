// Package preview renders a span partition in an interactive terminal
// viewer. Matching and non-matching spans get distinct styles and the
// user steps through the matching spans with n, p, g, and G.
package preview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	striter "github.com/martingallagher/str-iter"
)

const tabWidth = 8

// Segment is one classified span prepared for display.
type Segment struct {
	Text    string
	Verdict bool
	Start   int
	End     int
}

// Options configures the viewer. Colors are W3C color names or
// "#rrggbb" hex values as understood by tcell; empty or unknown names
// fall back to the terminal default.
type Options struct {
	Title        string
	MatchColor   string
	RestColor    string
	CurrentColor string
}

// Viewer displays segments with one style per verdict and a highlight
// on the currently selected match.
type Viewer struct {
	screen   tcell.Screen
	owned    bool
	segments []Segment
	title    string

	matchStyle   tcell.Style
	restStyle    tcell.Style
	currentStyle tcell.Style

	// matches holds the indexes of segments with a true verdict.
	matches []int
	nav     navigator
	top     int
}

// New creates a viewer on a real terminal screen. The screen is
// initialized when Run starts and released when it returns.
func New(segments []Segment, opts Options) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	v := NewWithScreen(screen, segments, opts)
	v.owned = true
	return v, nil
}

// NewWithScreen creates a viewer on a caller-managed screen. The
// caller initializes and finalizes the screen; Run leaves it alone.
func NewWithScreen(screen tcell.Screen, segments []Segment, opts Options) *Viewer {
	v := &Viewer{
		screen:       screen,
		segments:     segments,
		title:        opts.Title,
		matchStyle:   tcell.StyleDefault.Foreground(namedColor(opts.MatchColor)),
		restStyle:    tcell.StyleDefault.Foreground(namedColor(opts.RestColor)),
		currentStyle: tcell.StyleDefault.Foreground(namedColor(opts.CurrentColor)).Reverse(true).Bold(true),
	}
	for i, seg := range segments {
		if seg.Verdict {
			v.matches = append(v.matches, i)
		}
	}
	v.nav.count = len(v.matches)
	return v
}

// namedColor resolves a color name, keeping the terminal default for
// empty or unknown names.
func namedColor(name string) tcell.Color {
	if name == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(name)
}

// Run draws the segments and processes key events until the user
// quits with q or Escape.
func (v *Viewer) Run() error {
	if v.owned {
		if err := v.screen.Init(); err != nil {
			return fmt.Errorf("initializing screen: %w", err)
		}
		defer v.screen.Fini()
	}

	for {
		v.draw()
		ev := v.screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventKey:
			if v.handleKey(e) {
				return nil
			}
		case *tcell.EventResize:
			v.screen.Sync()
		case nil:
			// The screen was finalized under us.
			return nil
		}
	}
}

// handleKey updates the selection and reports whether to quit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'n':
			v.nav.next()
		case 'p':
			v.nav.prev()
		case 'g':
			v.nav.first()
		case 'G':
			v.nav.last()
		}
	}
	return false
}

// Current returns the segment index of the selected match, or -1 when
// no segment matches.
func (v *Viewer) Current() int {
	if len(v.matches) == 0 {
		return -1
	}
	return v.matches[v.nav.current]
}

// Matches returns the number of matching segments.
func (v *Viewer) Matches() int {
	return len(v.matches)
}

// cell is one laid-out screen cell. Combining runes ride along with
// the primary rune the way tcell expects them.
type cell struct {
	main  rune
	comb  []rune
	width int
	style tcell.Style
}

func (v *Viewer) draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	if width <= 0 || height <= 1 {
		v.screen.Show()
		return
	}
	body := height - 1

	lines, segLine := v.layout(width)

	// Keep the selected match in view.
	if cur := v.Current(); cur >= 0 {
		line := segLine[cur]
		if line < v.top {
			v.top = line
		}
		if line >= v.top+body {
			v.top = line - body + 1
		}
	}
	if v.top > len(lines)-body {
		v.top = len(lines) - body
	}
	if v.top < 0 {
		v.top = 0
	}

	for y := 0; y < body && v.top+y < len(lines); y++ {
		x := 0
		for _, c := range lines[v.top+y] {
			v.screen.SetContent(x, y, c.main, c.comb, c.style)
			x += c.width
		}
	}

	v.drawStatus(width, height-1)
	v.screen.Show()
}

// layout wraps the segments into screen lines of the given width. It
// returns the lines and, per segment, the line the segment starts on.
func (v *Viewer) layout(width int) ([][]cell, []int) {
	var lines [][]cell
	cur := make([]cell, 0, width)
	col := 0
	segLine := make([]int, len(v.segments))

	newline := func() {
		lines = append(lines, cur)
		cur = make([]cell, 0, width)
		col = 0
	}

	for i, seg := range v.segments {
		segLine[i] = len(lines)
		style := v.styleFor(i)

		// Segments come from a completed scan, so the text is valid
		// UTF-8 and cluster iteration cannot fail.
		g := striter.Graphemes(seg.Text)
		for g.Next() {
			cluster := g.Text()
			switch cluster {
			case "\n", "\r\n", "\r":
				newline()
				continue
			case "\t":
				pad := tabWidth - col%tabWidth
				for j := 0; j < pad; j++ {
					if col >= width {
						newline()
					}
					cur = append(cur, cell{main: ' ', width: 1, style: style})
					col++
				}
				continue
			}

			w := uniseg.StringWidth(cluster)
			if w <= 0 {
				continue
			}
			if col+w > width {
				newline()
			}
			main, comb := splitCluster(cluster)
			cur = append(cur, cell{main: main, comb: comb, width: w, style: style})
			col += w
		}
	}
	lines = append(lines, cur)
	return lines, segLine
}

func (v *Viewer) styleFor(i int) tcell.Style {
	if !v.segments[i].Verdict {
		return v.restStyle
	}
	if i == v.Current() {
		return v.currentStyle
	}
	return v.matchStyle
}

func (v *Viewer) drawStatus(width, y int) {
	style := tcell.StyleDefault.Reverse(true)

	var status string
	if len(v.matches) == 0 {
		status = fmt.Sprintf(" %s  no matches  q:quit", v.title)
	} else {
		seg := v.segments[v.matches[v.nav.current]]
		status = fmt.Sprintf(" %s  match %d/%d  [%d:%d)  n:next p:prev g:first G:last q:quit",
			v.title, v.nav.current+1, len(v.matches), seg.Start, seg.End)
	}

	x := 0
	g := striter.Graphemes(status)
	for g.Next() && x < width {
		cluster := g.Text()
		w := uniseg.StringWidth(cluster)
		if w <= 0 {
			continue
		}
		main, comb := splitCluster(cluster)
		v.screen.SetContent(x, y, main, comb, style)
		x += w
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

// splitCluster separates a grapheme cluster into the primary rune and
// the combining runes tcell wants alongside it.
func splitCluster(cluster string) (rune, []rune) {
	runes := []rune(cluster)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return runes[0], runes[1:]
}

// navigator tracks the selected match. next and prev wrap around;
// first and last jump to the ends.
type navigator struct {
	count   int
	current int
}

func (n *navigator) next() {
	if n.count == 0 {
		return
	}
	n.current = (n.current + 1) % n.count
}

func (n *navigator) prev() {
	if n.count == 0 {
		return
	}
	n.current = (n.current - 1 + n.count) % n.count
}

func (n *navigator) first() {
	n.current = 0
}

func (n *navigator) last() {
	if n.count > 0 {
		n.current = n.count - 1
	}
}
