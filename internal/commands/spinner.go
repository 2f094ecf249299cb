package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/netchat/internal/render"
)

var spinnerChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner draws an animated progress line on stderr while a reply is pending
type spinner struct {
	out     io.Writer
	message string
	palette render.Palette
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		palette: render.CurrentPalette(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) color(offset int) lipgloss.Color {
	g := s.palette.Gradient
	if len(g) == 0 {
		return s.palette.Accent
	}
	return g[(s.frame+offset)%len(g)]
}

func (s *spinner) render() {
	char := lipgloss.NewStyle().
		Foreground(s.color(0)).
		Bold(true).
		Render(spinnerChars[s.frame%len(spinnerChars)])

	var dots strings.Builder
	lit := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < lit {
			dots.WriteString(lipgloss.NewStyle().Foreground(s.color(i)).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(s.palette.Mute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(s.palette.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", char, msg, dots.String())
}

// stopOnce closes the stop channel at most once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	style := lipgloss.NewStyle().Foreground(s.palette.Accent)
	fmt.Fprintf(s.out, "%s %s\n", style.Bold(true).Render("✓"), style.Render(message))
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
