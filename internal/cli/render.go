package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/rcliao/bloglist/internal/model"
)

// strict strips all markup from remote-supplied strings before display.
var strict = bluemonday.StrictPolicy()

func clean(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

func printNotification(w io.Writer, n model.Notification) {
	fmt.Fprintf(w, "[%s] %s\n", n.Severity, clean(n.Text))
}

// printBlogs writes blogs in the selected format. owns marks the blogs the
// live session created.
func printBlogs(w io.Writer, blogs []model.BlogRecord, owns func(model.BlogRecord) bool, format string) {
	if format == "json" {
		b, _ := json.MarshalIndent(blogs, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}
	if len(blogs) == 0 {
		fmt.Fprintln(w, "no blogs")
		return
	}
	for _, b := range blogs {
		mark := ""
		if owns(b) {
			mark = " [yours]"
		}
		fmt.Fprintf(w, "%s  %s by %s  (%d likes, added by %s)%s\n",
			b.ID, clean(b.Title), clean(b.Author), b.Likes, clean(b.Owner.DisplayName), mark)
		if b.URL != "" {
			fmt.Fprintf(w, "    %s\n", clean(b.URL))
		}
	}
}

func printBlog(w io.Writer, b model.BlogRecord, format string) {
	if format == "json" {
		out, _ := json.MarshalIndent(b, "", "  ")
		fmt.Fprintln(w, string(out))
		return
	}
	fmt.Fprintf(w, "%s  %s by %s  (%d likes)\n", b.ID, clean(b.Title), clean(b.Author), b.Likes)
}

// lineReader reads answers from the terminal. Prompts and confirmations
// share one scanner so buffered input is not lost between them.
type lineReader struct {
	in  *bufio.Scanner
	out io.Writer
}

func newLineReader(r io.Reader, w io.Writer) *lineReader {
	return &lineReader{in: bufio.NewScanner(r), out: w}
}

// ask prints prompt and returns the next line. ok is false at end of input.
func (l *lineReader) ask(prompt string) (string, bool) {
	fmt.Fprint(l.out, prompt)
	if !l.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(l.in.Text()), true
}

// Confirm implements blogs.Confirmer with a y/N question.
func (l *lineReader) Confirm(question string) bool {
	answer, ok := l.ask(clean(question) + " [y/N] ")
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
