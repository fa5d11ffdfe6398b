package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/essence-shop/essence/internal/config"
)

// wizard asks setup questions on a line-oriented terminal
type wizard struct {
	in  *bufio.Reader
	out io.Writer
}

func newWizard(in io.Reader, out io.Writer) *wizard {
	return &wizard{in: bufio.NewReader(in), out: out}
}

// ask shows label with its default and re-asks until check accepts the answer.
// An empty answer, or end of input, takes the default.
func (w *wizard) ask(label, def string, check func(string) error) string {
	for {
		fmt.Fprintf(w.out, "%s [%s]: ", label, def)
		line, err := w.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}
		if check == nil {
			return answer
		}
		checkErr := check(answer)
		if checkErr == nil {
			return answer
		}
		fmt.Fprintf(w.out, "❌ %s\n\n", checkErr)
		if err != nil {
			// no more input to retry with
			return def
		}
	}
}

// confirm asks a yes/no question that defaults to no
func (w *wizard) confirm(question string) bool {
	answer := w.ask(question+" (y/N)", "n", func(s string) error {
		switch strings.ToLower(s) {
		case "y", "yes", "n", "no":
			return nil
		}
		return fmt.Errorf("invalid input: %s (enter y/yes/n/no or press Enter for no)", s)
	})
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

// askSettings walks through the database and server questions, starting
// from the values already in setup
func (w *wizard) askSettings(setup *config.Config) error {
	fmt.Fprintln(w.out, "\n📊 Database Configuration")
	fmt.Fprintln(w.out, "--------------------------")
	setup.Database.URL = w.ask("Database URL (postgres:// or sqlite://)", setup.Database.URL, nil)

	fmt.Fprintln(w.out, "\n🌐 Server Configuration")
	fmt.Fprintln(w.out, "------------------------")
	setup.Settings.Host = w.ask("Host", setup.Settings.Host, nil)

	port := w.ask("Port", strconv.Itoa(setup.Settings.Port), func(s string) error {
		if n, err := strconv.Atoi(s); err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid port: %s", s)
		}
		return nil
	})
	setup.Settings.Port, _ = strconv.Atoi(port)

	origins := w.ask("CORS origins, comma separated", strings.Join(setup.Settings.CORSOrigins, ","), nil)
	setup.Settings.CORSOrigins = config.SplitList(origins)

	return setup.Settings.Validate()
}
