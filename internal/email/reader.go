package email

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/teemow/schoolcal/internal/logging"
)

// Email is one input file, split into headers and body.
type Email struct {
	Filename string
	Subject  string
	Date     string // raw Date: header value, informational only
	Body     string
}

// ReadDir reads all .txt email files from a folder, sorted by name.
// A missing folder or an unreadable file is not fatal: the file is skipped
// with a warning and the remaining files still process.
func ReadDir(dir string) ([]Email, error) {
	logger := logging.WithOperation(slog.Default(), "email.read")

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("email folder does not exist", logging.File(dir))
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	emails := make([]Email, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping unreadable email file", logging.File(name), logging.Err(err))
			continue
		}
		if !utf8.Valid(data) {
			logger.Warn("skipping email file with invalid UTF-8", logging.File(name))
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		emails = append(emails, parseContent(content, name))
	}

	logger.Debug("emails read", logging.Count(len(emails)))
	return emails, nil
}

// parseContent splits an email into subject, date and body. Two layouts are
// accepted: "Subject:"/"Date:" header lines followed by a blank line and the
// body, or a bare body with no headers. Without a Subject: header the
// filename stands in, underscores turned to spaces.
func parseContent(content, filename string) Email {
	em := Email{Filename: filename, Body: content}

	lines := strings.Split(content, "\n")
	headerLines := 0
	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		lower := strings.ToLower(stripped)

		switch {
		case strings.HasPrefix(lower, "subject:"):
			em.Subject = strings.TrimSpace(stripped[len("subject:"):])
			headerLines = i + 1
		case strings.HasPrefix(lower, "date:"):
			em.Date = strings.TrimSpace(stripped[len("date:"):])
			headerLines = i + 1
		case stripped == "" && headerLines > 0:
			em.Body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
			return fillSubject(em, filename)
		case !strings.HasPrefix(lower, "from:") && !strings.HasPrefix(lower, "to:"):
			if headerLines == 0 {
				// No headers at all; the whole content is the body.
				return fillSubject(em, filename)
			}
		}
	}
	return fillSubject(em, filename)
}

func fillSubject(em Email, filename string) Email {
	if em.Subject == "" {
		em.Subject = strings.ReplaceAll(strings.TrimSuffix(filename, ".txt"), "_", " ")
	}
	return em
}
