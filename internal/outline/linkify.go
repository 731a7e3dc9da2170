package outline

import (
	"regexp"
	"strings"
)

var (
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	urlRe    = regexp.MustCompile(`https?://\S+`)
	wwwRe    = regexp.MustCompile(`(^|[^/])(www\.\S+)`)
	domainRe = regexp.MustCompile(`\b[A-Za-z0-9-]+\.[A-Za-z]{2,}(?:\.[A-Za-z]{2,})?\b`)

	// linkSpanRe matches an existing markdown link, e.g. [text](target).
	linkSpanRe = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)
)

// Linkify rewrites emails, absolute URLs, www. URLs and bare domains in a
// single line into markdown links. Passes run in that order and each one
// scans the output of the previous pass.
func Linkify(line string) string {
	line = linkifyEmails(line)
	line = linkifyURLs(line)
	line = linkifyWWW(line)
	line = linkifyDomains(line)
	return line
}

func linkifyEmails(line string) string {
	return rewrite(line, emailRe, 0, func(m string) string {
		return "[" + m + "](mailto:" + m + ")"
	})
}

func linkifyURLs(line string) string {
	return rewrite(line, urlRe, 0, func(m string) string {
		return "[" + m + "](" + m + ")"
	})
}

// linkifyWWW skips www. tokens that directly follow a slash so the host part
// of an absolute URL is left alone.
func linkifyWWW(line string) string {
	return rewrite(line, wwwRe, 2, func(m string) string {
		return "[" + m + "](http://" + m + ")"
	})
}

func linkifyDomains(line string) string {
	spans := linkSpans(line)
	var sb strings.Builder
	last := 0
	for _, loc := range domainRe.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && line[start-1] == '@' {
			continue
		}
		if insideSpan(spans, start, end) {
			continue
		}
		m := line[start:end]
		// Plain substring check against the whole line: a token that was
		// linked anywhere suppresses every other occurrence too.
		if strings.Contains(line, "["+m+"]") || strings.Contains(line, "@"+m) {
			continue
		}
		sb.WriteString(line[last:start])
		sb.WriteString("[" + m + "](http://" + m + ")")
		last = end
	}
	if last == 0 {
		return line
	}
	sb.WriteString(line[last:])
	return sb.String()
}

// rewrite replaces every match of re in line with repl(token), where token is
// capture group g (0 for the whole match). Matches that overlap a markdown
// link already present in the line are kept verbatim.
func rewrite(line string, re *regexp.Regexp, g int, repl func(string) string) string {
	spans := linkSpans(line)
	var sb strings.Builder
	last := 0
	for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
		start, end := loc[2*g], loc[2*g+1]
		if start < 0 || insideSpan(spans, start, end) {
			continue
		}
		sb.WriteString(line[last:start])
		sb.WriteString(repl(line[start:end]))
		last = end
	}
	if last == 0 {
		return line
	}
	sb.WriteString(line[last:])
	return sb.String()
}

func linkSpans(line string) [][]int {
	if !strings.Contains(line, "](") {
		return nil
	}
	return linkSpanRe.FindAllStringIndex(line, -1)
}

func insideSpan(spans [][]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && end > s[0] {
			return true
		}
	}
	return false
}
