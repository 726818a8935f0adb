package domain

import "strings"

// UntitledProposal is the title given to descriptions without a top-level heading.
const UntitledProposal = "Untitled"

// ExtractTitle pulls the first top-level markdown heading out of a proposal
// description. Both ATX (`# Title`) and setext (`Title` underlined with `=`)
// headings are recognised. Bold and italic markers are stripped from the result.
func ExtractTitle(description string) string {
	title := UntitledProposal

	lines := strings.Split(description, "\n")
	for i := range lines {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(line[2:])
			break
		}
		if i < len(lines)-1 && isSetextUnderline(strings.TrimSpace(lines[i+1])) {
			title = line
			break
		}
	}

	title = strings.ReplaceAll(title, "**", "")
	return strings.ReplaceAll(title, "__", "")
}

// isSetextUnderline reports whether line consists solely of one or more '=' characters.
func isSetextUnderline(line string) bool {
	return line != "" && strings.Trim(line, "=") == ""
}
