package riskmirror

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// defaultName is used when the profile carries no name.
const defaultName = "User"

func systemPrompt(domain string) string {
	return "You are an expert " + domain + " risk assessor. Generate a MUFG Risk Mirror Report."
}

// userPrompt lists the profile fields as "Title Case Key: value" lines, keys
// sorted. Empty, zero and false values are left out.
func userPrompt(domain string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k, v := range data {
		if !falsy(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	caser := cases.Title(language.English)
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = caser.String(strings.ReplaceAll(k, "_", " ")) + ": " + data[k]
	}
	return "Please analyze my " + domain + " profile:\n\n" + strings.Join(lines, "\n")
}

// falsy reports whether a submitted value carries no information: empty,
// numerically zero, or false.
func falsy(v string) bool {
	if v == "" || v == "false" {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && f == 0
}

func profileName(data map[string]string) string {
	if name := strings.TrimSpace(data["name"]); name != "" {
		return name
	}
	return defaultName
}

var unsafeFilenameChars = regexp.MustCompile(`[^\pL\pN._-]+`)

// downloadName is the attachment name offered for a report.
func downloadName(name, domain string) string {
	safe := strings.Trim(unsafeFilenameChars.ReplaceAllString(name, "_"), "._")
	if safe == "" {
		safe = defaultName
	}
	return safe + "_" + domain + "_risk.pdf"
}
