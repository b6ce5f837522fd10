package secrets

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CheckName turns a check id such as "aws-access-key-id" into
// "Aws Access Key Id".
func CheckName(id string) string {
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

// FormatResult formats one file result as a status line.
func FormatResult(r FileResult) string {
	switch r.Status {
	case StatusEncrypted:
		if r.PublicKeyLeak {
			return fmt.Sprintf("  - [WARNING] %s: encrypted, but contains the age public key", r.File)
		}
		return fmt.Sprintf("  - [OK] %s: already encrypted with SOPS", r.File)
	case StatusDetected:
		return fmt.Sprintf("  - [ERROR] %s: detected %s", r.File, checkNames(r.Checks))
	case StatusFixed:
		return fmt.Sprintf("  - [FIXED] %s: detected %s, encrypted", r.File, checkNames(r.Checks))
	case StatusFailed:
		return fmt.Sprintf("  - [ERROR] %s: detected %s, encryption failed: %v", r.File, checkNames(r.Checks), r.Err)
	case StatusSkipped:
		return fmt.Sprintf("  - [SKIPPED] %s: %v", r.File, r.Err)
	case StatusExcluded:
		return fmt.Sprintf("  - [EXCLUDED] %s", r.File)
	default:
		return fmt.Sprintf("  - [OK] %s", r.File)
	}
}

// FormatReport formats a whole report. Clean and excluded files are
// listed only when verbose is set.
func FormatReport(r *Report, verbose bool) string {
	if r == nil || len(r.Results) == 0 {
		return "Secrets: no files to scan"
	}

	var sb strings.Builder
	detected := len(r.Detected())
	if detected == 0 {
		fmt.Fprintf(&sb, "Secrets: no unencrypted secrets found in %d file(s)\n", len(r.Results))
	} else {
		fmt.Fprintf(&sb, "Secrets: %d of %d file(s) contained unencrypted secrets\n", detected, len(r.Results))
	}

	for _, res := range r.Results {
		quiet := res.Status == StatusClean || res.Status == StatusExcluded
		if quiet && !verbose {
			continue
		}
		sb.WriteString(FormatResult(res))
		sb.WriteString("\n")
	}

	switch {
	case r.fixed() > 0:
		sb.WriteString("Secrets were detected and encrypted. Re-stage the files and commit again.\n")
	case detected > 0:
		sb.WriteString("Encrypt the files with sops or add them to secrets.exclude.\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func checkNames(ids []string) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = CheckName(id)
	}
	return strings.Join(names, ", ")
}
