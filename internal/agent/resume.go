package agent

import (
	"regexp"
	"strings"

	"github.com/groveworks/grove/internal/workspace"
)

var (
	claudeResumeRe = regexp.MustCompile(`claude[^\n]*--resume\s+(\S+?)[.\s]*$`)
	claudeShortRe  = regexp.MustCompile(`claude[^\n]*\s-r\s+(\S+?)[.\s]*$`)

	codexSubcommandRe = regexp.MustCompile(`codex\s+resume\s+(\S+?)[.\s]*$`)
	codexFlagRe       = regexp.MustCompile(`codex[^\n]*--resume\s+(\S+?)[.\s]*$`)

	openCodeSessionRe  = regexp.MustCompile(`opencode\s+-s\s+(\S+?)[.\s]*$`)
	openCodeContinueRe = regexp.MustCompile(`opencode\s+--continue\b`)

	tokenBodyRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{5,}$`)
)

// ExtractResumeCommand scans captured scrollback line by line and returns
// the most recent resume command it can normalize for kind, or "" if none
// is found.
func ExtractResumeCommand(kind workspace.AgentType, captured string, unsafe bool) string {
	switch kind {
	case workspace.AgentClaude:
		return extractClaudeResume(captured, unsafe)
	case workspace.AgentCodex:
		return extractCodexResume(captured, unsafe)
	case workspace.AgentOpenCode:
		return extractOpenCodeResume(captured, unsafe)
	default:
		return ""
	}
}

func extractClaudeResume(captured string, unsafe bool) string {
	var token string
	for _, line := range strings.Split(captured, "\n") {
		if m := claudeResumeRe.FindStringSubmatch(line); m != nil {
			token = m[1]
			continue
		}
		if m := claudeShortRe.FindStringSubmatch(line); m != nil {
			token = m[1]
		}
	}
	if token == "" {
		return ""
	}
	if unsafe {
		return "claude --dangerously-skip-permissions --resume " + token
	}
	return "claude --resume " + token
}

func isValidCodexToken(token string) bool {
	if token == "<id>" {
		return false
	}
	if strings.Contains(token, `".to_string()`) {
		return false
	}
	return tokenBodyRe.MatchString(token)
}

func extractCodexResume(captured string, unsafe bool) string {
	var token string
	for _, line := range strings.Split(captured, "\n") {
		if m := codexSubcommandRe.FindStringSubmatch(line); m != nil && isValidCodexToken(m[1]) {
			token = m[1]
			continue
		}
		if m := codexFlagRe.FindStringSubmatch(line); m != nil && isValidCodexToken(m[1]) {
			token = m[1]
		}
	}
	if token == "" {
		return ""
	}
	if unsafe {
		return "codex --dangerously-bypass-approvals-and-sandbox resume " + token
	}
	return "codex resume " + token
}

func extractOpenCodeResume(captured string, unsafe bool) string {
	var cmd string
	for _, line := range strings.Split(captured, "\n") {
		if m := openCodeSessionRe.FindStringSubmatch(line); m != nil {
			cmd = "opencode -s " + m[1]
			continue
		}
		if openCodeContinueRe.MatchString(line) {
			cmd = "opencode --continue"
		}
	}
	if cmd == "" {
		return ""
	}
	if unsafe {
		return `OPENCODE_PERMISSION='{"*":"allow"}' ` + cmd
	}
	return cmd
}
