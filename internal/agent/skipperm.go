package agent

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const (
	approvalNeverTag     = "<approval_policy>never</approval_policy>"
	approvalOnRequestTag = "<approval_policy>on-request</approval_policy>"
)

// InferSkipPermissions reads the newest session file for kind whose cwd
// matches workspacePath and reports whether it was running with approvals
// bypassed. ok is false if no matching session file was found.
func InferSkipPermissions(kind string, workspacePath string) (unsafe bool, ok bool) {
	switch kind {
	case "claude":
		return inferClaudeSkipPermissions(workspacePath)
	case "codex":
		return inferCodexSkipPermissions(workspacePath)
	case "opencode":
		return inferOpenCodeSkipPermissions(workspacePath)
	default:
		return false, false
	}
}

func inferClaudeSkipPermissions(workspacePath string) (bool, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return false, false
	}
	dir := filepath.Join(home, ".claude", "projects", ClaudeProjectSlug(workspacePath))
	path := newestFile(dir, ".jsonl")
	if path == "" {
		return false, false
	}

	var lastMode *string
	var lastApproval *bool
	scanJSONLines(path, func(line []byte) {
		var rec struct {
			PermissionMode string `json:"permissionMode"`
			Message        struct {
				Content json.RawMessage `json:"content"`
			} `json:"message"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			return
		}
		if rec.PermissionMode != "" {
			m := rec.PermissionMode
			lastMode = &m
		}
		text := extractText(rec.Message.Content)
		if strings.Contains(text, approvalNeverTag) {
			v := true
			lastApproval = &v
		} else if strings.Contains(text, approvalOnRequestTag) {
			v := false
			lastApproval = &v
		}
	})

	if lastMode != nil {
		return *lastMode == "bypassPermissions", true
	}
	if lastApproval != nil {
		return *lastApproval, true
	}
	return false, false
}

func inferCodexSkipPermissions(workspacePath string) (bool, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return false, false
	}
	root := filepath.Join(home, ".codex", "sessions")

	var newestPath string
	var newestMod int64
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() || !strings.HasSuffix(path, ".jsonl") {
			return nil
		}
		if matchesCwd(path, workspacePath) && info.ModTime().Unix() > newestMod {
			newestMod = info.ModTime().Unix()
			newestPath = path
		}
		return nil
	})
	if newestPath == "" {
		return false, false
	}

	found := false
	unsafe := false
	scanJSONLines(newestPath, func(line []byte) {
		var rec struct {
			Payload struct {
				Content json.RawMessage `json:"content"`
				Text    string          `json:"text"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(line, &rec); err != nil {
			return
		}
		text := rec.Payload.Text
		if text == "" {
			text = extractText(rec.Payload.Content)
		}
		if strings.Contains(text, "Approval policy is currently never.") || strings.Contains(text, approvalNeverTag) {
			unsafe = true
			found = true
		} else if strings.Contains(text, approvalOnRequestTag) {
			unsafe = false
			found = true
		}
	})
	return unsafe, found
}

func matchesCwd(sessionFile, workspacePath string) bool {
	f, err := os.Open(sessionFile)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var rec struct {
			Type    string `json:"type"`
			Payload struct {
				Cwd string `json:"cwd"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec.Type == "session_meta" {
			return rec.Payload.Cwd == workspacePath
		}
	}
	return false
}

func inferOpenCodeSkipPermissions(workspacePath string) (bool, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return false, false
	}
	dbPath := filepath.Join(home, ".local", "share", "opencode", "opencode.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return false, false
	}
	defer db.Close()

	var sessionID string
	row := db.QueryRow(`SELECT id FROM session WHERE directory = ? ORDER BY time_updated DESC LIMIT 1`, workspacePath)
	if err := row.Scan(&sessionID); err != nil {
		return false, false
	}

	var data string
	row = db.QueryRow(`SELECT data FROM message WHERE session_id = ? ORDER BY rowid DESC LIMIT 1`, sessionID)
	if err := row.Scan(&data); err != nil {
		return false, false
	}

	if strings.Contains(data, approvalNeverTag) {
		return true, true
	}
	if strings.Contains(data, approvalOnRequestTag) {
		return false, true
	}
	return false, false
}

// newestSessionLookup implements OpenCodeSessionLookup against the same db.
type newestSessionLookup struct{ dbPath string }

func NewOpenCodeSessionLookup() OpenCodeSessionLookup {
	home, _ := os.UserHomeDir()
	return &newestSessionLookup{dbPath: filepath.Join(home, ".local", "share", "opencode", "opencode.db")}
}

func (l *newestSessionLookup) NewestSessionID(workspacePath string) (string, bool) {
	db, err := sql.Open("sqlite3", l.dbPath)
	if err != nil {
		return "", false
	}
	defer db.Close()

	var id string
	row := db.QueryRow(`SELECT id FROM session WHERE directory = ? ORDER BY time_updated DESC LIMIT 1`, workspacePath)
	if err := row.Scan(&id); err != nil {
		return "", false
	}
	return id, true
}

func newestFile(dir, suffix string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	type candidate struct {
		path string
		mod  int64
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{filepath.Join(dir, e.Name()), info.ModTime().Unix()})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod > candidates[j].mod })
	return candidates[0].path
}

func scanJSONLines(path string, fn func(line []byte)) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		fn(cp)
	}
}

// extractText pulls plain text out of a message content field that may be
// either a bare string or an array of {"type":"text","text":"..."} blocks.
func extractText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var sb strings.Builder
		for _, b := range blocks {
			sb.WriteString(b.Text)
		}
		return sb.String()
	}
	return ""
}
