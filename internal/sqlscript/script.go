// Package sqlscript loads SQL bootstrap scripts and splits them into statements.
//
// Splitting uses the vitess tokenizer from xwb1989/sqlparser, which understands
// quoted strings, quoted identifiers and comments. It does not understand
// compound statements such as trigger bodies, so the split form is used for
// planning, for transaction-control detection and for engines that cannot run
// batches; engines that accept batches receive the original text unchanged.
package sqlscript

import (
	"os"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/canonica-labs/dbinit/internal/errors"
	"github.com/canonica-labs/dbinit/scripts"
)

// BundledSource is the Source of the embedded default script.
const BundledSource = "bundled:" + scripts.InitDBName

// Statement kinds beyond the ones reported by sqlparser.StmtType.
const (
	KindBegin    = "BEGIN"
	KindCommit   = "COMMIT"
	KindRollback = "ROLLBACK"
)

// Statement is a single statement of a script.
type Statement struct {
	// Index is the 1-based position of the statement in the script.
	Index int `json:"index"`

	// Kind is the statement class: DDL, INSERT, SELECT, BEGIN, ...
	Kind string `json:"kind"`

	// SQL is the statement text without leading comments or the terminating
	// semicolon.
	SQL string `json:"sql"`
}

// Script is a loaded SQL script.
type Script struct {
	// Source is the file path, or BundledSource.
	Source string

	// Text is the script exactly as read.
	Text string

	// Statements are the non-empty statements of Text, in order.
	Statements []Statement
}

// Load reads and analyzes the script at path.
// The file is read as UTF-8 text; nothing else touches the filesystem.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewScriptUnreadable(path, err)
	}
	return Parse(path, string(data))
}

// Bundled returns the embedded default script.
func Bundled() (*Script, error) {
	return Parse(BundledSource, scripts.InitDB)
}

// Parse analyzes text and returns a Script.
// Scripts with no statements are rejected.
func Parse(source, text string) (*Script, error) {
	pieces, err := sqlparser.SplitStatementToPieces(text)
	if err != nil {
		return nil, errors.NewMalformedScript(source, err)
	}

	s := &Script{Source: source, Text: text}
	for _, piece := range pieces {
		if isBlank(piece) {
			continue
		}
		stmt := sqlparser.StripLeadingComments(piece)
		s.Statements = append(s.Statements, Statement{
			Index: len(s.Statements) + 1,
			Kind:  kindOf(stmt),
			SQL:   stmt,
		})
	}

	if len(s.Statements) == 0 {
		return nil, errors.NewEmptyScript(source)
	}
	return s, nil
}

// HasTransactionControl reports whether the script manages its own
// transactions with BEGIN, COMMIT or ROLLBACK.
func (s *Script) HasTransactionControl() bool {
	for _, st := range s.Statements {
		switch st.Kind {
		case KindBegin, KindCommit, KindRollback:
			return true
		}
	}
	return false
}

// RequiresAutocommit reports whether the script holds a statement that
// cannot run inside a transaction: VACUUM, ATTACH, DETACH or a
// journal_mode pragma.
func (s *Script) RequiresAutocommit() bool {
	for _, st := range s.Statements {
		if outsideTransaction(st.SQL) {
			return true
		}
	}
	return false
}

// Kinds counts statements per kind.
func (s *Script) Kinds() map[string]int {
	counts := make(map[string]int)
	for _, st := range s.Statements {
		counts[st.Kind]++
	}
	return counts
}

// isBlank reports whether piece holds only whitespace and comments.
func isBlank(piece string) bool {
	tkn := sqlparser.NewStringTokenizer(piece)
	for {
		typ, _ := tkn.Scan()
		switch typ {
		case 0:
			return true
		case sqlparser.COMMENT:
			continue
		default:
			return false
		}
	}
}

func outsideTransaction(stmt string) bool {
	fields := strings.Fields(strings.ToLower(stmt))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "vacuum", "attach", "detach":
		return true
	case "pragma":
		// journal_mode=WAL, main.journal_mode = wal or journal_mode(wal);
		// reading the mode is allowed.
		setting := strings.Join(fields[1:], "")
		end := strings.IndexAny(setting, "=(")
		if end < 0 {
			return false
		}
		name := setting[:end]
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		return name == "journal_mode"
	}
	return false
}

func kindOf(stmt string) string {
	kind := sqlparser.Preview(stmt)
	if kind != sqlparser.StmtUnknown {
		return sqlparser.StmtType(kind)
	}

	// Preview only recognizes bare BEGIN/COMMIT/ROLLBACK; SQLite and
	// PostgreSQL also accept "BEGIN TRANSACTION", "COMMIT WORK" and friends.
	fields := strings.Fields(sqlparser.StripLeadingComments(stmt))
	if len(fields) == 0 {
		return sqlparser.StmtType(kind)
	}
	switch strings.ToUpper(fields[0]) {
	case "BEGIN":
		return KindBegin
	case "COMMIT":
		return KindCommit
	case "ROLLBACK":
		return KindRollback
	}
	return sqlparser.StmtType(kind)
}
