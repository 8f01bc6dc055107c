package commit

// Type is the conventional-commit category of a commit message.
type Type string

const (
	TypeFeat     Type = "feat"
	TypeFix      Type = "fix"
	TypeDocs     Type = "docs"
	TypeStyle    Type = "style"
	TypeRefactor Type = "refactor"
	TypePerf     Type = "perf"
	TypeTest     Type = "test"
	TypeBuild    Type = "build"
	TypeCI       Type = "ci"
	TypeChore    Type = "chore"
	TypeRevert   Type = "revert"

	// TypeOther is the fallback for subjects that don't follow the
	// conventional-commit grammar or use an unknown type.
	TypeOther Type = "other"
)

// Classified is a commit message broken into its conventional-commit parts.
type Classified struct {
	// Type is the commit category; TypeOther if the subject didn't parse.
	Type Type

	// Scope is the parenthesised scope, if the subject had one.
	Scope string

	// Summary is the description after the colon, or the whole subject
	// when the grammar didn't match.
	Summary string

	// Breaking is set by a "!" before the colon or a BREAKING CHANGE
	// footer in the body.
	Breaking bool

	// BreakingNote is the text following the BREAKING CHANGE footer,
	// empty when there is none.
	BreakingNote string
}
