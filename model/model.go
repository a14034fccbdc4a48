package model

// Flow names the path an invocation took.
type Flow string

const (
	// FlowPassthrough ran git commit with the user's own arguments.
	FlowPassthrough Flow = "passthrough"
	// FlowCommit generated a message and committed it.
	FlowCommit Flow = "commit"
	// FlowPrint generated a message and printed it.
	FlowPrint Flow = "print"
	// FlowNormalize normalized text from stdin or the clipboard.
	FlowNormalize Flow = "normalize"
)

// Summary holds the results of an invocation for display.
type Summary struct {
	Flow    Flow
	Message string

	Committed bool
	Copied    bool
	// CopyErr is set when --copy was requested and the copy failed. It does
	// not fail the invocation.
	CopyErr error

	DiffBytes     int
	DiffTruncated bool
}
