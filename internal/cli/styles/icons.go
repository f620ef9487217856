package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconGo        = "\ue627" // go gopher
	IconArrow     = "\uf061" // arrow right

	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconWarning = "\uf071" // warning
	IconInfo    = "\uf05a" // info

	IconConfig   = "\ue615" // config
	IconDatabase = "\uf1c0" // database
	IconServer   = "\uf233" // server

	// Multiplexer
	IconSessionStack = "\uf24d" // clone/stack
	IconTab          = "\uf0ce" // table
	IconPane         = "\uf0db" // columns
	IconTree         = "\uf1bb" // tree
	IconClock        = "\uf017" // clock
	IconPlay         = "\uf04b" // play (running)
	IconStop         = "\uf04d" // stop (ended)
	IconCursor       = "\uf054" // chevron-right
)
