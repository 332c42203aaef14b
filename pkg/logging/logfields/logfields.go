package logfields

const (
	LogSubsys    = "subsys"
	LogComponent = "component"

	// File the file name
	File = "file"

	// PID the process id
	PID = "pid"

	// Strategy the lookup strategy (dsym, pdb, build-id, debuglink)
	Strategy = "strategy"

	// Candidate a path checked as a possible debug file
	Candidate = "candidate"

	// SearchPath a directory taken from a symbol search path list
	SearchPath = "search_path"

	// DebugFile the resolved debug file
	DebugFile = "debug_file"
)
